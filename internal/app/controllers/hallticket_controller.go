package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// HallTicketController handles exam-entry credential endpoints
type HallTicketController struct {
	hallTicketService services.HallTicketService
	logger            zerolog.Logger
}

// NewHallTicketController creates a new HallTicketController
func NewHallTicketController(hallTicketService services.HallTicketService, logger zerolog.Logger) *HallTicketController {
	return &HallTicketController{
		hallTicketService: hallTicketService,
		logger:            logger,
	}
}

// GenerateTickets handles credential batch generation
// @Summary Generate hall tickets
// @Description Replaces the exam's credential batch with freshly numbered tickets for every active student in the target classes
// @Tags hall-tickets
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.GenerateHallTicketsRequest true "Center and reporting details"
// @Success 200 {object} dto.APIResponse{data=[]models.HallTicket} "Hall tickets generated"
// @Failure 412 {object} dto.ErrorResponse "Timetable not published"
// @Router /exams/{id}/hall-tickets [post]
func (c *HallTicketController) GenerateTickets(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.GenerateHallTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	tickets, err := c.hallTicketService.GenerateTickets(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Hall tickets generated successfully", tickets))
}

// GetTickets handles listing an exam's credential batch
// @Summary List hall tickets
// @Tags hall-tickets
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=[]models.HallTicket} "Hall tickets retrieved"
// @Router /exams/{id}/hall-tickets [get]
func (c *HallTicketController) GetTickets(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	tickets, err := c.hallTicketService.GetTickets(ctx, actor, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Hall tickets retrieved successfully", tickets))
}

// GetStudentTicket handles fetching one student's credential
// @Summary Get a student's hall ticket
// @Tags hall-tickets
// @Produce json
// @Param id path int true "Exam ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.HallTicket} "Hall ticket retrieved"
// @Failure 404 {object} dto.ErrorResponse "Hall ticket not found"
// @Router /exams/{id}/hall-tickets/{studentId} [get]
func (c *HallTicketController) GetStudentTicket(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}
	ticket, err := c.hallTicketService.GetStudentTicket(ctx, actor, examID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Hall ticket retrieved successfully", ticket))
}

// DownloadTicket tracks a credential download
// @Summary Download a hall ticket
// @Description Increments the download counter and returns the ticket payload
// @Tags hall-tickets
// @Produce json
// @Param ticketId path int true "Hall ticket ID"
// @Success 200 {object} dto.APIResponse{data=models.HallTicket} "Hall ticket downloaded"
// @Failure 404 {object} dto.ErrorResponse "Hall ticket not found"
// @Router /hall-tickets/{ticketId}/download [post]
func (c *HallTicketController) DownloadTicket(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	ticketID, ok := pathID(ctx, "ticketId")
	if !ok {
		return
	}
	ticket, err := c.hallTicketService.DownloadTicket(ctx, actor, ticketID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Hall ticket downloaded successfully", ticket))
}
