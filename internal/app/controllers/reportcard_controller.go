package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// ReportCardController handles report card endpoints
type ReportCardController struct {
	reportCardService services.ReportCardService
	logger            zerolog.Logger
}

// NewReportCardController creates a new ReportCardController
func NewReportCardController(reportCardService services.ReportCardService, logger zerolog.Logger) *ReportCardController {
	return &ReportCardController{
		reportCardService: reportCardService,
		logger:            logger,
	}
}

// GenerateReportCards handles report card assembly
// @Summary Generate report cards
// @Description Assembles cards for one student or a whole class of a published exam. Unresolvable students are skipped.
// @Tags report-cards
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.GenerateReportCardsRequest true "Target selection"
// @Success 200 {object} dto.APIResponse{data=dto.GenerateReportCardsResponse} "Report cards generated"
// @Failure 412 {object} dto.ErrorResponse "Results not published"
// @Router /exams/{id}/report-cards [post]
func (c *ReportCardController) GenerateReportCards(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.GenerateReportCardsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	result, err := c.reportCardService.GenerateReportCards(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Report cards generated successfully", result))
}

// GetReportCards handles listing an exam's report cards
// @Summary List report cards
// @Tags report-cards
// @Produce json
// @Param id path int true "Exam ID"
// @Param classId query int false "Narrow to one class"
// @Success 200 {object} dto.APIResponse{data=[]models.ReportCard} "Report cards retrieved"
// @Router /exams/{id}/report-cards [get]
func (c *ReportCardController) GetReportCards(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	cards, err := c.reportCardService.GetReportCards(ctx, actor, examID, optionalQueryID(ctx, "classId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Report cards retrieved successfully", cards))
}

// GetStudentReportCard handles fetching one student's card
// @Summary Get a student's report card
// @Tags report-cards
// @Produce json
// @Param id path int true "Exam ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.ReportCard} "Report card retrieved"
// @Failure 404 {object} dto.ErrorResponse "Report card not found"
// @Router /exams/{id}/report-cards/{studentId} [get]
func (c *ReportCardController) GetStudentReportCard(ctx *gin.Context) {
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
	card, err := c.reportCardService.GetStudentReportCard(ctx, actor, examID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Report card retrieved successfully", card))
}
