package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// ScheduleController handles exam timetable endpoints
type ScheduleController struct {
	scheduleService services.ScheduleService
	logger          zerolog.Logger
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService services.ScheduleService, logger zerolog.Logger) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// CreateSchedule handles single time-slot creation
// @Summary Create an exam schedule
// @Description Validates the slot against existing schedules for the class and persists it
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.CreateScheduleRequest true "Time slot"
// @Success 201 {object} dto.APIResponse{data=models.ExamSchedule} "Schedule created"
// @Failure 409 {object} dto.ErrorResponse "Overlapping or duplicate slot"
// @Router /exams/{id}/schedules [post]
func (c *ScheduleController) CreateSchedule(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	schedule, err := c.scheduleService.CreateSchedule(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Schedule created successfully", schedule))
}

// CreateBulk handles all-or-nothing batch slot creation
// @Summary Create exam schedules in bulk
// @Description Validates every slot in the batch before persisting any of them
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.BulkScheduleRequest true "Time slots"
// @Success 201 {object} dto.APIResponse{data=[]models.ExamSchedule} "Schedules created"
// @Failure 409 {object} dto.ErrorResponse "Overlapping or duplicate slot in the batch"
// @Router /exams/{id}/schedules/bulk [post]
func (c *ScheduleController) CreateBulk(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.BulkScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	schedules, err := c.scheduleService.CreateBulk(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Schedules created successfully", schedules))
}

// GetSchedules handles timetable retrieval
// @Summary List exam schedules
// @Tags schedules
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ExamSchedule} "Schedules retrieved"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/schedules [get]
func (c *ScheduleController) GetSchedules(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	schedules, err := c.scheduleService.GetSchedules(ctx, actor, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Schedules retrieved successfully", schedules))
}
