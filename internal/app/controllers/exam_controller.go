package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// ExamController handles exam lifecycle endpoints
type ExamController struct {
	examService      services.ExamService
	analyticsService services.AnalyticsService
	logger           zerolog.Logger
}

// NewExamController creates a new ExamController
func NewExamController(examService services.ExamService, analyticsService services.AnalyticsService, logger zerolog.Logger) *ExamController {
	return &ExamController{
		examService:      examService,
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// CreateExam handles exam creation
// @Summary Create an exam
// @Description Creates a new exam in draft status
// @Tags exams
// @Accept json
// @Produce json
// @Param request body dto.CreateExamRequest true "Exam definition"
// @Success 201 {object} dto.APIResponse{data=models.Exam} "Exam created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Administrator role required"
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	exam, err := c.examService.CreateExam(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Exam created successfully", exam))
}

// GetExams handles exam listing
// @Summary List exams
// @Description Lists exams of the actor's institution with optional filters
// @Tags exams
// @Produce json
// @Param status query string false "Filter by status"
// @Param examType query string false "Filter by exam type"
// @Param academicYearId query int false "Filter by academic year"
// @Param classId query int false "Filter by target class"
// @Success 200 {object} dto.APIResponse{data=[]models.Exam} "Exams retrieved"
// @Router /exams [get]
func (c *ExamController) GetExams(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	filter := dto.ExamFilterRequest{
		Status:         ctx.Query("status"),
		ExamType:       ctx.Query("examType"),
		AcademicYearID: optionalQueryID(ctx, "academicYearId"),
		ClassID:        optionalQueryID(ctx, "classId"),
	}
	exams, err := c.examService.GetExams(ctx, actor, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exams retrieved successfully", exams))
}

// GetExamByID handles single exam retrieval
// @Summary Get an exam
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=models.Exam} "Exam retrieved"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [get]
func (c *ExamController) GetExamByID(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	exam, err := c.examService.GetExamByID(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam retrieved successfully", exam))
}

// UpdateExam handles partial exam updates
// @Summary Update an exam
// @Description Applies a partial patch. Published exams are immutable.
// @Tags exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Exam} "Exam updated"
// @Failure 409 {object} dto.ErrorResponse "Exam already published"
// @Router /exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	exam, err := c.examService.UpdateExam(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam updated successfully", exam))
}

// DeleteExam handles exam deletion
// @Summary Delete an exam
// @Description Hard-deletes an exam and its schedules. Fails once marks entry has started.
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse "Exam deleted"
// @Failure 412 {object} dto.ErrorResponse "Results exist, archive instead"
// @Router /exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.examService.DeleteExam(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam deleted successfully", nil))
}

// ArchiveExam handles administrative archiving
// @Summary Archive an exam
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse "Exam archived"
// @Failure 409 {object} dto.ErrorResponse "Exam cannot be archived"
// @Router /exams/{id}/archive [post]
func (c *ExamController) ArchiveExam(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.examService.ArchiveExam(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam archived successfully", nil))
}

// PublishSchedule handles timetable publication
// @Summary Publish the exam timetable
// @Description Moves the exam to SCHEDULED and notifies target classes
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=models.Exam} "Timetable published"
// @Failure 412 {object} dto.ErrorResponse "No schedules exist"
// @Router /exams/{id}/publish-schedule [post]
func (c *ExamController) PublishSchedule(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	exam, err := c.examService.PublishSchedule(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam timetable published successfully", exam))
}

// PublishResults handles results publication
// @Summary Publish exam results
// @Description Runs rank computation and analytics, then flips the exam to RESULTS_PUBLISHED
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.PublishResultsResponse} "Results published"
// @Failure 409 {object} dto.ErrorResponse "Draft results remain or already published"
// @Router /exams/{id}/publish-results [post]
func (c *ExamController) PublishResults(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.examService.PublishResults(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Exam results published successfully", result))
}

// SendReminder handles reminder notifications for an upcoming exam
// @Summary Send an exam reminder
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse "Reminder sent"
// @Router /exams/{id}/remind [post]
func (c *ExamController) SendReminder(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.examService.SendReminder(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Reminder sent successfully", nil))
}

// GetAnalytics handles analytics retrieval
// @Summary Get exam analytics
// @Description Returns persisted statistics snapshots, optionally narrowed by class and subject
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Param classId query int false "Narrow to one class"
// @Param subjectId query int false "Narrow to one subject"
// @Success 200 {object} dto.APIResponse{data=[]models.ExamAnalytics} "Analytics retrieved"
// @Failure 412 {object} dto.ErrorResponse "Results not published"
// @Router /exams/{id}/analytics [get]
func (c *ExamController) GetAnalytics(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	analytics, err := c.analyticsService.GetAnalytics(ctx, actor, id,
		optionalQueryID(ctx, "classId"), optionalQueryID(ctx, "subjectId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Analytics retrieved successfully", analytics))
}
