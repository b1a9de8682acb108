package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/services"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// ResultController handles marks entry and result retrieval endpoints
type ResultController struct {
	marksService services.MarksService
	logger       zerolog.Logger
}

// NewResultController creates a new ResultController
func NewResultController(marksService services.MarksService, logger zerolog.Logger) *ResultController {
	return &ResultController{
		marksService: marksService,
		logger:       logger,
	}
}

// SubmitMarks handles batch marks entry for one subject
// @Summary Submit marks
// @Description Upserts a batch of entries for one subject, all-or-nothing. Draft entries stay editable until finalized.
// @Tags results
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.SubmitMarksRequest true "Marks batch"
// @Success 200 {object} dto.APIResponse{data=[]models.ExamResult} "Marks recorded"
// @Failure 400 {object} dto.ErrorResponse "Marks exceed max or student not in a scheduled class"
// @Failure 409 {object} dto.ErrorResponse "Results already published"
// @Router /exams/{id}/results [post]
func (c *ResultController) SubmitMarks(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubmitMarksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	results, err := c.marksService.SubmitMarks(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Marks recorded successfully", results))
}

// FinalizeMarks handles clearing the draft flag for a subject
// @Summary Finalize marks
// @Description Marks every entry of the subject final. Once no drafts remain in the exam it advances to MARKS_ENTRY_COMPLETED.
// @Tags results
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param request body dto.FinalizeMarksRequest true "Subject to finalize"
// @Success 200 {object} dto.APIResponse "Marks finalized"
// @Router /exams/{id}/results/finalize [post]
func (c *ResultController) FinalizeMarks(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.FinalizeMarksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	finalized, err := c.marksService.FinalizeMarks(ctx, actor, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Marks finalized successfully", gin.H{"finalized": finalized}))
}

// GetResults handles filtered result retrieval
// @Summary List exam results
// @Description Lists result rows. Students and parents only see published results.
// @Tags results
// @Produce json
// @Param id path int true "Exam ID"
// @Param studentId query int false "Filter by student"
// @Param classId query int false "Filter by class"
// @Param subjectId query int false "Filter by subject"
// @Success 200 {object} dto.APIResponse{data=[]models.ExamResult} "Results retrieved"
// @Failure 412 {object} dto.ErrorResponse "Results not published"
// @Router /exams/{id}/results [get]
func (c *ResultController) GetResults(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	filter := dto.ResultFilterRequest{
		StudentID: optionalQueryID(ctx, "studentId"),
		ClassID:   optionalQueryID(ctx, "classId"),
		SubjectID: optionalQueryID(ctx, "subjectId"),
	}
	results, err := c.marksService.GetResults(ctx, actor, examID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Results retrieved successfully", results))
}
