package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/controllers"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	examController *controllers.ExamController,
	scheduleController *controllers.ScheduleController,
	resultController *controllers.ResultController,
	reportCardController *controllers.ReportCardController,
	hallTicketController *controllers.HallTicketController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		exams := authenticated.Group("/exams")
		{
			// Readable by every authenticated role; services enforce the
			// published-only rule for students and parents
			exams.GET("", examController.GetExams)
			exams.GET("/:id", examController.GetExamByID)
			exams.GET("/:id/schedules", scheduleController.GetSchedules)
			exams.GET("/:id/results", resultController.GetResults)
			exams.GET("/:id/analytics", examController.GetAnalytics)
			exams.GET("/:id/report-cards/:studentId", reportCardController.GetStudentReportCard)
			exams.GET("/:id/hall-tickets/:studentId", hallTicketController.GetStudentTicket)

			// Staff routes: administrators and teachers
			staff := exams.Group("")
			staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
			{
				staff.POST("/:id/schedules", scheduleController.CreateSchedule)
				staff.POST("/:id/schedules/bulk", scheduleController.CreateBulk)
				staff.POST("/:id/results", resultController.SubmitMarks)
				staff.POST("/:id/results/finalize", resultController.FinalizeMarks)
				staff.POST("/:id/remind", examController.SendReminder)
				staff.POST("/:id/report-cards", reportCardController.GenerateReportCards)
				staff.GET("/:id/report-cards", reportCardController.GetReportCards)
				staff.POST("/:id/hall-tickets", hallTicketController.GenerateTickets)
				staff.GET("/:id/hall-tickets", hallTicketController.GetTickets)
			}

			// Administrator-only lifecycle routes
			admin := exams.Group("")
			admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				admin.POST("", examController.CreateExam)
				admin.PUT("/:id", examController.UpdateExam)
				admin.DELETE("/:id", examController.DeleteExam)
				admin.POST("/:id/archive", examController.ArchiveExam)
				admin.POST("/:id/publish-schedule", examController.PublishSchedule)
				admin.POST("/:id/publish-results", examController.PublishResults)
			}
		}

		authenticated.POST("/hall-tickets/:ticketId/download", hallTicketController.DownloadTicket)
	}
}
