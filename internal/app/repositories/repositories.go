package repositories

import (
	"github.com/sapatil2212/edutechunite-sub005/internal/db"
)

// Repositories holds every repository instance
type Repositories struct {
	User       *UserRepository
	Student    *StudentRepository
	Subject    *SubjectRepository
	Exam       *ExamRepository
	Schedule   *ScheduleRepository
	Result     *ResultRepository
	Analytics  *AnalyticsRepository
	ReportCard *ReportCardRepository
	HallTicket *HallTicketRepository
}

// NewRepositories creates all repositories against one database handle
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(database),
		Student:    NewStudentRepository(database),
		Subject:    NewSubjectRepository(database),
		Exam:       NewExamRepository(database),
		Schedule:   NewScheduleRepository(database),
		Result:     NewResultRepository(database),
		Analytics:  NewAnalyticsRepository(database),
		ReportCard: NewReportCardRepository(database),
		HallTicket: NewHallTicketRepository(database),
	}
}
