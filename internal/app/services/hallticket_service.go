package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/app/models/dto"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/numbering"
)

const (
	seatNumberMin   = 1000
	seatNumberMax   = 9999
	ticketSuffixMin = 10000
	ticketSuffixMax = 99999
)

// ticketStore is the slice of the hall-ticket repository the service needs
type ticketStore interface {
	ReplaceBatch(ctx context.Context, examID int64, tickets []*models.HallTicket) error
	GetByExam(ctx context.Context, examID int64) ([]*models.HallTicket, error)
	GetByExamAndStudent(ctx context.Context, examID, studentID int64) (*models.HallTicket, error)
	TrackDownload(ctx context.Context, id int64) (*models.HallTicket, error)
}

// classRosterReader lists the active students of one class
type classRosterReader interface {
	GetActiveByClass(ctx context.Context, classID int64) ([]*models.Student, error)
}

// HallTicketService defines the interface for exam-entry credentials
type HallTicketService interface {
	GenerateTickets(ctx context.Context, actor models.Actor, examID int64, req *dto.GenerateHallTicketsRequest) ([]*models.HallTicket, error)
	GetTickets(ctx context.Context, actor models.Actor, examID int64) ([]*models.HallTicket, error)
	GetStudentTicket(ctx context.Context, actor models.Actor, examID, studentID int64) (*models.HallTicket, error)
	DownloadTicket(ctx context.Context, actor models.Actor, ticketID int64) (*models.HallTicket, error)
}

// hallTicketServiceImpl implements HallTicketService
type hallTicketServiceImpl struct {
	ticketRepo   ticketStore
	examRepo     examReader
	studentRepo  classRosterReader
	sampler      *numbering.Sampler
	authz        staffValidator
	prefixLength int
	logger       zerolog.Logger
}

// NewHallTicketService creates a new HallTicketService
func NewHallTicketService(
	ticketRepo ticketStore,
	examRepo examReader,
	studentRepo classRosterReader,
	sampler *numbering.Sampler,
	authz staffValidator,
	prefixLength int,
	logger zerolog.Logger,
) HallTicketService {
	return &hallTicketServiceImpl{
		ticketRepo:   ticketRepo,
		examRepo:     examRepo,
		studentRepo:  studentRepo,
		sampler:      sampler,
		authz:        authz,
		prefixLength: prefixLength,
		logger:       logger,
	}
}

// ticketPrefix derives the ticket-number prefix from the exam name's word
// initials, truncated to the configured length. Initials are counted in
// runes so multi-byte letters are never cut mid-character.
func ticketPrefix(name string, length int) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
		if len(initials) >= length {
			break
		}
	}
	if len(initials) == 0 {
		return "EX"
	}
	if len(initials) > length {
		initials = initials[:length]
	}
	return string(initials)
}

// GenerateTickets builds the credential batch for an exam timetable.
// Regeneration deletes the prior batch first, so ticket and seat numbers
// only need to be unique within the batch.
func (s *hallTicketServiceImpl) GenerateTickets(ctx context.Context, actor models.Actor, examID int64, req *dto.GenerateHallTicketsRequest) ([]*models.HallTicket, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	if exam.Status == models.ExamStatusDraft {
		return nil, apperrors.NewCustomError(apperrors.ErrExamNotScheduled, "publish the exam timetable before generating hall tickets")
	}
	if exam.Status == models.ExamStatusArchived {
		return nil, apperrors.NewPreconditionFailedError("exam is archived")
	}

	var students []*models.Student
	for _, classID := range exam.TargetClassIDs {
		roster, err := s.studentRepo.GetActiveByClass(ctx, classID)
		if err != nil {
			return nil, err
		}
		students = append(students, roster...)
	}
	if len(students) == 0 {
		return nil, apperrors.NewPreconditionFailedError("target classes have no active students")
	}

	seats, err := s.sampler.SampleUnique(len(students), seatNumberMin, seatNumberMax)
	if err != nil {
		return nil, err
	}
	suffixes, err := s.sampler.SampleUnique(len(students), ticketSuffixMin, ticketSuffixMax)
	if err != nil {
		return nil, err
	}

	prefix := ticketPrefix(exam.Name, s.prefixLength)
	year := exam.StartDate.Year() % 100

	tickets := make([]*models.HallTicket, len(students))
	for i, student := range students {
		tickets[i] = &models.HallTicket{
			ExamID:        examID,
			StudentID:     student.ID,
			TicketNumber:  fmt.Sprintf("%s%02d-%d", prefix, year, suffixes[i]),
			SeatNumber:    fmt.Sprintf("%d", seats[i]),
			ExamCenter:    req.ExamCenter,
			Room:          req.Room,
			ReportingTime: req.ReportingTime,
			Instructions:  req.Instructions,
			GeneratedBy:   actor.UserID,
		}
	}

	if err := s.ticketRepo.ReplaceBatch(ctx, examID, tickets); err != nil {
		s.logger.Error().Err(err).Int64("examID", examID).Int("count", len(tickets)).Msg("Failed to replace hall-ticket batch")
		return nil, err
	}
	s.logger.Info().Int64("examID", examID).Int("count", len(tickets)).Msg("Hall tickets generated")
	return tickets, nil
}

// GetTickets lists an exam's credential batch ordered by seat number
func (s *hallTicketServiceImpl) GetTickets(ctx context.Context, actor models.Actor, examID int64) ([]*models.HallTicket, error) {
	if err := s.authz.ValidateStaff(actor); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	return s.ticketRepo.GetByExam(ctx, examID)
}

// GetStudentTicket fetches one student's credential for an exam
func (s *hallTicketServiceImpl) GetStudentTicket(ctx context.Context, actor models.Actor, examID, studentID int64) (*models.HallTicket, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil || exam.InstitutionID != actor.InstitutionID {
		return nil, apperrors.ErrExamNotFound
	}
	ticket, err := s.ticketRepo.GetByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperrors.NewResourceNotFoundError("hall ticket not found")
	}
	return ticket, nil
}

// DownloadTicket increments the download counter and returns the ticket
func (s *hallTicketServiceImpl) DownloadTicket(ctx context.Context, actor models.Actor, ticketID int64) (*models.HallTicket, error) {
	ticket, err := s.ticketRepo.TrackDownload(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperrors.NewResourceNotFoundError("hall ticket not found")
	}
	return ticket, nil
}
