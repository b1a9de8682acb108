package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/apperrors"
	"github.com/sapatil2212/edutechunite-sub005/internal/pkg/notifier"
)

// mockAuthz grants or denies staff and admin checks
type mockAuthz struct {
	denyStaff bool
	denyAdmin bool
}

func (m *mockAuthz) ValidateStaff(actor models.Actor) error {
	if m.denyStaff || !actor.Role.IsStaff() {
		return apperrors.NewForbiddenError("this operation requires a staff role")
	}
	return nil
}

func (m *mockAuthz) ValidateAdmin(actor models.Actor) error {
	if m.denyAdmin || actor.Role != models.RoleAdmin {
		return apperrors.NewForbiddenError("this operation requires the administrator role")
	}
	return nil
}

// mockExamRepo is an in-memory examStore
type mockExamRepo struct {
	exams          map[int64]*models.Exam
	statusChanges  []models.ExamStatus
	publishCalls   int
	publishFlipped bool
	deleted        []int64
}

func newMockExamRepo(exams ...*models.Exam) *mockExamRepo {
	m := &mockExamRepo{exams: make(map[int64]*models.Exam), publishFlipped: true}
	for _, e := range exams {
		m.exams[e.ID] = e
	}
	return m
}

func (m *mockExamRepo) Create(_ context.Context, exam *models.Exam) error {
	exam.ID = int64(len(m.exams)) + 100
	m.exams[exam.ID] = exam
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id int64) (*models.Exam, error) {
	return m.exams[id], nil
}

func (m *mockExamRepo) GetAll(_ context.Context, institutionID int64, _, _ string, _, _ *int64) ([]*models.Exam, error) {
	var out []*models.Exam
	for _, e := range m.exams {
		if e.InstitutionID == institutionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExamRepo) Update(_ context.Context, exam *models.Exam) error {
	m.exams[exam.ID] = exam
	return nil
}

func (m *mockExamRepo) UpdateStatus(_ context.Context, id int64, status models.ExamStatus) error {
	m.statusChanges = append(m.statusChanges, status)
	if e, ok := m.exams[id]; ok {
		e.Status = status
	}
	return nil
}

func (m *mockExamRepo) MarkPublished(_ context.Context, id, actorID int64) (bool, error) {
	m.publishCalls++
	if !m.publishFlipped {
		return false, nil
	}
	if e, ok := m.exams[id]; ok {
		now := time.Now()
		e.Status = models.ExamStatusResultsPublished
		e.PublishedAt = &now
		e.PublishedBy = &actorID
	}
	return true, nil
}

func (m *mockExamRepo) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.exams, id)
	return nil
}

// mockScheduleRepo is an in-memory scheduleStore
type mockScheduleRepo struct {
	schedules []*models.ExamSchedule
	batches   int
}

func (m *mockScheduleRepo) add(s *models.ExamSchedule) {
	s.ID = int64(len(m.schedules)) + 1
	m.schedules = append(m.schedules, s)
}

func (m *mockScheduleRepo) Create(_ context.Context, s *models.ExamSchedule) error {
	m.add(s)
	return nil
}

func (m *mockScheduleRepo) CreateBatch(_ context.Context, schedules []*models.ExamSchedule) error {
	m.batches++
	for _, s := range schedules {
		m.add(s)
	}
	return nil
}

func (m *mockScheduleRepo) GetByExam(_ context.Context, examID int64) ([]*models.ExamSchedule, error) {
	var out []*models.ExamSchedule
	for _, s := range m.schedules {
		if s.ExamID == examID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) GetByExamAndSubject(_ context.Context, examID, subjectID int64) ([]*models.ExamSchedule, error) {
	var out []*models.ExamSchedule
	for _, s := range m.schedules {
		if s.ExamID == examID && s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) GetByClassAndDate(_ context.Context, classID int64, date time.Time) ([]*models.ExamSchedule, error) {
	var out []*models.ExamSchedule
	for _, s := range m.schedules {
		if s.ClassID == classID && s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ExistsByExamSubjectClass(_ context.Context, examID, subjectID, classID int64) (bool, error) {
	for _, s := range m.schedules {
		if s.ExamID == examID && s.SubjectID == subjectID && s.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleRepo) CountByExam(_ context.Context, examID int64) (int, error) {
	count := 0
	for _, s := range m.schedules {
		if s.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (m *mockScheduleRepo) ClassSubjectPairs(_ context.Context, examID int64) ([]models.ClassSubject, error) {
	seen := make(map[models.ClassSubject]bool)
	var out []models.ClassSubject
	for _, s := range m.schedules {
		if s.ExamID != examID {
			continue
		}
		pair := models.ClassSubject{ClassID: s.ClassID, SubjectID: s.SubjectID}
		if !seen[pair] {
			seen[pair] = true
			out = append(out, pair)
		}
	}
	return out, nil
}

// mockResultRepo is an in-memory result store covering marks entry, the
// draft gate, rank totals and filtered reads
type mockResultRepo struct {
	results       []*models.ExamResult
	upserts       int
	classTotals   map[int64][]models.StudentTotal
	overallTotals []models.StudentTotal
	classRanks    map[int64]int
	overallRanks  map[int64]int
	rankWrites    int
}

func (m *mockResultRepo) UpsertBatch(_ context.Context, results []*models.ExamResult, _ []*models.AuditEntry) error {
	m.upserts++
	for _, r := range results {
		replaced := false
		for i, existing := range m.results {
			if existing.ExamID == r.ExamID && existing.StudentID == r.StudentID && existing.SubjectID == r.SubjectID {
				m.results[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			m.results = append(m.results, r)
		}
	}
	return nil
}

func (m *mockResultRepo) FinalizeBySubject(_ context.Context, examID, subjectID int64, _ []*models.AuditEntry) (int64, error) {
	var n int64
	for _, r := range m.results {
		if r.ExamID == examID && r.SubjectID == subjectID && r.IsDraft {
			r.IsDraft = false
			n++
		}
	}
	return n, nil
}

func (m *mockResultRepo) CountDrafts(_ context.Context, examID int64) (int, error) {
	count := 0
	for _, r := range m.results {
		if r.ExamID == examID && r.IsDraft {
			count++
		}
	}
	return count, nil
}

func (m *mockResultRepo) ExistsByExam(_ context.Context, examID int64) (bool, error) {
	for _, r := range m.results {
		if r.ExamID == examID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockResultRepo) GetFiltered(_ context.Context, examID int64, classID, studentID, subjectID *int64) ([]*models.ExamResult, error) {
	var out []*models.ExamResult
	for _, r := range m.results {
		if r.ExamID != examID {
			continue
		}
		if classID != nil && r.ClassID != *classID {
			continue
		}
		if studentID != nil && r.StudentID != *studentID {
			continue
		}
		if subjectID != nil && r.SubjectID != *subjectID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockResultRepo) GetByExamAndStudent(ctx context.Context, examID, studentID int64) ([]*models.ExamResult, error) {
	return m.GetFiltered(ctx, examID, nil, &studentID, nil)
}

func (m *mockResultRepo) ClassTotals(_ context.Context, _ int64, classID int64) ([]models.StudentTotal, error) {
	return m.classTotals[classID], nil
}

func (m *mockResultRepo) OverallTotals(_ context.Context, _ int64) ([]models.StudentTotal, error) {
	return m.overallTotals, nil
}

func (m *mockResultRepo) AssignRanks(_ context.Context, _ int64, classRanks, overallRanks map[int64]int) error {
	m.rankWrites++
	m.classRanks = classRanks
	m.overallRanks = overallRanks
	return nil
}

// mockStudentRepo is an in-memory student directory
type mockStudentRepo struct {
	students   map[int64]*models.Student
	attendance map[int64]*models.AttendanceSummary
}

func newMockStudentRepo(students ...*models.Student) *mockStudentRepo {
	m := &mockStudentRepo{students: make(map[int64]*models.Student)}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *mockStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	return m.students[id], nil
}

func (m *mockStudentRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.Student, error) {
	out := make(map[int64]*models.Student)
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *mockStudentRepo) GetActiveByClass(_ context.Context, classID int64) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range m.students {
		if s.ClassID == classID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) AttendanceSummary(_ context.Context, studentID int64, _, _ time.Time) (*models.AttendanceSummary, error) {
	return m.attendance[studentID], nil
}

// mockSubjectRepo resolves subject ids
type mockSubjectRepo struct {
	subjects map[int64]*models.Subject
}

func (m *mockSubjectRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.Subject, error) {
	out := make(map[int64]*models.Subject)
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// mockAnalyticsRepo keys snapshots by scope so upserts overwrite in place
type mockAnalyticsRepo struct {
	snapshots map[string]*models.ExamAnalytics
}

func scopeKey(examID int64, classID, subjectID *int64) string {
	cid, sid := int64(0), int64(0)
	if classID != nil {
		cid = *classID
	}
	if subjectID != nil {
		sid = *subjectID
	}
	return fmt.Sprintf("%d/%d/%d", examID, cid, sid)
}

func (m *mockAnalyticsRepo) Upsert(_ context.Context, a *models.ExamAnalytics) error {
	if m.snapshots == nil {
		m.snapshots = make(map[string]*models.ExamAnalytics)
	}
	m.snapshots[scopeKey(a.ExamID, a.ClassID, a.SubjectID)] = a
	return nil
}

func (m *mockAnalyticsRepo) GetByExam(_ context.Context, examID int64, classID, subjectID *int64) ([]*models.ExamAnalytics, error) {
	var out []*models.ExamAnalytics
	for _, a := range m.snapshots {
		if a.ExamID != examID {
			continue
		}
		if classID != nil && (a.ClassID == nil || *a.ClassID != *classID) {
			continue
		}
		if subjectID != nil && (a.SubjectID == nil || *a.SubjectID != *subjectID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// mockTicketRepo replaces whole batches per exam
type mockTicketRepo struct {
	byExam       map[int64][]*models.HallTicket
	replaceCalls int
}

func (m *mockTicketRepo) ReplaceBatch(_ context.Context, examID int64, tickets []*models.HallTicket) error {
	if m.byExam == nil {
		m.byExam = make(map[int64][]*models.HallTicket)
	}
	m.replaceCalls++
	for i, t := range tickets {
		t.ID = int64(i) + 1
	}
	m.byExam[examID] = tickets
	return nil
}

func (m *mockTicketRepo) GetByExam(_ context.Context, examID int64) ([]*models.HallTicket, error) {
	return m.byExam[examID], nil
}

func (m *mockTicketRepo) GetByExamAndStudent(_ context.Context, examID, studentID int64) (*models.HallTicket, error) {
	for _, t := range m.byExam[examID] {
		if t.StudentID == studentID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTicketRepo) TrackDownload(_ context.Context, id int64) (*models.HallTicket, error) {
	for _, tickets := range m.byExam {
		for _, t := range tickets {
			if t.ID == id {
				t.DownloadCount++
				return t, nil
			}
		}
	}
	return nil, nil
}

// mockCardRepo is an in-memory report-card store
type mockCardRepo struct {
	cards   []*models.ReportCard
	upserts int
}

func (m *mockCardRepo) UpsertBatch(_ context.Context, cards []*models.ReportCard) error {
	m.upserts++
	for _, c := range cards {
		replaced := false
		for i, existing := range m.cards {
			if existing.ExamID == c.ExamID && existing.StudentID == c.StudentID {
				m.cards[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			m.cards = append(m.cards, c)
		}
	}
	return nil
}

func (m *mockCardRepo) GetByExam(_ context.Context, examID int64, classID *int64) ([]*models.ReportCard, error) {
	var out []*models.ReportCard
	for _, c := range m.cards {
		if c.ExamID != examID {
			continue
		}
		if classID != nil && c.ClassID != *classID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCardRepo) GetByExamAndStudent(_ context.Context, examID, studentID int64) (*models.ReportCard, error) {
	for _, c := range m.cards {
		if c.ExamID == examID && c.StudentID == studentID {
			return c, nil
		}
	}
	return nil, nil
}

// mockDispatcher records dispatched notifications
type mockDispatcher struct {
	sent []notifier.Notification
	fail bool
}

func (m *mockDispatcher) Dispatch(_ context.Context, n notifier.Notification) error {
	if m.fail {
		return fmt.Errorf("dispatch unavailable")
	}
	m.sent = append(m.sent, n)
	return nil
}

// stubRankService returns a fixed ranked-student count
type stubRankService struct {
	ranked int
	err    error
	calls  int
}

func (s *stubRankService) ComputeRanks(_ context.Context, _ *models.Exam) (int, error) {
	s.calls++
	return s.ranked, s.err
}

// stubAnalyticsService returns a fixed scope count
type stubAnalyticsService struct {
	scopes int
	err    error
	calls  int
}

func (s *stubAnalyticsService) Recompute(_ context.Context, _ *models.Exam) (int, error) {
	s.calls++
	return s.scopes, s.err
}

func (s *stubAnalyticsService) GetAnalytics(_ context.Context, _ models.Actor, _ int64, _, _ *int64) ([]*models.ExamAnalytics, error) {
	return nil, nil
}

// test fixtures

func staffActor() models.Actor {
	return models.Actor{UserID: 7, InstitutionID: 1, Role: models.RoleTeacher}
}

func adminActor() models.Actor {
	return models.Actor{UserID: 5, InstitutionID: 1, Role: models.RoleAdmin}
}

func studentActor() models.Actor {
	return models.Actor{UserID: 42, InstitutionID: 1, Role: models.RoleStudent}
}

func testExam(id int64, status models.ExamStatus) *models.Exam {
	return &models.Exam{
		ID:                id,
		InstitutionID:     1,
		AcademicYearID:    1,
		Name:              "Half Yearly Examination",
		Code:              "HY-2024",
		ExamType:          models.ExamTypeHalfYearly,
		EvaluationType:    models.EvaluationMarks,
		TargetClassIDs:    []int64{10, 11},
		StartDate:         time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		PassingPercentage: 33,
		ShowRank:          true,
		Status:            status,
	}
}

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }
