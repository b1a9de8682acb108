package services

// Services defined in this package:
// - AuthService: verifies credentials and issues access tokens
// - ExamService: exam lifecycle, timetable publication and results publication
// - ScheduleService: timetable slot creation with conflict validation
// - MarksService: marks entry, the draft gate and result retrieval
// - RankService: class and overall rank computation at publish time
// - AnalyticsService: statistics snapshots per exam/class/subject scope
// - ReportCardService: persisted per-student report-card assembly
// - HallTicketService: exam-entry credential batches
