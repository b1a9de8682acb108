package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sapatil2212/edutechunite-sub005/internal/app/models"
)

func TestSequentialRanks(t *testing.T) {
	// Totals arrive sorted by total descending, student id ascending.
	// Tied students get distinct sequential ranks in that order.
	totals := []models.StudentTotal{
		{StudentID: 1, TotalMarks: 150},
		{StudentID: 2, TotalMarks: 150},
		{StudentID: 3, TotalMarks: 120},
	}

	ranks := sequentialRanks(totals)
	if ranks[1] != 1 || ranks[2] != 2 || ranks[3] != 3 {
		t.Errorf("ranks = %v, want 1:1 2:2 3:3", ranks)
	}
}

func TestSequentialRanksEmpty(t *testing.T) {
	if ranks := sequentialRanks(nil); len(ranks) != 0 {
		t.Errorf("ranks for empty totals = %v, want empty", ranks)
	}
}

func TestComputeRanks(t *testing.T) {
	repo := &mockResultRepo{
		classTotals: map[int64][]models.StudentTotal{
			10: {
				{StudentID: 1, ClassID: 10, TotalMarks: 150},
				{StudentID: 2, ClassID: 10, TotalMarks: 140},
			},
			11: {
				{StudentID: 3, ClassID: 11, TotalMarks: 145},
			},
		},
		overallTotals: []models.StudentTotal{
			{StudentID: 1, ClassID: 10, TotalMarks: 150},
			{StudentID: 3, ClassID: 11, TotalMarks: 145},
			{StudentID: 2, ClassID: 10, TotalMarks: 140},
		},
	}
	svc := NewRankService(repo, zerolog.Nop())

	ranked, err := svc.ComputeRanks(context.Background(), testExam(1, models.ExamStatusMarksEntryCompleted))
	if err != nil {
		t.Fatalf("ComputeRanks returned error: %v", err)
	}
	if ranked != 3 {
		t.Errorf("ranked = %d, want 3", ranked)
	}

	// Class ranks restart per class
	if repo.classRanks[1] != 1 || repo.classRanks[2] != 2 {
		t.Errorf("class 10 ranks = %v", repo.classRanks)
	}
	if repo.classRanks[3] != 1 {
		t.Errorf("class 11 rank for student 3 = %d, want 1", repo.classRanks[3])
	}

	// Overall ranks pool every target class
	if repo.overallRanks[1] != 1 || repo.overallRanks[3] != 2 || repo.overallRanks[2] != 3 {
		t.Errorf("overall ranks = %v", repo.overallRanks)
	}
}

func TestComputeRanksIsDeterministic(t *testing.T) {
	repo := &mockResultRepo{
		classTotals: map[int64][]models.StudentTotal{
			10: {
				{StudentID: 1, ClassID: 10, TotalMarks: 150},
				{StudentID: 2, ClassID: 10, TotalMarks: 150},
			},
		},
		overallTotals: []models.StudentTotal{
			{StudentID: 1, ClassID: 10, TotalMarks: 150},
			{StudentID: 2, ClassID: 10, TotalMarks: 150},
		},
	}
	svc := NewRankService(repo, zerolog.Nop())
	exam := testExam(1, models.ExamStatusMarksEntryCompleted)
	exam.TargetClassIDs = []int64{10}

	if _, err := svc.ComputeRanks(context.Background(), exam); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := repo.overallRanks

	if _, err := svc.ComputeRanks(context.Background(), exam); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for id, rank := range repo.overallRanks {
		if first[id] != rank {
			t.Errorf("rank for student %d changed from %d to %d across runs", id, first[id], rank)
		}
	}
}

func TestComputeRanksSkipsAbsentStudents(t *testing.T) {
	// Absent students never appear in the totals queries, so the maps the
	// engine writes cannot contain them
	repo := &mockResultRepo{
		classTotals: map[int64][]models.StudentTotal{
			10: {{StudentID: 1, ClassID: 10, TotalMarks: 90}},
		},
		overallTotals: []models.StudentTotal{
			{StudentID: 1, ClassID: 10, TotalMarks: 90},
		},
	}
	svc := NewRankService(repo, zerolog.Nop())
	exam := testExam(1, models.ExamStatusMarksEntryCompleted)
	exam.TargetClassIDs = []int64{10}

	ranked, err := svc.ComputeRanks(context.Background(), exam)
	if err != nil {
		t.Fatalf("ComputeRanks returned error: %v", err)
	}
	if ranked != 1 {
		t.Errorf("ranked = %d, want 1", ranked)
	}
	if _, ok := repo.overallRanks[2]; ok {
		t.Error("absent student received a rank")
	}
}
