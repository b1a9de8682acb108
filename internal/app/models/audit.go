package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the marks entry journal
const (
	AuditActionMarksEntered   = "MARKS_ENTERED"
	AuditActionMarksUpdated   = "MARKS_UPDATED"
	AuditActionMarksFinalized = "MARKS_FINALIZED"
)

// AuditEntry is one row of the append-only entry log based on the
// 'audit_log' table. Entries are never mutated or deleted.
type AuditEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	Action        string    `json:"action" db:"action"`
	EntityType    string    `json:"entityType" db:"entity_type"`
	EntityID      int64     `json:"entityId" db:"entity_id"`
	ActorID       int64     `json:"actorId" db:"actor_id"`
	Details       *string   `json:"details,omitempty" db:"details"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// NewAuditEntry builds a journal row for one write
func NewAuditEntry(institutionID int64, action, entityType string, entityID, actorID int64) *AuditEntry {
	return &AuditEntry{
		ID:            uuid.New(),
		InstitutionID: institutionID,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		ActorID:       actorID,
		CreatedAt:     time.Now(),
	}
}
