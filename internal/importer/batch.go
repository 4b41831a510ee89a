package importer

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the lifecycle state of an import batch. Transitions only
// move forward: pending -> processing -> completed or failed.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// CanTransition reports whether moving from s to next is a forward
// transition. Terminal states allow no further movement.
func (s BatchStatus) CanTransition(next BatchStatus) bool {
	switch s {
	case BatchPending:
		return next == BatchProcessing || next == BatchCompleted || next == BatchFailed
	case BatchProcessing:
		return next == BatchCompleted || next == BatchFailed
	default:
		return false
	}
}

// Batch is the audit record of one import call. It is written by the
// coordinator for observability and never read back into business logic.
type Batch struct {
	ID            uuid.UUID
	Filename      string
	Status        BatchStatus
	TotalRows     int
	ProcessedRows int
	ErrorRows     int
	ErrorDetail   string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// BatchUpdate carries the fields of a status update. Nil counters are
// left untouched.
type BatchUpdate struct {
	Status        BatchStatus
	TotalRows     *int
	ProcessedRows *int
	ErrorRows     *int
	ErrorDetail   *string
}
