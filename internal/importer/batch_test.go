package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlipski/salesledger/internal/importer"
)

func TestBatchStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from importer.BatchStatus
		to   importer.BatchStatus
		want bool
	}{
		{importer.BatchPending, importer.BatchProcessing, true},
		{importer.BatchPending, importer.BatchCompleted, true},
		{importer.BatchPending, importer.BatchFailed, true},
		{importer.BatchProcessing, importer.BatchCompleted, true},
		{importer.BatchProcessing, importer.BatchFailed, true},

		// No backwards or out-of-terminal transitions.
		{importer.BatchProcessing, importer.BatchPending, false},
		{importer.BatchCompleted, importer.BatchProcessing, false},
		{importer.BatchCompleted, importer.BatchFailed, false},
		{importer.BatchFailed, importer.BatchCompleted, false},
		{importer.BatchFailed, importer.BatchPending, false},
		{importer.BatchPending, importer.BatchPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
