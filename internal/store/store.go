// Package store provides the cycle journal persistence.
package store

import (
	"context"

	"polymarket-agent/internal/models"
)

// Journal records finished cycles for the operator audit trail. Journal
// writes are best-effort: a write failure is logged by the caller and never
// fails the cycle that produced the record.
type Journal interface {
	AppendCycle(ctx context.Context, record *models.CycleRecord) error
	RecentCycles(ctx context.Context, limit int) ([]models.CycleRecord, error)
	Close() error
}
