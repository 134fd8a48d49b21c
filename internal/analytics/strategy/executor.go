package strategy

import (
	"context"

	"tcg-pricewatch/internal/entity"
)

// Per-item statuses reported in job outputs.
const (
	FAILED  = "FAILED"
	SUCCESS = "SUCCESS"
	SKIPPED = "SKIPPED"
)

// Tier 4 cards are tracked for price history only; trend and suggestion
// runs stop at tier 3.
const maxAnalysisTier = 3

// JobExecutionStrategy defines the interface for different job execution strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *entity.Job) (string, error)
	GetType() entity.JobType
}
