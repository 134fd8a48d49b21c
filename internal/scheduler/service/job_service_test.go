package service

import (
	"encoding/json"
	"testing"

	"tcg-pricewatch/internal/entity"
	"tcg-pricewatch/internal/scheduler/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFromRequest(t *testing.T) {
	payload := json.RawMessage(`{"window_days":14}`)
	retry := dto.RetryPolicyDTO{MaxRetries: 2, BackoffStrategy: "fixed", InitialInterval: "5s"}

	job, err := jobFromRequest("daily aggregation", "nightly price rebuild", "price_aggregation", payload, retry, 120)
	require.NoError(t, err)

	assert.Equal(t, entity.JobTypePriceAggregation, job.Type)
	assert.Equal(t, 120, job.Timeout)
	assert.JSONEq(t, string(payload), string(job.Payload))

	var gotRetry dto.RetryPolicyDTO
	require.NoError(t, json.Unmarshal(job.RetryPolicy, &gotRetry))
	assert.Equal(t, retry, gotRetry)
}

func TestJobFromRequestUnknownType(t *testing.T) {
	_, err := jobFromRequest("bad", "", "stock_split", nil, dto.RetryPolicyDTO{}, 60)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestJobTypeValid(t *testing.T) {
	for _, jt := range []entity.JobType{
		entity.JobTypeHTTP,
		entity.JobTypePriceAggregation,
		entity.JobTypeTrendTracker,
		entity.JobTypeSmartSuggestion,
		entity.JobTypeBuyWindowAlert,
	} {
		assert.True(t, jt.Valid(), string(jt))
	}
	assert.False(t, entity.JobType("").Valid())
	assert.False(t, entity.JobType("PRICE_AGGREGATION").Valid())
}
