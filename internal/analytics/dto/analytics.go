package dto

// StreamDataPriceAggregation is the per-card task published to the price
// aggregation stream by the fan-out job.
type StreamDataPriceAggregation struct {
	ItemKey string `json:"item_key"`
	RunID   string `json:"run_id"`
}

// PriceAggregationResult reports the outcome of enqueueing one card.
type PriceAggregationResult struct {
	ItemKey string `json:"item_key"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TrendTrackerResult summarizes a trend tracker run.
type TrendTrackerResult struct {
	RunID      string `json:"run_id"`
	CardCount  int    `json:"card_count"`
	Classified int    `json:"classified"`
	Unknown    int    `json:"unknown"`
}

// SmartSuggestionResult summarizes a smart suggestion run.
type SmartSuggestionResult struct {
	RunID           string `json:"run_id"`
	CardCount       int    `json:"card_count"`
	Recommendations int    `json:"recommendations"`
	Notified        bool   `json:"notified"`
}

// BuyWindowAlertResult reports per-card alert outcomes.
type BuyWindowAlertResult struct {
	ItemKey string `json:"item_key"`
	Status  string `json:"status"`
	Errors  string `json:"errors,omitempty"`
}
