package service

import (
	"testing"

	"tcg-pricewatch/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}
