package observability_test

import (
	"testing"

	"github.com/rs/zerolog"

	"searchhotel/internal/adapters/observability"
)

func TestNewLogger_LevelsByEnvironment(t *testing.T) {
	if got := observability.NewLogger("dev").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("dev level: %v", got)
	}
	if got := observability.NewLogger("production").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("production level: %v", got)
	}
}
