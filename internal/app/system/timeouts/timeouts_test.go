package timeouts_test

import (
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
)

func TestDefaults(t *testing.T) {
	timeouts.Reset()

	if got := timeouts.Ping(); got != timeouts.DefaultPing {
		t.Errorf("Ping: got %v, want %v", got, timeouts.DefaultPing)
	}
	if got := timeouts.Short(); got != timeouts.DefaultShort {
		t.Errorf("Short: got %v, want %v", got, timeouts.DefaultShort)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium: got %v, want %v", got, timeouts.DefaultMedium)
	}
	if got := timeouts.Long(); got != timeouts.DefaultLong {
		t.Errorf("Long: got %v, want %v", got, timeouts.DefaultLong)
	}
}

func TestConfigure_OverridesNonZero(t *testing.T) {
	timeouts.Reset()
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 9 * time.Second})

	if got := timeouts.Short(); got != 9*time.Second {
		t.Errorf("Short: got %v, want %v", got, 9*time.Second)
	}
	// Zero values keep defaults
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium: got %v, want %v", got, timeouts.DefaultMedium)
	}
}
