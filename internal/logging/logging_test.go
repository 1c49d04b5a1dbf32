package logging

import (
	"testing"

	"employeeManagement/internal/config"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("New console: %v", err)
	}
	if !l.Core().Enabled(-1) { // debug
		t.Fatalf("debug level should be enabled")
	}

	l, err = New(config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New json: %v", err)
	}
	if l.Core().Enabled(0) { // info
		t.Fatalf("info should be disabled at warn level")
	}

	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
