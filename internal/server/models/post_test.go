package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 5 * time.Second, "5s ago"},
		{"minutes", 3 * time.Minute, "3m ago"},
		{"hours", 2 * time.Hour, "2h ago"},
		{"days", 48 * time.Hour, "2d ago"},
		{"weeks", 14 * 24 * time.Hour, "2w ago"},
		{"months", 60 * 24 * time.Hour, "2mo ago"},
		{"years", 2 * 365 * 24 * time.Hour, "2yr ago"},
		{"future clamps to zero", -time.Minute, "0s ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(now.Add(-tt.ago), now))
		})
	}
}
