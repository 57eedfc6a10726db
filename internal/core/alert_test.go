package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAlert(t *testing.T) {
	tests := []struct {
		name      string
		pct       float64
		dismissed WeekKey
		current   WeekKey
		want      AlertState
	}{
		{"below threshold", 99.99, "", "2025-W1", AlertHidden},
		{"below threshold ignores token", 50, "2025-W1", "2025-W1", AlertHidden},
		{"full and never dismissed", 100, "", "2025-W1", AlertShowing},
		{"full and dismissed this week", 100, "2025-W1", "2025-W1", AlertDismissed},
		{"full and dismissed last week", 100, "2025-W1", "2025-W2", AlertShowing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateAlert(tt.pct, tt.dismissed, tt.current))
		})
	}
}

func TestAlertStateString(t *testing.T) {
	assert.Equal(t, "hidden", AlertHidden.String())
	assert.Equal(t, "showing", AlertShowing.String())
	assert.Equal(t, "dismissed", AlertDismissed.String())
}

func TestPreferencesDismissKeepsDisplayFlags(t *testing.T) {
	prefs := Preferences{DarkMode: true, LargeText: true}
	got := prefs.Dismiss("2025-W3")
	assert.Equal(t, Preferences{NeedsAlertDismissed: "2025-W3", DarkMode: true, LargeText: true}, got)
	assert.Empty(t, prefs.NeedsAlertDismissed, "Dismiss returns a copy")
}
