package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/mustermeister/internal/models"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percentage int
		width      int
		filled     int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{120, 10, 10},
		{-5, 10, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.percentage, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%d, %d) filled %d, want %d", tt.percentage, tt.width, got, tt.filled)
		}
		if got := lipgloss.Width(bar); got != tt.width {
			t.Errorf("ProgressBar(%d, %d) width %d", tt.percentage, tt.width, got)
		}
	}
	if ProgressBar(50, 0) != "" {
		t.Error("zero width bar not empty")
	}
}

func TestContentWidth(t *testing.T) {
	if got := ContentWidth(120); got != MaxWidth {
		t.Errorf("ContentWidth(120) = %d", got)
	}
	if got := ContentWidth(40); got != 40 {
		t.Errorf("ContentWidth(40) = %d", got)
	}
}

func TestStateLabel(t *testing.T) {
	tests := map[models.ProjectState]string{
		models.ProjectNotStarted: "not started",
		models.ProjectInProgress: "in progress",
		models.ProjectCompleted:  "completed",
	}
	for state, want := range tests {
		if got := StateLabel(state); got != want {
			t.Errorf("StateLabel(%q) = %q, want %q", state, got, want)
		}
	}
}
