package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

type errMsg struct{ err error }

// errorText turns a service error into a one-line message for the status
// line
func errorText(err error) string {
	var (
		verr    *models.ValidationError
		failure *services.Failure
	)
	switch {
	case errors.As(err, &verr):
		return strings.Join(verr.Messages(), ", ")
	case errors.As(err, &failure):
		return strings.Join(failure.Reasons, "; ")
	case errors.Is(err, services.ErrUnresolvedComments):
		return "Resolve or close the open comments before deleting this task"
	case errors.Is(err, services.ErrNotFound):
		return "Not found"
	}
	return err.Error()
}

func clamp(val, minVal, maxVal int) int {
	return min(max(val, minVal), maxVal)
}

// popup renders a bordered box of lines in the middle of the screen
func popup(s *styles.Styles, width, height int, title string, lines ...string) string {
	body := append([]string{s.Title.Render(title), ""}, lines...)
	body = append(body, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, body...)),
	)
	return styles.CenterView(centered, width, height)
}

func confirmDialog(s *styles.Styles, width, height int, title, detail string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}
