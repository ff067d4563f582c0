// Package render turns tracker results into terminal text. It is the only
// place that maps error kinds to user-facing messages.
package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tracky/internal/modules/tracker/domain"
	trackerdto "tracky/internal/modules/tracker/dto"
	apperrors "tracky/internal/platform/errors"
	"tracky/internal/ui/theme"
)

const (
	clockLayout = "15:04"
	stampLayout = "2006-01-02 15:04"
)

type Renderer struct {
	color bool
	loc   *time.Location
}

// New returns a renderer printing times in loc. With color off every style
// is skipped, which keeps the output stable for pipes and tests.
func New(color bool, loc *time.Location) Renderer {
	if loc == nil {
		loc = time.Local
	}
	return Renderer{color: color, loc: loc}
}

func (r Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color || s == "" {
		return s
	}
	return style.Render(s)
}

func (r Renderer) Created(out trackerdto.CreateOutput) string {
	msg := "Created new tracker " + r.paint(theme.Title, out.Title)
	if out.Selected {
		msg += r.paint(theme.Muted, " (selected)")
	}
	return msg
}

func (r Renderer) Started(out trackerdto.StartOutput) string {
	return fmt.Sprintf("Started tracking %s at %s", r.paint(theme.Title, out.Title), out.StartedAt.In(r.loc).Format(clockLayout))
}

func (r Renderer) Stopped(out trackerdto.StopOutput) string {
	return fmt.Sprintf("Stopped %s: %s (%s)",
		r.paint(theme.Title, out.Title),
		out.Notes,
		r.paint(theme.Hot, domain.FormatDuration(out.Duration)),
	)
}

func (r Renderer) Switched(out trackerdto.TitleOutput) string {
	return "Switched to " + r.paint(theme.Title, out.Title)
}

func (r Renderer) Deleted(out trackerdto.TitleOutput) string {
	return "Deleted tracker " + r.paint(theme.Title, out.Title)
}

func (r Renderer) Current(out trackerdto.TitleOutput) string {
	return "Current tracker: " + r.paint(theme.Title, out.Title)
}

// Status renders the title, running state and recent logs. Open logs show
// their live duration, closed ones their clock span.
func (r Renderer) Status(out trackerdto.StatusOutput) string {
	var sb strings.Builder
	state := r.paint(theme.Muted, "idle")
	if out.Running {
		state = r.paint(theme.Running, "running")
	}
	sb.WriteString(r.paint(theme.Title, out.Title) + " [" + state + "]\n")
	if len(out.Recent) == 0 {
		sb.WriteString(r.paint(theme.Muted, "  no logs yet") + "\n")
		return sb.String()
	}
	for _, l := range out.Recent {
		var line string
		if l.Open {
			line = r.paint(theme.Hot, domain.FormatDuration(l.Duration))
		} else {
			line = l.StartedAt.In(r.loc).Format(clockLayout) + " -> " + l.EndedAt.In(r.loc).Format(clockLayout)
		}
		sb.WriteString("  " + line + withNotes(l.Notes) + "\n")
	}
	return sb.String()
}

// Logs renders every log as "start -> end", leaving end blank while open.
func (r Renderer) Logs(out trackerdto.LogsOutput) string {
	var sb strings.Builder
	sb.WriteString(r.paint(theme.Title, out.Title) + "\n")
	if len(out.Logs) == 0 {
		sb.WriteString(r.paint(theme.Muted, "  no logs yet") + "\n")
		return sb.String()
	}
	for _, l := range out.Logs {
		end := ""
		if !l.Open {
			end = l.EndedAt.In(r.loc).Format(stampLayout)
		}
		line := l.StartedAt.In(r.loc).Format(stampLayout) + " -> " + end
		sb.WriteString("  " + strings.TrimRight(line+withNotes(l.Notes), " ") + "\n")
	}
	return sb.String()
}

// List marks the current tracker with ">" and renders the empty case as its
// own message.
func (r Renderer) List(out trackerdto.ListOutput) string {
	if out.Empty() {
		return "No trackers exist\n"
	}
	var sb strings.Builder
	for _, t := range out.Trackers {
		marker := " "
		title := t.Title
		if t.Current {
			marker = ">"
			title = r.paint(theme.Title, title)
		}
		line := marker + " " + title
		if t.Running {
			line += " " + r.paint(theme.Running, "*")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// Error maps a failure to its message. Every domain kind has a case.
func (r Renderer) Error(err error) string {
	return r.paint(theme.Failure, Message(err))
}

func Message(err error) string {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		switch domErr.Kind {
		case domain.KindNoneSelected:
			return "No tracker selected"
		case domain.KindDoesNotExist:
			return fmt.Sprintf("%s does not exist", domErr.Title)
		case domain.KindAlreadyExists:
			return fmt.Sprintf("%s already exists", domErr.Title)
		case domain.KindAlreadyRunning:
			return "Tracker is already running"
		case domain.KindIsNotRunning:
			return "Tracker is not running"
		case domain.KindNoLogs:
			return "Tracker has no logs"
		default:
			return domErr.Error()
		}
	}
	switch {
	case errors.Is(err, apperrors.ErrCorruptState):
		return "Saved tracker data is unreadable: " + err.Error()
	default:
		return err.Error()
	}
}

func withNotes(notes string) string {
	if notes == "" {
		return ""
	}
	return "  " + notes
}
