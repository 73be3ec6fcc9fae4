// Package history shows past grading rounds fetched from the backend.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/router"
	"github.com/ykarpov/tolmach/internal/screen"
	"github.com/ykarpov/tolmach/internal/ui/layout"
	"github.com/ykarpov/tolmach/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Items []api.HistoryItem
	Err   error
}

// Feed is the slice of the backend client this screen needs.
type Feed interface {
	History(ctx context.Context, initData string, limit int) ([]api.HistoryItem, error)
}

// HistoryScreen displays recent grading rounds.
type HistoryScreen struct {
	feed     Feed
	initData string
	items    []api.HistoryItem
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(feed Feed, initData string) *HistoryScreen {
	return &HistoryScreen{
		feed:     feed,
		initData: initData,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		items, err := s.feed.History(context.Background(), s.initData, historyLimit)
		return historyLoadedMsg{Items: items, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.items) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No submissions yet. Translate something!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, item := range s.items {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s#%d  %s", prefix, item.ID, firstLine(item.OriginalText, width-16))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString("  " + style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := lipgloss.NewStyle().Foreground(theme.TextDim)
			b.WriteString("      " + detail.Render("original:    "+oneLine(item.OriginalText)) + "\n")
			b.WriteString("      " + detail.Render("translation: "+oneLine(item.UserTranslation)) + "\n")
			if item.Result != "" {
				b.WriteString("      " + lipgloss.NewStyle().Foreground(theme.Secondary).
					Render("result: "+oneLine(item.Result)) + "\n")
			}
		}
	}

	return b.String()
}

// firstLine truncates text to its first line, capped at maxLen runes.
func firstLine(text string, maxLen int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	r := []rune(text)
	if maxLen > 3 && len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return text
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " ⏎ ")
}
