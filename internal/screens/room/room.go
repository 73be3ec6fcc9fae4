// Package room fetches a voice-room join token and shows the connection
// details. The audio connection itself happens in an external client.
package room

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/ykarpov/tolmach/internal/router"
	"github.com/ykarpov/tolmach/internal/screen"
	"github.com/ykarpov/tolmach/internal/session"
	"github.com/ykarpov/tolmach/internal/ui/layout"
	"github.com/ykarpov/tolmach/internal/ui/theme"
)

type tokenMsg struct {
	Token string
	Err   error
}

// TokenSource is the slice of the backend client this screen needs.
type TokenSource interface {
	RoomToken(ctx context.Context, userID int64, username string) (string, error)
}

// RoomScreen displays voice-room join details.
type RoomScreen struct {
	source TokenSource
	user   session.User
	url    string
	token  string
	errMsg string
	loaded bool
}

var _ screen.Screen = (*RoomScreen)(nil)
var _ screen.KeyHintProvider = (*RoomScreen)(nil)

// New creates a RoomScreen for the given user and room URL.
func New(source TokenSource, user session.User, url string) *RoomScreen {
	return &RoomScreen{source: source, user: user, url: url}
}

func (s *RoomScreen) Init() tea.Cmd {
	return func() tea.Msg {
		name := s.user.Username
		if name == "" {
			name = s.user.FirstName
		}
		token, err := s.source.RoomToken(context.Background(), s.user.ID, name)
		return tokenMsg{Token: token, Err: err}
	}
}

func (s *RoomScreen) Title() string {
	return "Voice Room"
}

func (s *RoomScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RoomScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tokenMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.token = msg.Token
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *RoomScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Requesting a room token...")
	}
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString("  " + theme.Title.Render("Voice practice room") + "\n\n")
	b.WriteString("  " + theme.Body.Render("Server: ") + theme.Hint.Render(s.url) + "\n")
	b.WriteString("  " + theme.Body.Render("Token:") + "\n")
	b.WriteString("  " + theme.Hint.Render(wrap(s.token, width-4)) + "\n\n")
	b.WriteString("  " + theme.Subtitle.Render("Paste both into your LiveKit-compatible client to join."))
	return b.String()
}

// wrap hard-wraps a token string for display.
func wrap(text string, width int) string {
	if width < 16 {
		width = 16
	}
	var b strings.Builder
	for len(text) > width {
		b.WriteString(text[:width])
		b.WriteString("\n  ")
		text = text[width:]
	}
	b.WriteString(text)
	return b.String()
}
