// Package home is the entry screen: a menu into practice, dictionary,
// history and the voice room.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/ykarpov/tolmach/internal/dict"
	"github.com/ykarpov/tolmach/internal/router"
	"github.com/ykarpov/tolmach/internal/screen"
	"github.com/ykarpov/tolmach/internal/screens/dictionary"
	"github.com/ykarpov/tolmach/internal/screens/history"
	"github.com/ykarpov/tolmach/internal/screens/placeholder"
	"github.com/ykarpov/tolmach/internal/screens/practice"
	"github.com/ykarpov/tolmach/internal/screens/room"
	"github.com/ykarpov/tolmach/internal/session"
	"github.com/ykarpov/tolmach/internal/ui/components"
	"github.com/ykarpov/tolmach/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu components.Menu
	ctrl *session.Controller
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctrl *session.Controller, dictSvc *dict.Service, roomURL string) *HomeScreen {
	items := []components.MenuItem{
		{
			Label: "PRACTICE",
			Hint:  "Translate your pending sentences",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(ctrl)}
				}
			},
		},
		{
			Label: "DICTIONARY",
			Hint:  "Look up and save words",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: dictionary.New(dictSvc)}
				}
			},
		},
		{
			Label: "HISTORY",
			Hint:  "Review past submissions",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					if feed, ok := ctrl.API().(history.Feed); ok {
						return router.PushScreenMsg{
							Screen: history.New(feed, ctrl.InitData()),
						}
					}
					return router.PushScreenMsg{
						Screen: placeholder.New("History", "History is not available."),
					}
				}
			},
		},
		{
			Label: "VOICE ROOM",
			Hint:  "Join the spoken practice room",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					sess := ctrl.Session()
					if sess == nil {
						return router.PushScreenMsg{
							Screen: placeholder.New("Voice Room",
								"Open Practice first so the app can sign you in."),
						}
					}
					if rt, ok := ctrl.API().(room.TokenSource); ok {
						return router.PushScreenMsg{
							Screen: room.New(rt, sess.User, roomURL),
						}
					}
					return router.PushScreenMsg{
						Screen: placeholder.New("Voice Room", "Voice room is not available."),
					}
				}
			},
		},
		{
			Label: "EXIT",
			Action: func() tea.Cmd {
				return tea.Quit
			},
		},
	}

	return &HomeScreen{
		menu: components.NewMenu(items),
		ctrl: ctrl,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("Т О Л М А Ч"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Russian → German translation practice"))
	b.WriteString("\n\n")

	if sess := h.ctrl.Session(); sess != nil {
		who := sess.User.FirstName
		if who == "" {
			who = sess.User.Username
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render("Signed in as " + who))
		b.WriteString("\n\n")
	}

	menu := h.menu.View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
