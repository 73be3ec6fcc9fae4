// Package dictionary is the word-lookup screen: type a Russian word, get a
// structured entry, optionally save it to the personal vocabulary.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/ykarpov/tolmach/internal/dict"
	"github.com/ykarpov/tolmach/internal/router"
	"github.com/ykarpov/tolmach/internal/screen"
	"github.com/ykarpov/tolmach/internal/ui/components"
	"github.com/ykarpov/tolmach/internal/ui/layout"
	"github.com/ykarpov/tolmach/internal/ui/theme"
)

type lookupDoneMsg struct {
	Entry dict.Entry
	Err   error
}

type saveDoneMsg struct {
	Word string
	Err  error
}

// DictionaryScreen implements screen.Screen for word lookups.
type DictionaryScreen struct {
	svc     *dict.Service
	input   components.TextInput
	entry   *dict.Entry
	busy    bool
	errMsg  string
	notice  string
}

var _ screen.Screen = (*DictionaryScreen)(nil)
var _ screen.KeyHintProvider = (*DictionaryScreen)(nil)

// New creates a new DictionaryScreen.
func New(svc *dict.Service) *DictionaryScreen {
	return &DictionaryScreen{
		svc:   svc,
		input: components.NewTextInput("Russian word...", 64),
	}
}

func (s *DictionaryScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *DictionaryScreen) Title() string {
	return "Dictionary"
}

func (s *DictionaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Look up"},
	}
	if s.entry != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Save word"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DictionaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = lookupMessage(msg.Err)
			return s, nil
		}
		s.entry = &msg.Entry
		s.errMsg = ""
		s.notice = ""
		return s, nil

	case saveDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.notice = fmt.Sprintf("Saved %q to your vocabulary", msg.Word)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return s.lookup()
		case "ctrl+s":
			return s.save()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *DictionaryScreen) lookup() (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	word := strings.TrimSpace(s.input.Value())
	if word == "" {
		s.errMsg = "type a word first"
		return s, nil
	}
	s.busy = true
	s.notice = ""
	return s, func() tea.Msg {
		entry, err := s.svc.Lookup(context.Background(), word)
		return lookupDoneMsg{Entry: entry, Err: err}
	}
}

func (s *DictionaryScreen) save() (screen.Screen, tea.Cmd) {
	if s.busy || s.entry == nil {
		return s, nil
	}
	s.busy = true
	word := s.svc.Pending()
	return s, func() tea.Msg {
		err := s.svc.Save(context.Background())
		return saveDoneMsg{Word: word, Err: err}
	}
}

func (s *DictionaryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Body.Render("Word: ") + s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString("  " + theme.Hint.Render("Looking up..."))
	case s.errMsg != "":
		b.WriteString("  " + theme.Incorrect.Render(s.errMsg))
	case s.notice != "":
		b.WriteString("  " + theme.Correct.Render(s.notice))
	}
	b.WriteString("\n")

	if s.entry != nil {
		b.WriteString(renderEntry(*s.entry, width))
	}

	return b.String()
}

func renderEntry(e dict.Entry, width int) string {
	var b strings.Builder

	headline := e.TranslationDE
	if e.Article != "" {
		headline = e.Article + " " + headline
	}

	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render(e.WordRU) + "\n")
	b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(headline))
	b.WriteString("  " + theme.Hint.Render("("+e.PartOfSpeech+")") + "\n")

	if e.Forms != "" {
		b.WriteString("  " + theme.Body.Render("Forms: "+e.Forms) + "\n")
	}
	if len(e.Prefixes) > 0 {
		b.WriteString("  " + theme.Body.Render("Prefixes: "+strings.Join(e.Prefixes, ", ")) + "\n")
	}
	if len(e.UsageExamples) > 0 {
		b.WriteString("\n")
		for _, ex := range e.UsageExamples {
			b.WriteString("  " + theme.Hint.Render("• "+ex) + "\n")
		}
	}

	return b.String()
}

func lookupMessage(err error) string {
	if errors.Is(err, dict.ErrBlankWord) {
		return "type a word first"
	}
	return err.Error()
}
