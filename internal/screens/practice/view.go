package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ykarpov/tolmach/internal/session"
	"github.com/ykarpov/tolmach/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch s.ctrl.Phase() {
	case session.PhaseIdle, session.PhaseBootstrapping:
		return centered(width, theme.Hint, "\n\n  Connecting to the tutor...")
	case session.PhaseLoading:
		return centered(width, theme.Hint, "\n\n  Loading sentences...")
	case session.PhaseError:
		return centered(width, theme.Incorrect,
			fmt.Sprintf("\n\n  %s\n\n  Ctrl+R to retry", s.errMsg))
	}

	batch := s.ctrl.Batch()
	if len(batch) == 0 {
		var b strings.Builder
		b.WriteString(centered(width, theme.Subtitle, "\n\n  Nothing pending — all caught up!"))
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Hint, "Ctrl+R to check again"))
		if s.notice != "" {
			b.WriteString("\n\n")
			b.WriteString(centered(width, theme.Correct, s.notice))
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(s.renderStatusLine(width))
	b.WriteString("\n")

	for i, sent := range batch {
		b.WriteString(s.renderSentence(i, sent, width))
		b.WriteString("\n")
	}

	if results := s.ctrl.Results(); len(results) > 0 {
		b.WriteString(s.renderResults(width))
	}

	return b.String()
}

func (s *PracticeScreen) renderStatusLine(width int) string {
	switch {
	case s.ctrl.Phase() == session.PhaseSubmitting:
		return centered(width, theme.Warning, "  Submitting for grading...")
	case s.ctrl.Phase() == session.PhaseFinishing:
		return centered(width, theme.Warning, "  Finishing session...")
	case s.errMsg != "":
		return centered(width, theme.Incorrect, "  "+s.errMsg)
	case s.notice != "":
		return centered(width, theme.Correct, "  "+s.notice)
	}
	return ""
}

func (s *PracticeScreen) renderSentence(i int, sent session.Sentence, width int) string {
	var b strings.Builder

	numStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	textStyle := theme.Body
	if i == s.focused {
		numStyle = numStyle.Foreground(theme.Primary)
		textStyle = textStyle.Bold(true)
	}

	b.WriteString("  ")
	b.WriteString(numStyle.Render(fmt.Sprintf("%d.", sent.Ordinal)))
	b.WriteString(" ")
	b.WriteString(textStyle.Render(sent.Text))
	b.WriteString("\n")

	if i < len(s.editors) {
		editor := s.editors[i].View()
		b.WriteString(indent(editor, "    "))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *PracticeScreen) renderResults(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render("Results"))
	b.WriteString("\n\n")

	for _, r := range s.ctrl.Results() {
		if r.Failed() {
			b.WriteString("  " + theme.Incorrect.Render(fmt.Sprintf("%d. %s", r.SentenceNumber, r.Error)))
			b.WriteString("\n")
			continue
		}

		scoreStyle := theme.Correct
		if r.Score < 70 {
			scoreStyle = theme.Incorrect
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			scoreStyle.Render(fmt.Sprintf("%d. %d/100", r.SentenceNumber, r.Score)),
			theme.Body.Render(r.OriginalText)))
		b.WriteString("     " + theme.Hint.Render("you:     "+r.UserTranslation) + "\n")
		b.WriteString("     " + theme.Body.Render("correct: "+r.CorrectTranslation) + "\n")
	}

	return b.String()
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
