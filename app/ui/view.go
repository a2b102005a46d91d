package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 48

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	dimStyle = lipgloss.NewStyle().Faint(true)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// Card accents rotate by index mod 5. Purely cosmetic.
	accentColors = [5]lipgloss.Color{
		lipgloss.Color("12"), // blue
		lipgloss.Color("10"), // green
		lipgloss.Color("11"), // yellow
		lipgloss.Color("13"), // magenta
		lipgloss.Color("14"), // cyan
	}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cardWidth)

	selectedCardStyle = cardStyle.Border(lipgloss.ThickBorder())
)

// View renders the full board from the current model state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Taskboard"))
	b.WriteString("\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString(dimStyle.Render("Loading tasks..."))
		b.WriteString("\n")
	case stateLoadError:
		b.WriteString(m.renderPlaceholder("Could not load tasks. Press r to retry."))
		b.WriteString("\n")
	case stateLoaded:
		b.WriteString(m.renderTasks())
	}

	b.WriteString("\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n")
	b.WriteString(m.renderNotices())
	b.WriteString(dimStyle.Render("tab: switch focus • enter: done/submit • r: refresh • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderTasks() string {
	if len(m.tasks) == 0 {
		return m.renderPlaceholder("No pending tasks. Add one below.") + "\n"
	}

	var b strings.Builder
	for i, t := range m.tasks {
		style := cardStyle
		if m.focus == focusList && i == m.cursor {
			style = selectedCardStyle
		}
		style = style.BorderForeground(accentColors[i%len(accentColors)])

		control := "[ done ]"
		if m.inflight[t.ID] {
			control = dimStyle.Render("[ ...  ]")
		}

		var card strings.Builder
		card.WriteString(titleStyle.Render(t.Title))
		card.WriteString("\n")
		if t.Description != "" {
			card.WriteString(t.Description)
		}
		card.WriteString("\n")
		card.WriteString(control)

		b.WriteString(style.Render(card.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderPlaceholder(msg string) string {
	return cardStyle.BorderForeground(lipgloss.Color("8")).Render(dimStyle.Render(msg))
}

func (m *Model) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n")
	b.WriteString(renderField("Title", m.titleInput, m.focus == focusTitle))
	b.WriteString("\n")
	b.WriteString(renderField("Description", m.descInput, m.focus == focusDesc))
	b.WriteString("\n")
	return b.String()
}

func renderField(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
		value += "_"
	}
	return marker + label + ": " + value
}

func (m *Model) renderNotices() string {
	if len(m.notices) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range m.notices {
		style := successStyle
		if n.kind == "error" {
			style = errorStyle
		}
		b.WriteString(style.Render("• " + n.message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
