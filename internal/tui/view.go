package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styleLogo.Render("Prompt Architect"))
	b.WriteString("\n")
	b.WriteString(styleSubtitle.Render("Turn a rough idea into a structured JSON specification."))
	b.WriteString("\n")

	b.WriteString(styleLabel.Render("Project name / context"))
	b.WriteString("\n")
	b.WriteString(a.boxFor(fieldContext).Render(a.context.View()))
	b.WriteString("\n")

	b.WriteString(styleLabel.Render("Idea"))
	b.WriteString("\n")
	b.WriteString(a.boxFor(fieldIdea).Render(a.idea.View()))
	b.WriteString("\n")

	b.WriteString(a.renderAction())
	b.WriteString("\n")

	if a.state.Error != "" {
		b.WriteString(styleError.Width(a.contentWidth()).Render(a.state.Error))
		b.WriteString("\n")
	}

	if a.state.Result != "" {
		b.WriteString(a.renderResult())
		b.WriteString("\n")
	}

	b.WriteString(styleStatusBar.Render(a.help.View(keys)))
	return b.String()
}

func (a *App) boxFor(f field) lipgloss.Style {
	if a.focus == f {
		return styleBoxFocused
	}
	return styleBox
}

func (a *App) renderAction() string {
	if a.state.Loading {
		return styleButtonDisabled.Render(a.spinner.View() + " Architecting...")
	}
	if !a.state.CanSubmit() {
		return styleButtonDisabled.Render("Enhance Prompt (ctrl+s)")
	}
	return styleButton.Render("Enhance Prompt (ctrl+s)")
}

func (a *App) renderResult() string {
	label := a.state.CopyButtonLabel()
	if a.state.Copied {
		label = styleCopied.Render(label)
	} else {
		label = styleSubtitle.Render(label + " (ctrl+y)")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styleLabel.UnsetMarginTop().Render("Specification"),
		"  ",
		label,
	)
	return styleResult.Width(a.contentWidth()).Render(header + "\n" + a.result.View())
}

func (a *App) contentWidth() int {
	return max(a.width-2, minInputWidth)
}
