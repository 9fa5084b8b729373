package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// HuhTheme adapts t for huh forms.
func HuhTheme(t *Theme) *huh.Theme {
	h := huh.ThemeBase()

	accent := t.SelectedStyle.GetForeground()
	subtle := t.SubtleStyle.GetForeground()

	h.Focused.Base = h.Focused.Base.BorderForeground(accent)
	h.Focused.Card = h.Focused.Base
	h.Focused.Title = h.Focused.Title.Foreground(accent).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(t.SelectedSubtleStyle.GetForeground())
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(t.ErrorTextStyle.GetForeground())
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(t.ErrorTextStyle.GetForeground())
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(accent)
	h.Focused.Option = h.Focused.Option.Foreground(t.GenericTextStyle.GetForeground())
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(accent)
	h.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(subtle).SetString("• ")
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(t.LogoStyle.GetForeground()).
		Background(t.LogoStyle.GetBackground())
	h.Focused.Next = h.Focused.FocusedButton
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(t.LogoStyle.GetForeground()).
		Background(subtle)

	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(accent)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(subtle)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(accent)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base
	h.Blurred.Title = h.Blurred.Title.Foreground(subtle).Bold(false)

	h.Group.Title = h.Focused.Title
	h.Group.Description = h.Focused.Description

	return h
}
