// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette. Every command prints through the styles below so build, validate
// and config output look alike.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED") // headings
	ColorMuted     = lipgloss.Color("#6B7280") // labels, rule tags
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6") // paths, commands, field paths
	ColorVerbose   = lipgloss.Color("#9CA3AF") // digests, compiler output
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(ColorHighlight)
	VerboseStyle  = lipgloss.NewStyle().Foreground(ColorVerbose)

	// Violation lines: "✗ [rule] field.path: message".
	fieldStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)
	validatorTagStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	digestStyle = VerboseStyle
)

const (
	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "!"
)
