package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet maps a semantic name to the glyph shown for it.
type IconSet map[string]string

func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the palette shared by the progress screens and result table.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Borders defines reusable border styles.
type Borders struct {
	Panel lipgloss.Border
	Table lipgloss.Border
}

// Spacing captures commonly used spacing values.
type Spacing struct {
	PanelPadding   int
	StatusHPadding int
	CellHPadding   int
}

// Status is the outcome class of a refined video, used to pick badge colors.
type Status int

const (
	StatusRefined Status = iota
	StatusSkipped
	StatusFailed
)

// Theme centralizes palette, border, spacing and icon configuration.
type Theme struct {
	colors   Colors
	borders  Borders
	spacing  Spacing
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithColors overrides the base color palette.
func WithColors(colors Colors) Option {
	return func(t *Theme) {
		t.colors = colors
	}
}

// WithSpacing overrides the default spacing values.
func WithSpacing(spacing Spacing) Option {
	return func(t *Theme) {
		t.spacing = spacing
	}
}

// WithBorders overrides the border configuration.
func WithBorders(borders Borders) Option {
	return func(t *Theme) {
		t.borders = borders
	}
}

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	defaults := []Option{
		WithColors(Colors{
			Primary:    lipgloss.Color("#2f4f7a"),
			Secondary:  lipgloss.Color("#4a6fa5"),
			Accent:     lipgloss.Color("#7fb3e0"),
			Background: lipgloss.Color("#f8f8f8"),
			Muted:      lipgloss.Color("#9ba8c0"),
			Success:    lipgloss.Color("#5dc796"),
			Warning:    lipgloss.Color("#e0b34a"),
			Error:      lipgloss.Color("#f04c56"),
		}),
		WithBorders(Borders{Panel: lipgloss.RoundedBorder(), Table: lipgloss.NormalBorder()}),
		WithSpacing(Spacing{PanelPadding: 1, StatusHPadding: 1, CellHPadding: 1}),
		WithIconSet(defaultIconSet()),
	}

	t := Theme{fallback: asciiIcons.clone()}
	for _, opt := range append(defaults, opts...) {
		opt(&t)
	}
	if t.icons == nil {
		t.icons = defaultIconSet()
	}
	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

func (t Theme) Colors() Colors   { return t.colors }
func (t Theme) Borders() Borders { return t.borders }
func (t Theme) Spacing() Spacing { return t.spacing }

// Icon returns a themed icon, falling back to ASCII, or "" when unknown.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// IconSet returns a copy of the themed icon map.
func (t Theme) IconSet() IconSet {
	return t.icons.clone()
}

// HeaderStyle is used for screen titles.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Align(lipgloss.Center)
}

// StatusBarStyle is used for the footer line.
func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.colors.Secondary).
		Foreground(t.colors.Background).
		Padding(0, t.spacing.StatusHPadding)
}

// PanelStyle is the bordered container around statistics.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.borders.Panel).
		BorderForeground(t.colors.Accent).
		Padding(t.spacing.PanelPadding)
}

// TableHeaderStyle styles the header row of the results table.
func (t Theme) TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.colors.Primary).
		Padding(0, t.spacing.CellHPadding)
}

// TableCellStyle styles a results row according to its outcome.
func (t Theme) TableCellStyle(status Status) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, t.spacing.CellHPadding)
	switch status {
	case StatusFailed:
		return base.Foreground(t.colors.Error)
	case StatusSkipped:
		return base.Foreground(t.colors.Muted)
	default:
		return base
	}
}

// BadgeStyle returns a filled label style for an outcome.
func (t Theme) BadgeStyle(status Status) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(t.colors.Background)
	switch status {
	case StatusFailed:
		return base.Background(t.colors.Error)
	case StatusSkipped:
		return base.Background(t.colors.Warning)
	default:
		return base.Background(t.colors.Success)
	}
}

// ProgressGradient returns the gradient colors for progress bars.
func (t Theme) ProgressGradient() []string {
	return []string{string(t.colors.Primary), string(t.colors.Accent)}
}

func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects SSH sessions and Windows consoles, where emoji
// widths are unreliable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"episode": "📺",
	"movie":   "🎬",
	"folder":  "📁",
	"refined": "✅",
	"skipped": "➖",
	"error":   "❌",
	"stats":   "📊",
	"worker":  "🧠",
	"scene":   "🏷️",
}

var asciiIcons = IconSet{
	"episode": "[E]",
	"movie":   "[M]",
	"folder":  "[D]",
	"refined": "[+]",
	"skipped": "[=]",
	"error":   "[!]",
	"stats":   "[*]",
	"worker":  "[W]",
	"scene":   "[#]",
}
