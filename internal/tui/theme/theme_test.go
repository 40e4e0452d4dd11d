package theme

import (
	"runtime"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

func TestThemeIconSetIsCopied(t *testing.T) {
	icons := IconSet{"movie": "🎬"}
	theme := New(WithIconSet(icons))

	icons["movie"] = "mutated"
	if got, want := theme.Icon("movie"), "🎬"; got != want {
		t.Errorf("Icon(%q) = %q, want %q", "movie", got, want)
	}

	exposed := theme.IconSet()
	exposed["movie"] = "changed"
	if got, want := theme.Icon("movie"), "🎬"; got != want {
		t.Errorf("IconSet() mutation leaked: Icon(%q) = %q, want %q", "movie", got, want)
	}
}

func TestThemeIconLookupOrder(t *testing.T) {
	theme := Theme{
		icons:    IconSet{"refined": "ok"},
		fallback: IconSet{"error": "[!]"},
	}

	tests := map[string]string{
		"refined": "ok",
		"error":   "[!]",
		"missing": "",
	}
	for key, want := range tests {
		if got := theme.Icon(key); got != want {
			t.Errorf("Icon(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestNewAppliesOptions(t *testing.T) {
	colors := Colors{
		Primary:    lipgloss.Color("#111111"),
		Secondary:  lipgloss.Color("#222222"),
		Accent:     lipgloss.Color("#333333"),
		Background: lipgloss.Color("#444444"),
		Muted:      lipgloss.Color("#555555"),
		Success:    lipgloss.Color("#666666"),
		Warning:    lipgloss.Color("#777777"),
		Error:      lipgloss.Color("#888888"),
	}
	spacing := Spacing{PanelPadding: 4, StatusHPadding: 2, CellHPadding: 3}
	borders := Borders{Panel: lipgloss.ThickBorder(), Table: lipgloss.HiddenBorder()}

	theme := New(WithColors(colors), WithSpacing(spacing), WithBorders(borders), WithIconSet(IconSet{"custom": "icon"}))

	if diff := cmp.Diff(colors, theme.Colors()); diff != "" {
		t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(spacing, theme.Spacing()); diff != "" {
		t.Errorf("Spacing() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(borders, theme.Borders()); diff != "" {
		t.Errorf("Borders() mismatch (-want +got):\n%s", diff)
	}
	if got := theme.Icon("custom"); got != "icon" {
		t.Errorf("Icon(custom) = %q, want icon", got)
	}
}

func TestNewRestoresNilIconSet(t *testing.T) {
	theme := New(WithIconSet(nil))
	if got, want := theme.Icon("episode"), defaultIconSet()["episode"]; got != want {
		t.Errorf("Icon(episode) = %q, want %q", got, want)
	}
}

func TestDefaultIconSet(t *testing.T) {
	t.Run("limited", func(t *testing.T) {
		t.Setenv("SSH_CLIENT", "1")
		if diff := cmp.Diff(asciiIcons, defaultIconSet()); diff != "" {
			t.Errorf("defaultIconSet() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("emoji", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("ASCII is preferred on Windows")
		}
		t.Setenv("SSH_CLIENT", "")
		t.Setenv("SSH_TTY", "")
		t.Setenv("SSH_CONNECTION", "")
		if diff := cmp.Diff(emojiIcons, defaultIconSet()); diff != "" {
			t.Errorf("defaultIconSet() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestIconSetsCoverSameNames(t *testing.T) {
	for name := range emojiIcons {
		if _, ok := asciiIcons[name]; !ok {
			t.Errorf("asciiIcons missing %q", name)
		}
	}
}

func TestBadgeStyleVariants(t *testing.T) {
	theme := New()
	colors := theme.Colors()

	tests := []struct {
		name   string
		status Status
		want   lipgloss.Color
	}{
		{name: "refined", status: StatusRefined, want: colors.Success},
		{name: "skipped", status: StatusSkipped, want: colors.Warning},
		{name: "failed", status: StatusFailed, want: colors.Error},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			style := theme.BadgeStyle(tc.status)
			if bg, ok := style.GetBackground().(lipgloss.Color); !ok || bg != tc.want {
				t.Errorf("BadgeStyle(%v) background = %v, want %v", tc.status, style.GetBackground(), tc.want)
			}
			if fg, ok := style.GetForeground().(lipgloss.Color); !ok || fg != colors.Background {
				t.Errorf("BadgeStyle(%v) foreground = %v, want %v", tc.status, style.GetForeground(), colors.Background)
			}
		})
	}
}

func TestTableCellStyle(t *testing.T) {
	theme := New()
	colors := theme.Colors()

	if fg, ok := theme.TableCellStyle(StatusFailed).GetForeground().(lipgloss.Color); !ok || fg != colors.Error {
		t.Errorf("TableCellStyle(failed) foreground = %v, want %v", fg, colors.Error)
	}
	if fg, ok := theme.TableCellStyle(StatusSkipped).GetForeground().(lipgloss.Color); !ok || fg != colors.Muted {
		t.Errorf("TableCellStyle(skipped) foreground = %v, want %v", fg, colors.Muted)
	}
	_, right, _, left := theme.TableCellStyle(StatusRefined).GetPadding()
	if right != theme.Spacing().CellHPadding || left != theme.Spacing().CellHPadding {
		t.Errorf("TableCellStyle padding = (%d,%d), want %d", right, left, theme.Spacing().CellHPadding)
	}
	if !theme.TableHeaderStyle().GetBold() {
		t.Error("TableHeaderStyle() bold = false, want true")
	}
}

func TestHeaderAndStatusStyles(t *testing.T) {
	theme := New()
	colors := theme.Colors()

	header := theme.HeaderStyle()
	if bg, ok := header.GetBackground().(lipgloss.Color); !ok || bg != colors.Primary {
		t.Errorf("HeaderStyle() background = %v, want %v", header.GetBackground(), colors.Primary)
	}
	if got := header.GetAlignHorizontal(); got != lipgloss.Center {
		t.Errorf("HeaderStyle() alignment = %v, want center", got)
	}

	status := theme.StatusBarStyle()
	if bg, ok := status.GetBackground().(lipgloss.Color); !ok || bg != colors.Secondary {
		t.Errorf("StatusBarStyle() background = %v, want %v", status.GetBackground(), colors.Secondary)
	}

	panel := theme.PanelStyle()
	if border := panel.GetBorderStyle(); border != theme.Borders().Panel {
		t.Errorf("PanelStyle() border = %v, want %v", border, theme.Borders().Panel)
	}
}

func TestProgressGradient(t *testing.T) {
	theme := New()
	want := []string{string(theme.Colors().Primary), string(theme.Colors().Accent)}
	if diff := cmp.Diff(want, theme.ProgressGradient()); diff != "" {
		t.Errorf("ProgressGradient() mismatch (-want +got):\n%s", diff)
	}
}
