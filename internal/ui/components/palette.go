package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"profithopper/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// hints must stay in sync with executePalette in app/palette.go.
var paletteHints = []string{
	"session:add <money_in> <money_out> [game] [# notes]",
	"trip:start <bankroll> <sessions> <casino>",
	"trip:settings <bankroll> <sessions>",
	"trip:end",
	"filter:rtp <min>",
	"filter:max-bet <amount|off>",
	"filter:cap <on|off>",
	"filter:type <type|All>",
	"filter:advantage <All|High|Medium|Low>",
	"filter:volatility <All|Low|Medium|High>",
	"filter:search [text]",
	"filter:reset",
	"game:blacklist [game]",
	"casino:add <name>",
	"catalog:reload",
	"export:sessions [path]",
	"export:trips [path]",
	"export:report [path]",
}

// Palette is the command line overlay. It remembers submitted commands so
// up and down recall them, and tab completes the command name.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	recall  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	return p.OpenWith("")
}

// OpenWith shows the palette with value pre-filled and the cursor at the end.
func (p *Palette) OpenWith(value string) tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			if val != "" && (len(p.history) == 0 || p.history[len(p.history)-1] != val) {
				p.history = append(p.history, val)
			}
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "up":
			if p.recall > 0 {
				p.recall--
				p.setInput(p.history[p.recall])
			}
			return p, nil
		case "down":
			if p.recall < len(p.history) {
				p.recall++
				if p.recall == len(p.history) {
					p.setInput("")
				} else {
					p.setInput(p.history[p.recall])
				}
			}
			return p, nil
		case "tab":
			if hints := matchingHints(p.input.Value()); len(hints) > 0 && !strings.Contains(p.input.Value(), " ") {
				name, _, _ := strings.Cut(hints[0], " ")
				p.setInput(name + " ")
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) setInput(v string) {
	p.input.SetValue(v)
	p.input.CursorEnd()
}

// Value is the text currently typed.
func (p Palette) Value() string { return p.input.Value() }

// matchingHints filters by the command word. Once arguments are being typed
// only the hint for that exact command remains.
func matchingHints(value string) []string {
	value = strings.ToLower(strings.TrimLeft(value, " "))
	name, _, typingArgs := strings.Cut(value, " ")
	var out []string
	for _, h := range paletteHints {
		hintName, _, _ := strings.Cut(h, " ")
		if (typingArgs && hintName == name) || (!typingArgs && strings.HasPrefix(hintName, name)) {
			out = append(out, h)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := matchingHints(p.input.Value())
	if len(matching) > 5 {
		matching = matching[:5]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
