package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/QCHackers/tqec-sub002/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// defaultPageHeight is used before the terminal reports its size.
const defaultPageHeight = 20

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	simple *SimpleUI
}

// NewTUI creates a new TUI falling back to the given SimpleUI for
// non-paginated output.
func NewTUI(output io.Writer, simple *SimpleUI) *TUI {
	return &TUI{output: output, simple: simple}
}

// DisplaySegments delegates to the table renderer; segment lists are short.
func (t *TUI) DisplaySegments(ctx context.Context, segments []domain.Segment) error {
	return t.simple.DisplaySegments(ctx, segments)
}

// DisplayDetectors delegates to the table renderer.
func (t *TUI) DisplayDetectors(ctx context.Context, detectors []domain.Detector) error {
	return t.simple.DisplayDetectors(ctx, detectors)
}

// DisplayBatchSummary delegates to the table renderer.
func (t *TUI) DisplayBatchSummary(ctx context.Context, results []BatchResult) error {
	return t.simple.DisplayBatchSummary(ctx, results)
}

// DisplayCircuit pages through the annotated circuit text, highlighting
// detector annotations. Short circuits print directly.
func (t *TUI) DisplayCircuit(ctx context.Context, title, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newCircuitModel(title, text)

	if !model.needsPagination() {
		_, err := fmt.Fprintf(t.output, "%s\n%s\n", titleStyle.Render(title), renderLines(model.lines))

		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// circuitModel is the Bubble Tea model paging through circuit text.
type circuitModel struct {
	title    string
	lines    []string
	vp       viewport.Model
	ready    bool
	quitting bool
}

func newCircuitModel(title, text string) circuitModel {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	vp := viewport.New(0, defaultPageHeight)
	vp.SetContent(renderLines(lines))

	return circuitModel{
		title: title,
		lines: lines,
		vp:    vp,
	}
}

// renderLines highlights detector annotations before handing the text to the
// viewport.
func renderLines(lines []string) string {
	var b strings.Builder

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}

		if strings.Contains(line, "DETECTOR") {
			b.WriteString(markStyle.Render(line))
		} else {
			b.WriteString(line)
		}
	}

	return b.String()
}

func (cm circuitModel) Init() tea.Cmd {
	return nil
}

func (cm circuitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Reserve rows for the title and footer.
		cm.vp.Width = msg.Width
		cm.vp.Height = max(msg.Height-4, 1)
		cm.ready = true

		return cm, nil
	case tea.KeyMsg:
		return cm.handleKeyPress(msg)
	}

	return cm, nil
}

//nolint:exhaustive // Key handling requires multiple cases for UI navigation
func (cm circuitModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cm.quitting = true

		return cm, tea.Quit
	default:
	}

	if msg.String() == "q" {
		cm.quitting = true

		return cm, tea.Quit
	}

	// The viewport handles j/k, u/d, and pgup/pgdown itself.
	var cmd tea.Cmd
	cm.vp, cmd = cm.vp.Update(msg)

	return cm, cmd
}

func (cm circuitModel) needsPagination() bool {
	return len(cm.lines) > cm.vp.Height
}

func (cm circuitModel) View() string {
	if cm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(cm.title))
	b.WriteByte('\n')
	b.WriteString(cm.vp.View())
	b.WriteByte('\n')

	if cm.needsPagination() {
		first := cm.vp.YOffset + 1
		last := min(cm.vp.YOffset+cm.vp.Height, len(cm.lines))
		b.WriteString(footerStyle.Render(fmt.Sprintf(
			"lines %d-%d of %d | j/k scroll | u/d half page | q quit",
			first, last, len(cm.lines))))
		b.WriteByte('\n')
	}

	return b.String()
}
