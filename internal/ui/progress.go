package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"aoc/internal/buildpipeline"
)

// stageInfo: подпись стадии в списке и доля прогресса файла, пока он на ней.
var stageInfo = map[buildpipeline.Stage]struct {
	label  string
	weight float64
}{
	buildpipeline.StageLoad:  {"loading", 0.1},
	buildpipeline.StageParse: {"parsing", 0.4},
	buildpipeline.StageGraph: {"linking", 0.9},
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleBusy    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleElapsed = lipgloss.NewStyle().Faint(true)
)

const statusWidth = 12

type fileItem struct {
	path    string
	label   string
	state   buildpipeline.Status
	stage   buildpipeline.Stage
	elapsed time.Duration
}

func (it *fileItem) style() lipgloss.Style {
	switch it.state {
	case buildpipeline.StatusDone, buildpipeline.StatusCached:
		return styleOK
	case buildpipeline.StatusError:
		return styleFailed
	case buildpipeline.StatusWorking:
		return styleBusy
	}
	return styleIdle
}

// progress of one file in [0, 1]
func (it *fileItem) fraction() float64 {
	if it.state.Finished() {
		return 1
	}
	return stageInfo[it.stage].weight
}

// progressModel shows one row per module file and an overall bar. It is fed
// by buildpipeline events and quits when the channel closes.
type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	byPath  map[string]int
	phase   string // стадия без файла, например linking
	width   int
	done    bool
}

type (
	eventMsg buildpipeline.Event
	doneMsg  struct{}
)

// NewProgressModel builds the check progress view for files, in the order
// they should be listed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleBusy)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f, label: string(buildpipeline.StatusQueued), state: buildpipeline.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next ждёт следующее событие пайплайна.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	label := string(ev.Status)
	if ev.Status == buildpipeline.StatusWorking {
		label = stageInfo[ev.Stage].label
	}
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.phase = label
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[i]
	it.label, it.state, it.stage = label, ev.Status, ev.Stage
	if ev.Elapsed > 0 {
		it.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) finished() int {
	n := 0
	for i := range m.items {
		if m.items[i].state.Finished() {
			n++
		}
	}
	return n
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for i := range m.items {
		sum += m.items[i].fraction()
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s: %d/%d files", m.title, m.finished(), len(m.items))
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(header))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-14, 20)
	for i := range m.items {
		it := &m.items[i]
		fmt.Fprintf(&b, "  %s %s", it.style().Render(fmt.Sprintf("%*s", statusWidth, it.label)), truncate(it.path, nameWidth))
		if it.elapsed > 0 {
			b.WriteString(" " + styleElapsed.Render(it.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// truncate shortens value to width display cells. The cut is marked with
// "..." only when at least as many cells of the value stay visible.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width < 2*len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
