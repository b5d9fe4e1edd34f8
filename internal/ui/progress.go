package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"playscript/internal/buildpipeline"
)

type fileState uint8

const (
	stateQueued fileState = iota
	stateWorking
	stateDone
	stateFailed
)

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageParse:    "parsing",
	buildpipeline.StageDiagnose: "diagnosing",
	buildpipeline.StageGenerate: "generating",
	buildpipeline.StageWrite:    "writing",
	buildpipeline.StageRun:      "running",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

const statusWidth = 12

type fileItem struct {
	path    string
	state   fileState
	stage   buildpipeline.Stage
	elapsed time.Duration
}

func (it fileItem) label() string {
	switch it.state {
	case stateWorking:
		return stageVerbs[it.stage]
	case stateDone:
		return "done"
	case stateFailed:
		return "error"
	}
	return "queued"
}

func (it fileItem) style() lipgloss.Style {
	switch it.state {
	case stateWorking:
		return workingStyle
	case stateDone:
		return doneStyle
	case stateFailed:
		return failedStyle
	}
	return queuedStyle
}

type progressModel struct {
	title   string
	final   buildpipeline.Stage
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	phase   buildpipeline.Stage
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders pipeline
// progress for files. A file is finished once final completes or any stage
// fails; the model quits when events is closed.
func NewProgressModel(title string, files []string, final buildpipeline.Stage, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		final:   final,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if verb := stageVerbs[m.phase]; verb != "" {
		header += " (" + verb + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-14, 20)
	for _, it := range m.items {
		status := it.style().Render(fmt.Sprintf("%*s", statusWidth, it.label()))
		fmt.Fprintf(&b, "  %s %s", status, truncate(it.path, nameWidth))
		if it.elapsed > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  %s", it.elapsed.Round(time.Microsecond*100))))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	pct := m.percent()
	if m.done {
		pct = 1
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.summary()))
	b.WriteString("\n")
	return b.String()
}

// summary counts finished and failed files.
func (m *progressModel) summary() string {
	finished, failed := 0, 0
	for _, it := range m.items {
		switch it.state {
		case stateDone:
			finished++
		case stateFailed:
			finished++
			failed++
		}
	}
	s := fmt.Sprintf("%d/%d files", finished, len(m.items))
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// apply folds ev into the model. Events for unknown or finished files are
// dropped.
func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = ev.Stage
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	if it.state == stateDone || it.state == stateFailed {
		return nil
	}
	it.stage = ev.Stage
	it.elapsed += ev.Elapsed
	switch ev.Status {
	case buildpipeline.StatusWorking:
		it.state = stateWorking
	case buildpipeline.StatusError:
		it.state = stateFailed
	case buildpipeline.StatusDone:
		if ev.Stage == m.final {
			it.state = stateDone
		}
	}
	return m.bar.SetPercent(m.percent())
}

// percent is the mean completion of all files. A file inside a stage counts
// the stages before it plus half of the current one.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	span := float64(slices.Index(buildpipeline.Stages[:], m.final) + 1)
	total := 0.0
	for _, it := range m.items {
		switch it.state {
		case stateDone, stateFailed:
			total++
		case stateWorking:
			if span > 0 {
				pos := float64(slices.Index(buildpipeline.Stages[:], it.stage))
				total += min((pos+0.5)/span, 1)
			}
		}
	}
	return total / float64(len(m.items))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
