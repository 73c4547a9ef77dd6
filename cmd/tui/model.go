package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/tier"
	"github.com/tejasvp/resultboard/internal/domain/view"
)

const pollInterval = 2 * time.Second

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	inputStyle = lipgloss.NewStyle().
			Margin(1, 0, 1, 0)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	tierStyles = map[string]lipgloss.Style{
		tier.Excellent: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		tier.Great:     lipgloss.NewStyle().Foreground(lipgloss.Color("76")),
		tier.Good:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		tier.Average:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		tier.Low:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Messages passed back into the update loop by commands.
type (
	submittedMsg struct{ id string }
	resultMsg    struct{ result model.AnalysisResult }
	rowsMsg      struct{ rows []model.RankedRow }
	barsMsg      struct{ bars []model.ChartBar }
	pollTickMsg  struct{}
	errMsg       struct{ err error }
)

type dashboard struct {
	client *apiClient
	dept   string
	year   string

	searchInput textinput.Model
	table       table.Model

	analysisID string
	result     model.AnalysisResult
	bars       []model.ChartBar
	rows       []model.RankedRow
	sortState  view.SortState

	width   int
	status  string
	running bool
	err     error
}

func newDashboard(client *apiClient, dept, year string) dashboard {
	ti := textinput.New()
	ti.Placeholder = "Search USN or name..."
	ti.Width = 40

	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "USN", Width: 14},
		{Title: "Name", Width: 28},
		{Title: "SGPA", Width: 6},
		{Title: "Tier", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return dashboard{
		client:      client,
		dept:        dept,
		year:        year,
		searchInput: ti,
		table:       t,
		sortState:   view.DefaultSortState(),
		width:       100,
		status:      "ctrl+r runs a fresh analysis, ctrl+l loads the latest one",
	}
}

func (m dashboard) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadLatestCmd())
}

func (m dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	enter := key.NewBinding(key.WithKeys("enter"))
	toggleFocus := key.NewBinding(key.WithKeys("tab"))
	runKey := key.NewBinding(key.WithKeys("ctrl+r"))
	latestKey := key.NewBinding(key.WithKeys("ctrl+l"))
	quitKey := key.NewBinding(key.WithKeys("esc", "ctrl+c"))

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit
		case key.Matches(msg, runKey):
			m.running = true
			m.err = nil
			m.status = fmt.Sprintf("running analysis for %s/%s...", m.dept, m.year)
			return m, m.submitCmd()
		case key.Matches(msg, latestKey):
			m.err = nil
			m.status = "loading latest analysis..."
			return m, m.loadLatestCmd()
		case key.Matches(msg, toggleFocus):
			if m.searchInput.Focused() {
				m.searchInput.Blur()
				m.table.Focus()
			} else {
				m.table.Blur()
				m.searchInput.Focus()
			}
			return m, nil
		case key.Matches(msg, enter):
			if m.searchInput.Focused() && m.analysisID != "" {
				return m, m.loadRowsCmd()
			}
		}

		// Sort-key shortcuts mirror clicking a column header: the same
		// key flips direction, a new key starts descending.
		if !m.searchInput.Focused() && m.analysisID != "" {
			switch msg.String() {
			case "u":
				m.sortState = m.sortState.Toggle(view.ByUSN)
				return m, m.loadRowsCmd()
			case "n":
				m.sortState = m.sortState.Toggle(view.ByName)
				return m, m.loadRowsCmd()
			case "s":
				m.sortState = m.sortState.Toggle(view.BySGPA)
				return m, m.loadRowsCmd()
			}
		}

		if m.searchInput.Focused() {
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case submittedMsg:
		m.analysisID = msg.id
		m.status = "analysis " + msg.id + " submitted, waiting..."
		return m, m.pollTickCmd()

	case pollTickMsg:
		return m, m.pollCmd()

	case resultMsg:
		m.result = msg.result
		switch msg.result.Status {
		case model.JobPending, model.JobRunning:
			m.status = "analysis " + msg.result.Status + "..."
			return m, m.pollTickCmd()
		case model.JobFailed:
			m.running = false
			m.err = fmt.Errorf("analysis failed: %s", msg.result.Error)
			return m, nil
		}
		m.running = false
		m.status = fmt.Sprintf("analysis complete: %d students (%s)",
			m.result.Summary.TotalStudents, m.result.Input.RollRange)
		return m, tea.Batch(m.loadRowsCmd(), m.loadBarsCmd())

	case rowsMsg:
		m.rows = msg.rows
		m.refreshTable()
		return m, nil

	case barsMsg:
		m.bars = msg.bars
		return m, nil

	case errMsg:
		m.running = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m dashboard) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Resultboard — %s batch of 20%s", m.dept, m.year)))
	b.WriteString("\n")

	if m.result.Status == model.JobCompleted {
		s := m.result.Summary
		b.WriteString(statusStyle.Render(fmt.Sprintf(
			"avg %.2f · median %.2f · stddev %.3f · min %.2f · max %.2f",
			s.AverageSGPA, s.MedianSGPA, s.StdDevSGPA, s.MinSGPA, s.MaxSGPA)))
		b.WriteString("\n")
		b.WriteString(m.renderBars())
	}

	b.WriteString(inputStyle.Render(m.searchInput.View()))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(
		"enter search · tab focus · u/n/s sort · ctrl+r run · ctrl+l latest · esc quit"))

	return baseStyle.Render(b.String())
}

// renderBars draws the distribution as proportional horizontal bars. The
// widths come from the server already normalized to 0-100.
func (m dashboard) renderBars() string {
	if len(m.bars) == 0 {
		return ""
	}
	// Reserve room for the label and count columns.
	trackWidth := m.width - 30
	if trackWidth < 10 {
		trackWidth = 10
	}

	var b strings.Builder
	for _, bar := range m.bars {
		cells := int(math.Round(bar.WidthPercent / 100 * float64(trackWidth)))
		if cells < 1 {
			cells = 1
		}
		b.WriteString(fmt.Sprintf("%-12s %s %d\n",
			bar.Label,
			barStyle.Render(strings.Repeat("█", cells)),
			bar.Count,
		))
	}
	return b.String()
}

func (m *dashboard) refreshTable() {
	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		sgpa := "N/A"
		if r.Comparable() {
			sgpa = fmt.Sprintf("%.2f", r.SGPA)
		}
		name := r.Name
		if r.Highlighted {
			name = highlightStyle.Render(name)
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.Rank),
			r.USN,
			name,
			sgpa,
			tierStyles[r.Tier].Render(r.Tier),
		}
	}
	m.table.SetRows(rows)
}

func (m dashboard) submitCmd() tea.Cmd {
	return func() tea.Msg {
		id, err := m.client.Submit(context.Background(), m.dept, m.year)
		if err != nil {
			return errMsg{err}
		}
		return submittedMsg{id}
	}
}

func (m dashboard) pollTickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m dashboard) pollCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Analysis(context.Background(), m.analysisID)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{result}
	}
}

func (m dashboard) loadLatestCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Latest(context.Background(), m.dept, m.year)
		if err != nil {
			return errMsg{fmt.Errorf("no completed analysis yet (ctrl+r to run one): %w", err)}
		}
		return submittedMsg{result.ID}
	}
}

func (m dashboard) loadRowsCmd() tea.Cmd {
	query := m.searchInput.Value()
	state := m.sortState
	return func() tea.Msg {
		rows, err := m.client.Records(context.Background(), m.analysisID,
			query, state.Key.String(), state.Direction.String())
		if err != nil {
			return errMsg{err}
		}
		return rowsMsg{rows}
	}
}

func (m dashboard) loadBarsCmd() tea.Cmd {
	return func() tea.Msg {
		bars, err := m.client.Distribution(context.Background(), m.analysisID)
		if err != nil {
			return errMsg{err}
		}
		return barsMsg{bars}
	}
}
