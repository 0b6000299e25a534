// Package review is an interactive terminal browser over the job store:
// scroll the aggregated listing, inspect a posting, and toggle the
// applied/hidden flags that scans preserve.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n7z/jobradar/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	appliedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	hiddenBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Strikethrough(true)

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type reviewModel struct {
	store model.JobStore

	jobs       []model.Job // every record, sorted newest first
	visible    []model.Job // jobs minus hidden, unless showHidden
	showHidden bool

	listViewport   viewport.Model
	detailViewport viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool

	view     viewState
	storeErr string
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "a":
		m.toggleApplied()
		m.recalcContent()
		return m, nil
	case "h":
		m.toggleHidden()
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "H":
		m.showHidden = !m.showHidden
		m.rebuildVisible()
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "o":
		if j, ok := m.selected(); ok {
			openURL(j.URL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		m.recalcContent()
		return m, nil
	case "a":
		m.toggleApplied()
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil
	case "h":
		m.toggleHidden()
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil
	case "o":
		if j, ok := m.selected(); ok {
			openURL(j.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) selected() (model.Job, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return model.Job{}, false
	}
	return m.visible[m.cursor], true
}

// toggleApplied flips the applied flag on the selected job, writing through
// to the store so the change survives the session.
func (m *reviewModel) toggleApplied() {
	j, ok := m.selected()
	if !ok {
		return
	}
	if err := m.store.SetApplied(j.ID, !j.Applied); err != nil {
		m.storeErr = fmt.Sprintf("update failed: %v", err)
		return
	}
	m.storeErr = ""
	m.refresh(j.ID)
}

func (m *reviewModel) toggleHidden() {
	j, ok := m.selected()
	if !ok {
		return
	}
	if err := m.store.SetHidden(j.ID, !j.Hidden); err != nil {
		m.storeErr = fmt.Sprintf("update failed: %v", err)
		return
	}
	m.storeErr = ""
	m.refresh(j.ID)
}

// refresh re-reads one record from the store and rebuilds the visible list.
func (m *reviewModel) refresh(id string) {
	updated, ok, err := m.store.Get(id)
	if err != nil || !ok {
		return
	}
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			m.jobs[i] = updated
			break
		}
	}
	m.rebuildVisible()
}

func (m *reviewModel) rebuildVisible() {
	m.visible = m.visible[:0]
	for _, j := range m.jobs {
		if j.Hidden && !m.showHidden {
			continue
		}
		m.visible = append(m.visible, j)
	}
	m.cursor = clamp(m.cursor, 0, max(len(m.visible)-1, 0))
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.visible)-1, 0))
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.listViewport.YOffset {
		m.listViewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(cursorBottom - m.listViewport.Height + 1)
	}
}

func (m reviewModel) openDetailView() (tea.Model, tea.Cmd) {
	if _, ok := m.selected(); !ok {
		return m, nil
	}
	m.view = viewDetail
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *reviewModel) recalcLayout() {
	paneWidth := max(m.width-2, 20)
	// Header (1) + border top/bottom (2) + status bar (1).
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = paneWidth
		m.listViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.listViewport.SetContent(renderJobs(m.visible, m.cursor))
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m reviewModel) viewList() string {
	applied, hidden := 0, 0
	for _, j := range m.jobs {
		if j.Applied {
			applied++
		}
		if j.Hidden {
			hidden++
		}
	}

	header := headerStyle.Render(fmt.Sprintf(" Jobs (%d shown / %d total)", len(m.visible), len(m.jobs)))
	pane := borderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())

	statusText := fmt.Sprintf(" %d applied | %d hidden    ↑/↓ cursor  Enter detail  a applied  h hide  H show hidden  o open  q quit",
		applied, hidden)
	if m.storeErr != "" {
		statusText = " " + m.storeErr
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(
		" a applied  h hide  o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	j, ok := m.selected()
	if !ok {
		return "  (no job selected)"
	}

	var b strings.Builder
	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Salary", j.Salary)
	addField("Source", j.Source)

	b.WriteByte('\n')
	if j.PostedAt != nil {
		addField("Posted", j.PostedAt.Format("2006-01-02 15:04 MST"))
	}
	addField("Discovered", j.DiscoveredAt.Format("2006-01-02 15:04 MST"))

	status := "not applied"
	if j.Applied {
		status = "applied"
		if j.AppliedAt != nil {
			status += " on " + j.AppliedAt.Format("2006-01-02")
		}
	}
	addField("Status", status)
	if j.Hidden {
		addField("Hidden", "yes")
	}

	b.WriteByte('\n')
	addField("URL", j.URL)

	if m.storeErr != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.storeErr) + "\n")
	}

	if j.Description != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		b.WriteString(descBodyStyle.Render(wordWrap(j.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}
		if j.Hidden {
			titleSt = hiddenBadgeStyle
		}

		title := j.Title
		if j.Applied {
			title += " " + appliedBadgeStyle.Render("✓")
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(title))
		b.WriteByte('\n')

		subtitle := j.Company
		if j.Location != "" {
			subtitle += " · " + j.Location
		}
		subtitle += " · " + j.Source
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(subtitle))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sortJobs orders by DiscoveredAt descending so fresh postings surface first.
func sortJobs(jobs []model.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].DiscoveredAt.Equal(jobs[j].DiscoveredAt) {
			return jobs[i].DiscoveredAt.After(jobs[j].DiscoveredAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive review TUI over the store.
func Run(store model.JobStore) error {
	jobs, err := store.All()
	if err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}
	sortJobs(jobs)

	m := reviewModel{store: store, jobs: jobs}
	m.rebuildVisible()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
