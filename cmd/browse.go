package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mvolkova/plateful/pkg/api"
	"github.com/mvolkova/plateful/pkg/browse"
	"github.com/mvolkova/plateful/pkg/config"
	"github.com/urfave/cli/v3"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	browseAddressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	activeTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	inactiveTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	panelCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	browseHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	browseErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))
)

// BrowseCommand creates a terminal client for the recipe listing page.
// It drives the same search endpoint and address semantics as the web UI:
// tag commits are full navigations, typing is debounced into fragment
// requests, and the address line always reproduces the current view.
func BrowseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse recipes interactively in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Base URL of a running server (overrides host and port from config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			baseURL := c.String("url")
			if baseURL == "" {
				cfg, err := config.LoadConfig(c.String("config"))
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				baseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
			}
			baseURL = strings.TrimRight(baseURL, "/")

			m := newBrowseModel(baseURL)
			p := tea.NewProgram(m, tea.WithAltScreen())
			m.program = p

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running browse UI: %w", err)
			}
			return nil
		},
	}
}

type postMsg struct {
	fn func()
}

type tagsLoadedMsg struct {
	tags api.TagsResponse
}

type browseErrMsg struct {
	err error
}

type browseModel struct {
	baseURL string
	program *tea.Program

	engine *browse.Engine
	input  textinput.Model

	quick []api.TagInfo
	extra []api.TagInfo

	// Dropdown state, mutated by the engine through the TagPanel anchor.
	panelOpen   bool
	panelCursor int
	checked     map[string]bool
	badge       int

	address     string
	resultsText string
	status      string
	width       int
}

func newBrowseModel(baseURL string) *browseModel {
	input := textinput.New()
	input.Placeholder = "Search recipes..."
	input.CharLimit = 128
	input.Prompt = "/ "

	m := &browseModel{
		baseURL: baseURL,
		input:   input,
		checked: make(map[string]bool),
	}

	addr, _ := url.Parse("/")
	m.engine = browse.New(browse.Config{
		SearchURL: baseURL + "/api/search",
		Address:   addr,
		Navigator: m,
		Results:   m,
		Text:      (*browseTextField)(m),
		Panel:     (*browseTagPanel)(m),
		Client:    &http.Client{Timeout: 10 * time.Second},
		Post:      m.post,
	})

	return m
}

// post marshals timer and network completions onto the tea event loop so
// every engine callback runs on the Update goroutine.
func (m *browseModel) post(fn func()) {
	if m.program != nil {
		m.program.Send(postMsg{fn: fn})
		return
	}
	fn()
}

// Navigator

func (m *browseModel) Replace(query string) {
	m.address = displayAddress(query)
}

// Navigate plays the role of a full page load: the engine is rebuilt from
// the new address and a fresh result set is fetched.
func (m *browseModel) Navigate(query string) {
	m.address = displayAddress(query)
	m.input.SetValue("")

	addr, err := url.Parse(m.address)
	if err != nil {
		m.status = fmt.Sprintf("bad address: %v", err)
		return
	}

	m.engine = browse.New(browse.Config{
		SearchURL: m.baseURL + "/api/search",
		Address:   addr,
		Navigator: m,
		Results:   m,
		Text:      (*browseTextField)(m),
		Panel:     (*browseTagPanel)(m),
		Client:    &http.Client{Timeout: 10 * time.Second},
		Post:      m.post,
	})
	m.syncPanelFromFilters()
	m.engine.Submit()
}

func displayAddress(query string) string {
	if query == "" {
		return "/"
	}
	return "/?" + query
}

// ResultsRegion

func (m *browseModel) SetContent(html string) {
	m.resultsText = stripHTML(html)
	m.status = ""
}

// browseTextField adapts the textinput to the engine's text anchor.
type browseTextField browseModel

func (t *browseTextField) Value() string {
	return (*browseModel)(t).input.Value()
}

func (t *browseTextField) SetValue(value string) {
	(*browseModel)(t).input.SetValue(value)
}

// browseTagPanel adapts the dropdown state to the engine's panel anchor.
type browseTagPanel browseModel

func (p *browseTagPanel) SetOpen(open bool) {
	(*browseModel)(p).panelOpen = open
}

func (p *browseTagPanel) Checked() []string {
	m := (*browseModel)(p)
	values := make([]string, 0, len(m.checked))
	for value, on := range m.checked {
		if on {
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}

func (p *browseTagPanel) SetChecked(values []string) {
	m := (*browseModel)(p)
	m.checked = make(map[string]bool, len(values))
	for _, value := range values {
		m.checked[value] = true
	}
}

func (p *browseTagPanel) Governed() []string {
	m := (*browseModel)(p)
	values := make([]string, len(m.extra))
	for i, tag := range m.extra {
		values[i] = tag.Value
	}
	return values
}

func (p *browseTagPanel) SetBadge(count int) {
	(*browseModel)(p).badge = count
}

// syncPanelFromFilters ticks the dropdown checkboxes that match currently
// active extra tags, the way a server-rendered page would arrive.
func (m *browseModel) syncPanelFromFilters() {
	filters := m.engine.Filters()
	m.checked = make(map[string]bool)
	count := 0
	for _, tag := range m.extra {
		if filters.Has(tag.Value) {
			m.checked[tag.Value] = true
			count++
		}
	}
	m.badge = count
}

func (m *browseModel) loadTags() tea.Cmd {
	baseURL := m.baseURL
	return func() tea.Msg {
		resp, err := http.Get(baseURL + "/api/tags")
		if err != nil {
			return browseErrMsg{err: err}
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return browseErrMsg{err: fmt.Errorf("tags endpoint returned %s", resp.Status)}
		}

		var tags api.TagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
			return browseErrMsg{err: fmt.Errorf("decoding tags: %w", err)}
		}
		return tagsLoadedMsg{tags: tags}
	}
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadTags())
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		msg.fn()
		return m, nil

	case tagsLoadedMsg:
		m.quick = msg.tags.Quick
		m.extra = msg.tags.Extra
		m.syncPanelFromFilters()
		m.engine.Submit()
		return m, nil

	case browseErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.panelOpen {
		switch msg.String() {
		case "up", "k":
			if m.panelCursor > 0 {
				m.panelCursor--
			}
		case "down", "j":
			if m.panelCursor < len(m.extra)-1 {
				m.panelCursor++
			}
		case " ":
			if m.panelCursor < len(m.extra) {
				value := m.extra[m.panelCursor].Value
				m.checked[value] = !m.checked[value]
				m.engine.PanelChanged()
			}
		case "enter":
			m.engine.PanelApply()
		case "c":
			m.engine.PanelClear()
		case "esc", "f":
			m.engine.PanelDismiss()
		}
		return m, nil
	}

	if m.input.Focused() {
		switch msg.String() {
		case "enter":
			m.engine.Submit()
			return m, nil
		case "esc":
			m.input.Blur()
			return m, nil
		case "ctrl+u":
			m.engine.ClearSearch()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.engine.TextChanged()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.input.Focus()
		return m, textinput.Blink
	case "f":
		m.engine.PanelToggle()
	case "r":
		m.engine.ResetFilters()
	case "x":
		m.engine.ClearSearch()
	default:
		if idx := quickTagIndex(msg.String()); idx >= 0 && idx < len(m.quick) {
			m.engine.ToggleTag(m.quick[idx].Value)
		}
	}
	return m, nil
}

func quickTagIndex(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render("Plateful"))
	b.WriteString("  ")
	b.WriteString(browseAddressStyle.Render(m.address))
	b.WriteString("\n\n")

	filters := m.engine.Filters()
	for i, tag := range m.quick {
		label := fmt.Sprintf("%d %s", i+1, tag.Label)
		if filters.Has(tag.Value) {
			b.WriteString(activeTagStyle.Render(label))
		} else {
			b.WriteString(inactiveTagStyle.Render(label))
		}
		b.WriteString(" ")
	}
	more := "f More filters"
	if m.badge > 0 {
		more = fmt.Sprintf("f More filters (%d)", m.badge)
	}
	b.WriteString(inactiveTagStyle.Render(more))
	b.WriteString("\n\n")

	if m.panelOpen {
		var panel strings.Builder
		for i, tag := range m.extra {
			cursor := "  "
			if i == m.panelCursor {
				cursor = panelCursorStyle.Render("> ")
			}
			check := "[ ]"
			if m.checked[tag.Value] {
				check = "[x]"
			}
			panel.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, tag.Label))
		}
		panel.WriteString(browseHelpStyle.Render("space toggle · enter apply · c clear · esc close"))
		b.WriteString(panelStyle.Render(panel.String()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(browseErrorStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(m.resultsText)
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("1-9 toggle tags · / search · f filters · r reset · q quit"))
	return b.String()
}

// stripHTML flattens a rendered card fragment into plain text for the
// terminal. Tags are dropped, block elements become line breaks.
func stripHTML(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}

	lines := make([]string, 0, 16)
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
