package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AdekunleBamz/ebook-store/internal/market"
)

// ListingItem represents one listing in the browser, with the viewer's
// relationship to it.
type ListingItem struct {
	Listing   market.Listing
	Owned     bool // viewer holds an access grant
	Published bool // viewer is the author
}

// FilterValue returns the string used for filtering in the list.
func (it ListingItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s %s", it.Listing.ID, it.Listing.Title, it.Listing.Description, it.Listing.Author)
}

type listingDelegate struct{}

func (d listingDelegate) Height() int  { return 1 }
func (d listingDelegate) Spacing() int { return 0 }
func (d listingDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d listingDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ListingItem)
	if !ok {
		return
	}

	idStr := fmt.Sprintf("#%-5d", it.Listing.ID)
	title := it.Listing.Title
	if !it.Listing.Active {
		title = StyleInactive.Render(title)
	}
	price := StylePrice.Render(market.FormatStx(it.Listing.Price) + " STX")

	mark := ""
	switch {
	case it.Published:
		mark = " " + StyleOwned.Render("✎")
	case it.Owned:
		mark = " " + StyleOwned.Render("✓")
	}

	var s strings.Builder
	line := idStr + " " + title + "  " + price + mark
	if index == m.Index() {
		s.WriteString(StyleHighlight.Render("› " + line))
	} else {
		s.WriteString("  " + StyleNormal.Render(idStr) + " " + title + "  " + price + mark)
	}
	_, _ = fmt.Fprint(w, s.String())
}

type browserKeyMap struct {
	quit   key.Binding
	enter  key.Binding
	buy    key.Binding
	get    key.Binding
	filter key.Binding
}

var browserKeys = browserKeyMap{
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	buy: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "buy"),
	),
	get: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "download"),
	),
	filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
}

// BrowserAction is the action the user picked before the browser quit.
type BrowserAction string

const (
	ActionNone        BrowserAction = ""
	ActionShowDetails BrowserAction = "details"
	ActionBuy         BrowserAction = "buy"
	ActionDownload    BrowserAction = "download"
)

// BrowserResult holds the outcome of a browser session.
type BrowserResult struct {
	Action  BrowserAction
	Listing *ListingItem
}

// Loader fetches the items to display. It runs while the browser shows its
// loading state.
type Loader func(ctx context.Context) ([]ListingItem, error)

type itemsLoadedMsg []ListingItem
type loadFailedMsg struct{ err error }

// browserModel walks idle → loading → loaded | error.
type browserModel struct {
	title   string
	loader  Loader
	spinner spinner.Model
	list    list.Model

	loading  bool
	loadErr  error
	quitting bool
	action   BrowserAction
	selected *ListingItem
	width    int
	height   int
}

func (m browserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m browserModel) load() tea.Cmd {
	return func() tea.Msg {
		items, err := m.loader(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return itemsLoadedMsg(items)
	}
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.loading = false
		items := make([]list.Item, len(msg))
		for i, it := range msg {
			items[i] = it
		}
		cmd := m.list.SetItems(items)
		if m.width > 0 {
			h, v := StyleBorder.GetFrameSize()
			m.list.SetSize(m.width-h, m.height-v)
		}
		return m, cmd

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.loadErr != nil {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			if msg.String() == "ctrl+c" || msg.String() == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, browserKeys.quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, browserKeys.enter):
			if it, ok := m.list.SelectedItem().(ListingItem); ok {
				m.action = ActionShowDetails
				m.selected = &it
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, browserKeys.buy):
			if it, ok := m.list.SelectedItem().(ListingItem); ok {
				m.action = ActionBuy
				m.selected = &it
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, browserKeys.get):
			if it, ok := m.list.SelectedItem().(ListingItem); ok {
				m.action = ActionDownload
				m.selected = &it
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := StyleBorder.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return "\n  " + m.spinner.View() + " Loading " + m.title + "…\n"
	}
	if m.loadErr != nil {
		return "\n  " + StyleError.Render("✗ "+m.loadErr.Error()) + "\n\n  " + StyleHelp.Render("press any key to exit") + "\n"
	}
	return StyleBorder.Render(m.list.View())
}

// RunBrowser launches the interactive listing browser. The loader runs
// asynchronously while a spinner shows; a load failure is displayed and the
// browser exits on the next key.
func RunBrowser(title string, loader Loader) (*BrowserResult, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleHighlight

	delegate := listingDelegate{}
	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{browserKeys.buy, browserKeys.get}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{browserKeys.buy, browserKeys.get, browserKeys.enter}
	}

	m := browserModel{
		title:   title,
		loader:  loader,
		spinner: sp,
		list:    l,
		loading: true,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running TUI: %w", err)
	}

	if fm, ok := finalModel.(browserModel); ok {
		if fm.loadErr != nil {
			return nil, fm.loadErr
		}
		return &BrowserResult{Action: fm.action, Listing: fm.selected}, nil
	}
	return &BrowserResult{Action: ActionNone}, nil
}
