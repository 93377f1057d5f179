package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AdekunleBamz/ebook-store/internal/market"
)

// PublishFormDefaults pre-fills the form, e.g. from flags.
type PublishFormDefaults struct {
	Title       string
	Description string
	ContentID   string
	PriceStx    string
}

type publishFormModel struct {
	inputs   []textinput.Model
	focused  int
	result   *market.Draft
	err      error
	canceled bool
	width    int
	height   int
}

const (
	fieldTitle = iota
	fieldDescription
	fieldContentID
	fieldPrice
)

func newPublishForm(defaults PublishFormDefaults) publishFormModel {
	m := publishFormModel{
		inputs: make([]textinput.Model, 4),
	}

	const fieldWidth = 48

	m.inputs[fieldTitle] = textinput.New()
	m.inputs[fieldTitle].Placeholder = "Ebook title"
	m.inputs[fieldTitle].SetValue(defaults.Title)
	m.inputs[fieldTitle].Focus()
	m.inputs[fieldTitle].CharLimit = market.MaxTitleLen
	m.inputs[fieldTitle].Width = fieldWidth
	m.inputs[fieldTitle].Prompt = "│ "

	m.inputs[fieldDescription] = textinput.New()
	m.inputs[fieldDescription].Placeholder = "Short description"
	m.inputs[fieldDescription].SetValue(defaults.Description)
	m.inputs[fieldDescription].CharLimit = market.MaxDescriptionLen
	m.inputs[fieldDescription].Width = fieldWidth
	m.inputs[fieldDescription].Prompt = "│ "

	m.inputs[fieldContentID] = textinput.New()
	m.inputs[fieldContentID].Placeholder = "Content identifier (IPFS CID)"
	m.inputs[fieldContentID].SetValue(defaults.ContentID)
	m.inputs[fieldContentID].CharLimit = 128
	m.inputs[fieldContentID].Width = fieldWidth
	m.inputs[fieldContentID].Prompt = "│ "

	m.inputs[fieldPrice] = textinput.New()
	m.inputs[fieldPrice].Placeholder = "2.500000"
	m.inputs[fieldPrice].SetValue(defaults.PriceStx)
	m.inputs[fieldPrice].CharLimit = 20
	m.inputs[fieldPrice].Width = 14
	m.inputs[fieldPrice].Prompt = "│ "

	return m
}

func (m publishFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m publishFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit

		case "enter":
			if m.focused < len(m.inputs)-1 {
				return m.focusField(m.focused + 1)
			}
			// Last field: validate and submit. Nothing leaves this
			// process until the draft passes.
			price, err := market.ParseStx(m.inputs[fieldPrice].Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			draft := market.Draft{
				Title:       strings.TrimSpace(m.inputs[fieldTitle].Value()),
				Description: strings.TrimSpace(m.inputs[fieldDescription].Value()),
				ContentID:   strings.TrimSpace(m.inputs[fieldContentID].Value()),
				Price:       price,
			}
			if err := draft.Validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.result = &draft
			return m, tea.Quit

		case "tab", "down":
			return m.focusField((m.focused + 1) % len(m.inputs))

		case "shift+tab", "up":
			return m.focusField((m.focused + len(m.inputs) - 1) % len(m.inputs))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m publishFormModel) focusField(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.err = nil
	return m, m.inputs[m.focused].Focus()
}

var formLabels = [...]string{"Title", "Description", "Content ID", "Price (STX)"}

func (m publishFormModel) View() string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Publish an ebook") + "\n\n")
	for i, in := range m.inputs {
		label := formLabels[i]
		if i == m.focused {
			label = StyleHighlight.Render(label)
		} else {
			label = StyleHelp.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", label, in.View()))
	}
	if m.err != nil {
		b.WriteString(StyleError.Render("✗ "+m.err.Error()) + "\n\n")
	}
	b.WriteString(StyleHelp.Render("tab: next field • enter on price: submit • esc: cancel"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// RunPublishForm collects a listing draft interactively. Returns nil when
// the user cancels.
func RunPublishForm(defaults PublishFormDefaults) (*market.Draft, error) {
	p := tea.NewProgram(newPublishForm(defaults))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running TUI: %w", err)
	}
	if fm, ok := finalModel.(publishFormModel); ok && !fm.canceled {
		return fm.result, nil
	}
	return nil, nil
}
