package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressReader wraps an io.Reader and reports bytes read through a channel.
type ProgressReader struct {
	reader     io.Reader
	total      int64
	read       int64
	updates    chan int64
	lastReport int64
}

// NewProgressReader creates a reader that reports download progress.
// total may be -1 when the gateway does not send a Content-Length.
func NewProgressReader(r io.Reader, total int64, updates chan int64) *ProgressReader {
	return &ProgressReader{
		reader:  r,
		total:   total,
		updates: updates,
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)

	if pr.updates != nil && n > 0 {
		// Report at most once per MB so a large download doesn't
		// flood the UI with messages.
		const updateInterval = 1024 * 1024
		sinceLast := pr.read - pr.lastReport
		complete := err == io.EOF || (pr.total > 0 && pr.read >= pr.total)

		if sinceLast >= updateInterval || complete {
			select {
			case pr.updates <- pr.read:
				pr.lastReport = pr.read
			default:
				// Channel full, skip this update
			}
		}
	}
	return n, err
}

type downloadMsg int64

type downloadTickMsg time.Time

type downloadModel struct {
	bar       progress.Model
	total     int64
	current   int64
	label     string
	done      bool
	cancelled bool
	updates   <-chan int64
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(downloadTick(), waitForBytes(m.updates))
}

func downloadTick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return downloadTickMsg(t)
	})
}

func waitForBytes(ch <-chan int64) tea.Cmd {
	return func() tea.Msg {
		// Blocks until the reader reports; the tick keeps the UI alive.
		n, ok := <-ch
		if !ok {
			return downloadMsg(-1)
		}
		return downloadMsg(n)
	}
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case downloadTickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, downloadTick()

	case downloadMsg:
		if int64(msg) == -1 {
			// Channel closed, download finished.
			m.done = true
			return m, tea.Quit
		}
		m.current = int64(msg)
		if m.total > 0 && m.current >= m.total {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForBytes(m.updates)

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 20
		if m.bar.Width > 80 {
			m.bar.Width = 80
		}
		return m, nil
	}

	return m, nil
}

func (m downloadModel) View() string {
	if m.done {
		return ""
	}

	currentMB := float64(m.current) / 1024 / 1024

	if m.total <= 0 {
		// Unknown size: no bar, just a byte counter.
		return fmt.Sprintf("%s\n%.2f MB downloaded\n", m.label, currentMB)
	}

	percent := float64(m.current) / float64(m.total)
	totalMB := float64(m.total) / 1024 / 1024

	return fmt.Sprintf(
		"%s\n%s\n%.2f MB / %.2f MB (%.0f%%)\n",
		m.label,
		m.bar.ViewAs(percent),
		currentMB,
		totalMB,
		percent*100,
	)
}

// ShowProgress displays a progress bar while a download runs. The download
// should wrap its reader with a ProgressReader sharing the same channel.
// Returns an error if the user cancels with Ctrl+C.
func ShowProgress(label string, total int64, updates <-chan int64) error {
	m := downloadModel{
		bar:     progress.New(progress.WithDefaultGradient()),
		total:   total,
		label:   label,
		updates: updates,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(downloadModel); ok && fm.cancelled {
		return fmt.Errorf("cancelled by user")
	}

	return nil
}
