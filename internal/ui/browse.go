package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one row in the browser: a title line and a dimmed description line.
type Item struct {
	TitleText string
	DescText  string
}

var _ list.Item = Item{}

func (i Item) FilterValue() string { return i.TitleText }
func (i Item) Title() string       { return i.TitleText }
func (i Item) Description() string { return i.DescText }

// browseKeyMap defines the [key.Binding] mapping for the browser.
type browseKeyMap struct {
	up   key.Binding
	down key.Binding
	quit key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		quit: key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.up, k.down}, {k.quit}}
}

// browseModel is a single-view bubbletea model over a track listing.
type browseModel struct {
	list list.Model
	help help.Model
	keys browseKeyMap
}

func newBrowseModel(title string, items []Item) browseModel {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return browseModel{list: l, help: help.New(), keys: newBrowseKeyMap()}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		// Don't intercept q while the filter input is active.
		if m.list.FilterState() != list.Filtering && key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	return fmt.Sprintf("%s\n%s", m.list.View(), m.help.View(m.keys))
}

// Browse runs the interactive track browser until the operator quits.
func Browse(title string, items []Item) error {
	program := tea.NewProgram(newBrowseModel(title, items), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
