// Package tui is a terminal front end for the cart. It drives the same
// CartView as the web page, one key press at a time.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Delete, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit quantity")),
	Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type mode int

const (
	browsing mode = iota
	editing
	confirming
)

// loadedMsg carries the result of a cart fetch
type loadedMsg struct {
	vm  service.CartViewModel
	err error
}

// Model is the Bubble Tea model of the cart screen
type Model struct {
	ctx  context.Context
	view *service.CartView

	vm      service.CartViewModel
	loading bool
	loadErr string

	cursor int
	mode   mode
	input  textinput.Model
	prompt string

	status    string
	statusErr bool

	help help.Model
}

// New creates a cart screen over view. The first fetch starts from Init.
func New(ctx context.Context, view *service.CartView) Model {
	ti := textinput.New()
	ti.Prompt = "Quantity: "
	ti.CharLimit = 9

	return Model{
		ctx:     ctx,
		view:    view,
		loading: true,
		input:   ti,
		help:    help.New(),
	}
}

func (m Model) load() tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		vm, err := view.Reload(ctx)
		return loadedMsg{vm: vm, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = service.MsgCartLoadFailed
			return m, nil
		}
		m.loadErr = ""
		m.setCart(msg.vm)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case editing:
			return m.updateEditing(msg)
		case confirming:
			return m.updateConfirming(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case m.loading:
		return m, nil
	case key.Matches(msg, keys.Reload):
		m.loading = true
		m.status = ""
		return m, m.load()
	}

	if len(m.vm.Rows) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.vm.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Edit):
		m.mode = editing
		m.input.SetValue(fmt.Sprint(m.vm.Rows[m.cursor].Quantity))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, keys.Delete):
		m.mode = confirming
		m.prompt = m.view.RemovalPrompt(m.cursor)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case "enter":
		m.mode = browsing
		m.input.Blur()

		change, err := m.view.ChangeQuantity(m.ctx, m.cursor, m.input.Value())
		switch {
		case change.Outcome == service.QuantityReverted:
			m.notify(change.Notification)
		case err != nil:
			m.status, m.statusErr = err.Error(), true
		default:
			m.status, m.statusErr = fmt.Sprintf("%s × %d", change.Row.Title, change.Row.Quantity), false
		}
		if vm, ok := m.view.Current(); ok {
			m.setCart(vm)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch strings.ToLower(msg.String()) {
	case "y":
		answer = true
	case "n", "esc":
		answer = false
	default:
		return m, nil
	}

	m.mode = browsing
	m.prompt = ""
	title := m.vm.Rows[m.cursor].Title
	vm, removed := m.view.Remove(m.ctx, m.cursor, service.ConfirmFunc(func(string) bool { return answer }))
	m.setCart(vm)
	if removed {
		m.status, m.statusErr = fmt.Sprintf("Removed %s", title), false
	}
	return m, nil
}

func (m *Model) setCart(vm service.CartViewModel) {
	m.vm = vm
	if m.cursor >= len(vm.Rows) {
		m.cursor = len(vm.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) notify(n *domain.Notification) {
	if n == nil {
		return
	}
	m.status = n.Message
	m.statusErr = n.Kind == domain.NotificationError
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Cart"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("Loading…"))
	case m.loadErr != "":
		b.WriteString(errorStyle.Render(m.loadErr))
	case len(m.vm.Rows) == 0:
		b.WriteString(mutedStyle.Render("The cart is empty."))
	default:
		for i, row := range m.vm.Rows {
			line := fmt.Sprintf("%-24s %12s  × %-4d %14s", row.Title, row.UnitPrice, row.Quantity, row.LineSubtotal)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if !m.loading && m.loadErr == "" {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %s\n", accentStyle.Render("Subtotal:"), m.vm.Summary.Subtotal))
		b.WriteString(fmt.Sprintf("%s %s\n", accentStyle.Render("Total:   "), m.vm.Summary.Total))
	}

	switch m.mode {
	case editing:
		b.WriteString("\n" + m.input.View() + "\n")
	case confirming:
		b.WriteString("\n" + m.prompt + " (y/n)\n")
	}

	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(keys))
	return panelStyle.Render(b.String())
}
