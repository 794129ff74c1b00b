// Package tui is a terminal front end over a session.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"eatsplit/internal/core"
	"eatsplit/internal/session"
)

const (
	fieldFirst = iota
	fieldSecond
)

// Model is the Bubble Tea model. It owns the text buffers for the field
// being typed and pushes every edit into the session.
type Model struct {
	ctx     context.Context
	session *session.Session
	logger  *slog.Logger

	view   session.View
	cursor int
	field  int

	bill    string
	expense string

	err      error
	quitting bool
}

func New(ctx context.Context, sess *session.Session, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{ctx: ctx, session: sess, logger: logger}
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, sess *session.Session, logger *slog.Logger) error {
	p := tea.NewProgram(New(ctx, sess, logger), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	// A failure stays on screen until the next key is handled.
	m.err = nil

	switch m.view.Mode {
	case session.AddingFriend:
		m.updateAddForm(key)
	case session.FriendSelected:
		if m.updateSplitForm(key) {
			m.quitting = true
			return m, tea.Quit
		}
	default:
		if m.updateList(key) {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// updateList handles keys while no form is open and reports whether to quit.
func (m *Model) updateList(key tea.KeyMsg) bool {
	switch key.String() {
	case "q":
		return true
	case "up", "k", "down", "j":
		m.moveCursor(key.String())
	case "a":
		m.session.ToggleAddFriend(m.ctx)
		m.field = fieldFirst
		m.refresh()
	case "enter", " ":
		m.selectAtCursor()
	}
	return false
}

func (m *Model) updateAddForm(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEsc:
		m.session.CloseAddFriend(m.ctx)
	case tea.KeyTab, tea.KeyShiftTab:
		m.field = 1 - m.field
	case tea.KeyEnter:
		outcome, err := m.session.SubmitFriend(m.ctx)
		m.record(err)
		if outcome == session.Applied {
			m.cursor = len(m.view.Friends)
		}
	case tea.KeyBackspace:
		m.setAddField(dropLast(m.addField()))
	case tea.KeyRunes, tea.KeySpace:
		m.setAddField(m.addField() + string(key.Runes))
	}
	m.refresh()
}

func (m *Model) addField() string {
	if m.field == fieldFirst {
		return m.view.AddForm.Name
	}
	return m.view.AddForm.Image
}

func (m *Model) setAddField(v string) {
	if m.field == fieldFirst {
		m.session.SetFriendName(v)
	} else {
		m.session.SetFriendImage(v)
	}
}

// updateSplitForm handles keys while a friend is selected and reports
// whether to quit. Only digits and a decimal point reach the amount fields.
func (m *Model) updateSplitForm(key tea.KeyMsg) bool {
	switch key.String() {
	case "q":
		return true
	case "esc":
		m.session.CancelSplit(m.ctx)
	case "up", "k", "down", "j":
		m.moveCursor(key.String())
		return false
	case "a":
		m.session.OpenAddFriend(m.ctx)
		m.field = fieldFirst
	case "tab", "shift+tab":
		m.field = 1 - m.field
		return false
	case "p":
		m.session.TogglePayer()
	case "enter":
		_, err := m.session.SubmitSplit(m.ctx)
		m.record(err)
	case "backspace":
		m.editAmount(dropLast(m.amountField()))
	default:
		if s := key.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.") {
			m.editAmount(m.amountField() + s)
		}
	}
	m.refresh()
	return false
}

func (m *Model) amountField() string {
	if m.field == fieldFirst {
		return m.bill
	}
	return m.expense
}

// editAmount pushes a field edit into the session. An edit the session
// refuses (unparseable bill, expense over the bill) leaves the buffer as it was.
func (m *Model) editAmount(v string) {
	if v == "." {
		v = "0."
	}
	if m.field == fieldFirst {
		if m.session.SetBillTotal(v) {
			m.bill = v
		}
		return
	}
	if m.session.SetUserExpense(v) {
		m.expense = v
	}
}

func (m *Model) moveCursor(dir string) {
	switch dir {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Friends)-1 {
			m.cursor++
		}
	}
}

func (m *Model) selectAtCursor() {
	if m.cursor >= len(m.view.Friends) {
		return
	}
	_, err := m.session.Select(m.ctx, m.view.Friends[m.cursor].ID)
	m.record(err)
	m.field = fieldFirst
	m.refresh()
}

// refresh re-reads the session. Entering or leaving the split form resets
// the amount buffers to what the session holds.
func (m *Model) refresh() {
	prev := m.view
	v, err := m.session.Snapshot(m.ctx)
	if err != nil {
		m.record(err)
		return
	}
	m.view = v

	if v.Selected == nil || prev.Selected == nil || prev.Selected.ID != v.Selected.ID {
		m.bill = v.Split.BillTotal
		m.expense = v.Split.UserExpense
	}
	if m.cursor >= len(v.Friends) {
		m.cursor = max(len(v.Friends)-1, 0)
	}
}

func (m *Model) record(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.logger.ErrorContext(m.ctx, "Session event failed", "error", err)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("Eat-'N-Split\n\n")

	if len(m.view.Friends) == 0 {
		b.WriteString("  no friends yet\n")
	}
	for i, f := range m.view.Friends {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		mark := "[ ]"
		if f.Selected {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %-12s %s\n", pointer, mark, f.Name, f.Status)
	}
	b.WriteString("\n")

	switch {
	case m.view.Adding():
		b.WriteString("Add friend\n")
		fmt.Fprintf(&b, "  Name:  %s\n", m.withCaret(fieldFirst, m.view.AddForm.Name))
		fmt.Fprintf(&b, "  Image: %s\n", m.withCaret(fieldSecond, m.view.AddForm.Image))
		b.WriteString("\n[tab] next field  [enter] add  [esc] close\n")
	case m.view.Splitting():
		s := m.view.Split
		payer := "You"
		if s.Payer == core.PayerFriend {
			payer = s.FriendName
		}
		fmt.Fprintf(&b, "Split a bill with %s\n", s.FriendName)
		fmt.Fprintf(&b, "  Bill value:     %s\n", m.withCaret(fieldFirst, m.bill))
		fmt.Fprintf(&b, "  Your expense:   %s\n", m.withCaret(fieldSecond, m.expense))
		fmt.Fprintf(&b, "  %s's expense: %s\n", s.FriendName, s.FriendExpense)
		fmt.Fprintf(&b, "  Paid by:        %s\n", payer)
		b.WriteString("\n[tab] next field  [p] toggle payer  [enter] split bill  [esc] cancel\n")
	default:
		b.WriteString("[↑/↓] move  [enter] select  [a] add friend  [q] quit\n")
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\nerror: %v\n", m.err)
	}
	return b.String()
}

func (m *Model) withCaret(field int, v string) string {
	if m.field == field {
		return v + "_"
	}
	return v
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
