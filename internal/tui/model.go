package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ledger/internal/models"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeFilter
)

// Form field order.
const (
	fieldType = iota
	fieldName
	fieldAmount
	fieldCategory
	fieldDate
	fieldCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// KeyMap defines the keyboard shortcuts.
type KeyMap struct {
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	CycleType key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		New:       key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "category filter")),
		CycleType: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type filter")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Model is the bubbletea program state. All ledger state lives in the
// controller; the model only owns widgets.
type Model struct {
	ctrl   *Controller
	keys   KeyMap
	table  table.Model
	inputs []textinput.Model
	filter textinput.Model
	mode   mode
	focus  int
}

// NewModel creates a model that drives ctrl.
func NewModel(ctrl *Controller) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Name", Width: 24},
			{Title: "Type", Width: 10},
			{Title: "Category", Width: 16},
			{Title: "Amount", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	placeholders := [fieldCount]string{
		fieldType:     ctrl.vocab.Income + " / " + ctrl.vocab.Expense,
		fieldName:     "Name",
		fieldAmount:   "0.00",
		fieldCategory: "Category",
		fieldDate:     "YYYY-MM-DD",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		inputs[i] = in
	}

	filter := textinput.New()
	filter.Placeholder = "Category contains..."
	filter.CharLimit = 64

	return Model{
		ctrl:   ctrl,
		keys:   DefaultKeyMap(),
		table:  t,
		inputs: inputs,
		filter: filter,
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.ctrl.Load()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-14))
		return m, nil

	case LoadedMsg, SavedMsg, DeletedMsg:
		cmd := m.ctrl.Handle(msg)
		if _, ok := msg.(SavedMsg); ok && m.ctrl.Err == "" {
			m.closeForm()
		}
		m.syncRows()
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeFilter:
			return m.updateFilter(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.ctrl.Load()
	case key.Matches(msg, m.keys.New):
		m.ctrl.CancelEdit()
		cmd := m.openForm()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		if tx, ok := m.selected(); ok {
			m.ctrl.BeginEdit(tx)
			cmd := m.openForm()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if tx, ok := m.selected(); ok {
			return m, m.ctrl.Delete(tx.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.filter.SetValue(m.ctrl.Filters.Category)
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.CycleType):
		m.ctrl.SetFilters(Filters{Category: m.ctrl.Filters.Category, Type: m.nextType()})
		m.syncRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if err := m.readForm(); err != nil {
			m.ctrl.Err = err.Error()
			return m, nil
		}
		cmd := m.ctrl.Save()
		return m, cmd
	case key.Matches(msg, m.keys.NextField):
		cmd := m.focusField((m.focus + 1) % fieldCount)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusField((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Submit):
		m.mode = modeList
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.ctrl.SetFilters(Filters{Category: m.filter.Value(), Type: m.ctrl.Filters.Type})
	m.syncRows()
	return m, cmd
}

func (m *Model) openForm() tea.Cmd {
	f := m.ctrl.Form
	values := [fieldCount]string{
		fieldType:     f.Type,
		fieldName:     f.Name,
		fieldCategory: f.Category,
		fieldDate:     f.Date,
	}
	if m.ctrl.EditingID != "" {
		values[fieldAmount] = strconv.FormatFloat(f.Amount, 'f', -1, 64)
	}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	m.mode = modeForm
	m.table.Blur()
	return m.focusField(fieldType)
}

func (m *Model) closeForm() {
	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
	m.table.Focus()
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) readForm() error {
	amount := 0.0
	if raw := strings.TrimSpace(m.inputs[fieldAmount].Value()); raw != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", raw)
		}
		amount = v
	}
	m.ctrl.Form = Form{
		Type:     strings.TrimSpace(m.inputs[fieldType].Value()),
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Amount:   amount,
		Category: strings.TrimSpace(m.inputs[fieldCategory].Value()),
		Date:     strings.TrimSpace(m.inputs[fieldDate].Value()),
	}
	return nil
}

// nextType cycles the type filter through none, income and expense.
func (m Model) nextType() string {
	switch m.ctrl.Filters.Type {
	case "":
		return m.ctrl.vocab.Income
	case m.ctrl.vocab.Income:
		return m.ctrl.vocab.Expense
	default:
		return ""
	}
}

func (m Model) selected() (models.Transaction, bool) {
	txs := m.ctrl.Transactions()
	i := m.table.Cursor()
	if i < 0 || i >= len(txs) {
		return models.Transaction{}, false
	}
	return txs[i], true
}

func (m *Model) syncRows() {
	txs := m.ctrl.Transactions()
	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			tx.Date,
			tx.Name,
			tx.Type,
			tx.Category,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ledger"))
	b.WriteString("  ")
	b.WriteString(m.renderBalance())
	if m.ctrl.Loading {
		b.WriteString(mutedStyle.Render("  loading..."))
	}
	if m.ctrl.Saving {
		b.WriteString(mutedStyle.Render("  saving..."))
	}
	b.WriteString("\n")

	if m.ctrl.Err != "" {
		b.WriteString(errorStyle.Render("Error: " + m.ctrl.Err))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFilters())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
	case modeFilter:
		b.WriteString(panelStyle.Render("Filter " + m.filter.View()))
	default:
		b.WriteString(mutedStyle.Render("n new • e edit • d delete • / category • t type • r reload • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBalance() string {
	text := "Balance " + strconv.FormatFloat(m.ctrl.Balance, 'f', 2, 64)
	if m.ctrl.Balance < 0 {
		return expenseStyle.Render(text)
	}
	return incomeStyle.Render(text)
}

func (m Model) renderFilters() string {
	category, typ := m.ctrl.Filters.Category, m.ctrl.Filters.Type
	if category == "" {
		category = "any"
	}
	if typ == "" {
		typ = "any"
	}
	return mutedStyle.Render(fmt.Sprintf("category: %s  type: %s  showing %d of %d",
		category, typ, len(m.ctrl.Transactions()), len(m.ctrl.All())))
}

func (m Model) renderForm() string {
	labels := [fieldCount]string{"Type", "Name", "Amount", "Category", "Date"}
	title := "New transaction"
	if m.ctrl.EditingID != "" {
		title = "Edit " + m.ctrl.EditingID
	}

	lines := []string{titleStyle.Render(title)}
	for i, in := range m.inputs {
		lines = append(lines, fmt.Sprintf("%-9s %s", labels[i], in.View()))
	}
	lines = append(lines, mutedStyle.Render("tab next • enter save • esc cancel"))
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Run starts the interactive program and blocks until it exits.
func Run(ctrl *Controller) error {
	_, err := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen()).Run()
	return err
}
