package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, facade *fakeFacade) Model {
	t.Helper()

	m := NewModel(NewController(facade, models.VocabularyReceita))
	msg := m.Init()()
	updated, cmd := m.Update(msg)
	assert.Nil(t, cmd)
	return updated.(Model)
}

func TestModelRendersList(t *testing.T) {
	m := loadedModel(t, newFakeFacade(sample()...))

	view := m.View()
	assert.Contains(t, view, "Salário")
	assert.Contains(t, view, "Balance 4580.00")
	assert.Contains(t, view, "showing 3 of 3")
}

func TestModelCyclesTypeFilter(t *testing.T) {
	m := loadedModel(t, newFakeFacade(sample()...))

	updated, _ := m.Update(runes("t"))
	m = updated.(Model)
	assert.Equal(t, "Receita", m.ctrl.Filters.Type)
	assert.Contains(t, m.View(), "showing 1 of 3")

	updated, _ = m.Update(runes("t"))
	m = updated.(Model)
	assert.Equal(t, "Despesa", m.ctrl.Filters.Type)

	updated, _ = m.Update(runes("t"))
	m = updated.(Model)
	assert.Empty(t, m.ctrl.Filters.Type)
}

func TestModelFormSubmit(t *testing.T) {
	facade := newFakeFacade()
	m := loadedModel(t, facade)

	updated, _ := m.Update(runes("n"))
	m = updated.(Model)
	require.Equal(t, modeForm, m.mode)

	values := [fieldCount]string{"Receita", "Salário", "5000", "Trabalho", "2024-01-05"}
	for i, v := range values {
		m.inputs[i].SetValue(v)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	// Saved, then reloaded.
	updated, cmd = m.Update(cmd())
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	require.Len(t, facade.created, 1)
	assert.InDelta(t, 5000, *facade.created[0].Amount, 1e-9)
	assert.Equal(t, modeList, m.mode)
	assert.InDelta(t, 5000, m.ctrl.Balance, 1e-9)
}

func TestModelFormRejectsBadAmount(t *testing.T) {
	facade := newFakeFacade()
	m := loadedModel(t, facade)

	updated, _ := m.Update(runes("n"))
	m = updated.(Model)
	m.inputs[fieldAmount].SetValue("abc")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.ctrl.Err, "not a number")
	assert.Empty(t, facade.created)
}
