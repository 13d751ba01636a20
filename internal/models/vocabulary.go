package models

import (
	"fmt"
	"sort"
	"strings"
)

// TypeVocabulary names the two type values that take part in balance
// arithmetic. Any other type value is balance-neutral.
type TypeVocabulary struct {
	Name    string `json:"name"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// Built-in vocabularies.
var (
	VocabularyReceita = TypeVocabulary{Name: "receita", Income: "Receita", Expense: "Despesa"}
	VocabularyEntrada = TypeVocabulary{Name: "entrada", Income: "entrada", Expense: "saida"}
)

var vocabularies = map[string]TypeVocabulary{
	VocabularyReceita.Name: VocabularyReceita,
	VocabularyEntrada.Name: VocabularyEntrada,
}

// LookupVocabulary returns the built-in vocabulary registered under name.
func LookupVocabulary(name string) (TypeVocabulary, error) {
	v, ok := vocabularies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return TypeVocabulary{}, fmt.Errorf("unknown type vocabulary %q: must be one of %v", name, VocabularyNames())
	}
	return v, nil
}

// VocabularyNames lists the built-in vocabulary names in sorted order.
func VocabularyNames() []string {
	names := make([]string, 0, len(vocabularies))
	for name := range vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CustomVocabulary builds a vocabulary from an explicit pair.
func CustomVocabulary(income, expense string) (TypeVocabulary, error) {
	income, expense = strings.TrimSpace(income), strings.TrimSpace(expense)
	if income == "" || expense == "" {
		return TypeVocabulary{}, fmt.Errorf("income and expense types must both be set")
	}
	if strings.EqualFold(income, expense) {
		return TypeVocabulary{}, fmt.Errorf("income and expense types must differ, got %q", income)
	}
	return TypeVocabulary{Name: "custom", Income: income, Expense: expense}, nil
}

// IsIncome reports whether t is the income variant, ignoring case.
func (v TypeVocabulary) IsIncome(t string) bool {
	return strings.EqualFold(t, v.Income)
}

// IsExpense reports whether t is the expense variant, ignoring case.
func (v TypeVocabulary) IsExpense(t string) bool {
	return strings.EqualFold(t, v.Expense)
}

// Variants returns the income and expense values in that order.
func (v TypeVocabulary) Variants() []string {
	return []string{v.Income, v.Expense}
}
