package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"ledger/internal/logger"
	"ledger/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printTransactions(out io.Writer, txs []models.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(out, subtleStyle.Render("No transactions found."))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() {
		if err := w.Flush(); err != nil {
			logger.Get().Errorw("failed to flush table writer", "error", err)
		}
	}()

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Date"),
		headerStyle.Render("Type"),
		headerStyle.Render("Name"),
		headerStyle.Render("Category"),
		headerStyle.Render("Amount")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 24),
		strings.Repeat("─", 10),
		strings.Repeat("─", 8),
		strings.Repeat("─", 16),
		strings.Repeat("─", 12),
		strings.Repeat("─", 10)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, tx := range txs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Name, tx.Category, formatAmount(tx.Amount)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func printTransaction(out io.Writer, tx *models.Transaction) error {
	_, err := fmt.Fprintf(out, "ID:       %s\nType:     %s\nName:     %s\nAmount:   %s\nCategory: %s\nDate:     %s\n",
		tx.ID, tx.Type, tx.Name, formatAmount(tx.Amount), tx.Category, tx.Date)
	return err
}
