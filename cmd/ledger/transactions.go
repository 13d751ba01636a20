package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/models"
	"ledger/internal/tui"
)

func (a *app) listCmd() *cobra.Command {
	var filters tui.Filters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions and the running balance",
		Long: `List every transaction. --category keeps transactions whose category
contains the given text, ignoring case. --type keeps transactions whose type is
exactly the given value. The balance always covers the full list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, err := a.vocabulary()
			if err != nil {
				return err
			}

			c := tui.NewController(a.client(), vocab)
			c.SetFilters(filters)
			tui.Drive(c, c.Load())
			if c.Err != "" {
				return errors.New(c.Err)
			}

			out := cmd.OutOrStdout()
			if err := printTransactions(out, c.Transactions()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%s %s\n", headerStyle.Render("Balance:"), formatAmount(c.Balance))
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Category, "category", "", "keep categories containing this text")
	cmd.Flags().StringVar(&filters.Type, "type", "", "keep this exact type")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTransaction(cmd.OutOrStdout(), tx)
		},
	}
}

// fieldFlags registers one flag per transaction field.
func fieldFlags(cmd *cobra.Command, f *tui.Form) {
	cmd.Flags().StringVar(&f.Type, "type", "", "transaction type")
	cmd.Flags().StringVar(&f.Name, "name", "", "transaction name")
	cmd.Flags().Float64Var(&f.Amount, "amount", 0, "amount (non-negative)")
	cmd.Flags().StringVar(&f.Category, "category", "", "category")
	cmd.Flags().StringVar(&f.Date, "date", "", "date, YYYY-MM-DD")
}

func (a *app) addCmd() *cobra.Command {
	var form tui.Form

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Example: `  ledger add --type Receita --name Salário --amount 5000 --category Trabalho
  ledger add --type Despesa --name Mercado --amount 312.40 --category Alimentação --date 2024-01-06`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Date == "" {
				form.Date = time.Now().Format(time.DateOnly)
			}
			amount := form.Amount
			tx, err := a.client().Create(cmd.Context(), models.TransactionFields{
				Type:     &form.Type,
				Name:     &form.Name,
				Amount:   &amount,
				Category: &form.Category,
				Date:     &form.Date,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Created "+tx.ID))
			return err
		},
	}

	fieldFlags(cmd, &form)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var form tui.Form

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long:  "Only the fields given as flags are changed; the rest keep their stored values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields models.TransactionFields
			flags := cmd.Flags()
			if flags.Changed("type") {
				fields.Type = &form.Type
			}
			if flags.Changed("name") {
				fields.Name = &form.Name
			}
			if flags.Changed("amount") {
				fields.Amount = &form.Amount
			}
			if flags.Changed("category") {
				fields.Category = &form.Category
			}
			if flags.Changed("date") {
				fields.Date = &form.Date
			}
			if fields.IsEmpty() {
				return errors.New("nothing to change: pass at least one of --type, --name, --amount, --category, --date")
			}

			tx, err := a.client().Update(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return printTransaction(cmd.OutOrStdout(), tx)
		},
	}

	fieldFlags(cmd, &form)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Deleted "+args[0]))
			return err
		},
	}
}

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the balance computed by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balance, err := a.client().Balance(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatAmount(balance))
			return err
		},
	}
}

func (a *app) categoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <name>",
		Short: "List transactions in exactly this category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := a.client().ListByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), txs)
		},
	}
}

func (a *app) typeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <variant>",
		Short: "List transactions from the server's type route",
		Long:  "Only the income and expense values of the server's vocabulary have a route.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := a.client().ListByType(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), txs)
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			vocab, err := a.vocabulary()
			if err != nil {
				return err
			}
			return tui.Run(tui.NewController(a.client(), vocab))
		},
	}
}
