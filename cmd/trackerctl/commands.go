package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"moneytracker/internal/core"
	"moneytracker/internal/report"
)

type FilterFlags struct {
	Type     string `default:"all" enum:"all,income,expense" help:"Transaction type."`
	Category string `default:"all" help:"Category id."`
	Range    string `default:"all" enum:"all,today,week,month,year" help:"Date range."`
	Search   string `short:"q" help:"Case-insensitive description search."`
}

func (f FilterFlags) state() core.FilterState {
	return core.FilterState{
		Type:       core.TypeFilter(f.Type),
		Category:   f.Category,
		DateRange:  core.DateRange(f.Range),
		SearchTerm: f.Search,
	}
}

type listCmd struct {
	FilterFlags `embed:""`
	Limit int `short:"n" default:"0" help:"Show at most this many rows (0 for all)."`
}

func (c *listCmd) Run(g *Globals) error {
	return g.withSession(func(_ context.Context, s *session) error {
		snap := s.store.Snapshot()
		txs := s.store.Query(c.state())
		n := len(txs)
		if c.Limit > 0 && c.Limit < n {
			n = c.Limit
		}
		return printTransactions(os.Stdout, core.RecentTransactions(txs, n), snap.Categories)
	})
}

type addCmd struct {
	Amount      string `arg:"" help:"Amount in whole units, e.g. 50000 or 12.500,50."`
	Description string `arg:"" help:"What the transaction was for."`
	Category    string `short:"c" required:"" help:"Category id."`
	Type        string `short:"t" default:"expense" enum:"income,expense" help:"Transaction type."`
	Date        string `short:"d" help:"Date as YYYY-MM-DD (default today)."`
	Vendor      string `help:"Vendor or merchant."`
}

func (c *addCmd) Run(g *Globals) error {
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", c.Amount, err)
	}
	date := core.DateOf(time.Now())
	if c.Date != "" {
		if date, err = core.ParseDate(c.Date); err != nil {
			return fmt.Errorf("date %q: %w", c.Date, err)
		}
	}
	return g.withSession(func(_ context.Context, s *session) error {
		stored, err := s.store.AddTransaction(core.Transaction{
			Amount:      amount,
			Description: strings.TrimSpace(c.Description),
			Category:    c.Category,
			Type:        core.TransactionType(c.Type),
			Date:        date,
			Vendor:      strings.TrimSpace(c.Vendor),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", stored.ID, stored.Amount.Format())
		return nil
	})
}

type deleteCmd struct {
	ID string `arg:"" help:"Transaction id."`
}

func (c *deleteCmd) Run(g *Globals) error {
	return g.withSession(func(_ context.Context, s *session) error {
		if err := s.store.DeleteTransaction(c.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", c.ID)
		return nil
	})
}

type statsCmd struct {
	FilterFlags `embed:""`
}

func (c *statsCmd) Run(g *Globals) error {
	return g.withSession(func(_ context.Context, s *session) error {
		snap := s.store.Snapshot()
		selected := s.store.Query(c.state())
		st := core.ComputeStats(selected)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Income\t%s\n", st.TotalIncome.Format())
		fmt.Fprintf(tw, "Expenses\t%s\n", st.TotalExpenses.Format())
		fmt.Fprintf(tw, "Balance\t%s\n", st.Balance.Format())
		fmt.Fprintf(tw, "Transactions\t%d\n", st.TransactionCount)
		if breakdown := core.BreakdownByCategory(selected, snap.Categories, core.Expense); len(breakdown) > 0 {
			fmt.Fprintln(tw, "\nExpenses by category\t")
			for _, b := range breakdown {
				fmt.Fprintf(tw, "  %s\t%s\n", b.Name, b.Amount.Format())
			}
		}
		return tw.Flush()
	})
}

type categoriesCmd struct {
	Type string `short:"t" enum:"all,income,expense" default:"all" help:"Only categories of this type."`
}

func (c *categoriesCmd) Run(g *Globals) error {
	return g.withSession(func(_ context.Context, s *session) error {
		cats := s.store.State().Categories
		if c.Type != "all" {
			cats = core.CategoriesOfType(cats, core.TransactionType(c.Type))
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE")
		for _, cat := range cats {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", cat.ID, cat.Name, cat.Type)
		}
		return tw.Flush()
	})
}

type exportPDFCmd struct {
	FilterFlags `embed:""`
	Out string `short:"o" help:"Output file (default statement-<range>-<date>.pdf)."`
}

func (c *exportPDFCmd) Run(g *Globals) error {
	return g.withSession(func(_ context.Context, s *session) error {
		f := c.state()
		if err := f.Validate(); err != nil {
			return err
		}
		st := report.NewStatement(s.store.Snapshot(), f, time.Now())
		body, err := report.BuildStatementPDF(st)
		if err != nil {
			return err
		}
		out := c.Out
		if out == "" {
			out = st.Filename()
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d transactions)\n", out, len(st.Transactions))
		return nil
	})
}

func printTransactions(w io.Writer, txs []core.Transaction, cats []core.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tID")
	for _, t := range txs {
		name := t.Category
		if cat, ok := core.FindCategory(cats, t.Category); ok {
			name = cat.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.Date, t.Type, name, t.Amount.Format(), t.Description, t.ID)
	}
	return tw.Flush()
}
