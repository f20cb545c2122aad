package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"moneytracker/internal/storage"
)

var errNoHistory = errors.New("snapshot history is only kept by the sqlite backend")

type historyCmd struct {
	Limit int `short:"n" default:"20" help:"Number of versions to show."`
}

func (c *historyCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, s *session) error {
		repo, ok := s.backend.Store.(*storage.SQLiteRepository)
		if !ok {
			return errNoHistory
		}
		versions, err := repo.History(ctx, c.Limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSAVED AT\tBYTES")
		for _, v := range versions {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", v.ID, v.SavedAt.Local().Format("2006-01-02 15:04:05"), v.Size)
		}
		return tw.Flush()
	})
}

type restoreCmd struct {
	Version int64 `arg:"" help:"Version id from the history command."`
}

// Run replaces transactions and categories with an earlier version. The
// restore itself is saved as a new version, so it can be undone.
func (c *restoreCmd) Run(g *Globals) error {
	return g.withSession(func(ctx context.Context, s *session) error {
		repo, ok := s.backend.Store.(*storage.SQLiteRepository)
		if !ok {
			return errNoHistory
		}
		snap, err := repo.LoadVersion(ctx, c.Version)
		if err != nil {
			return fmt.Errorf("load version %d: %w", c.Version, err)
		}
		if err := s.store.LoadSnapshot(snap); err != nil {
			return err
		}
		fmt.Printf("Restored version %d (%d transactions)\n", c.Version, len(snap.Transactions))
		return nil
	})
}
