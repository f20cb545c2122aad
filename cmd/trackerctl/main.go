// Command trackerctl edits and inspects the persisted ledger from a terminal.
package main

import (
	"github.com/alecthomas/kong"

	"moneytracker/internal/cli"
)

var app struct {
	Globals `embed:""`

	List       listCmd       `cmd:"" help:"List transactions, newest first."`
	Add        addCmd        `cmd:"" help:"Record a transaction."`
	Delete     deleteCmd     `cmd:"" help:"Delete a transaction by id."`
	Stats      statsCmd      `cmd:"" help:"Show totals and the expense breakdown."`
	Categories categoriesCmd `cmd:"" help:"List categories."`
	Scan       scanCmd       `cmd:"" help:"Scan a receipt image and optionally record it."`
	ExportPDF  exportPDFCmd  `cmd:"" name:"export-pdf" help:"Write a PDF statement."`
	History    historyCmd    `cmd:"" help:"List saved snapshot versions (sqlite only)."`
	Restore    restoreCmd    `cmd:"" help:"Restore a saved snapshot version (sqlite only)."`
}

func main() {
	cli.LoadEnvFile()
	ctx := kong.Parse(&app,
		kong.Name("trackerctl"),
		kong.Description("Inspect and edit the money tracker ledger."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&app.Globals)
	ctx.FatalIfErrorf(err)
}
