package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"moneytracker/internal/core"
	"moneytracker/internal/receipt"
)

type scanCmd struct {
	Image  string `arg:"" type:"existingfile" help:"Receipt photo (JPEG, PNG, WEBP or HEIC)."`
	Type   string `short:"t" default:"expense" enum:"income,expense" help:"Transaction type of the draft."`
	Save   bool   `help:"Record the draft in the ledger instead of only printing it."`
	APIKey string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key."`
	Model  string `env:"GEMINI_MODEL" default:"gemini-2.5-flash" help:"Gemini model."`
}

func (c *scanCmd) Run(g *Globals) error {
	if c.APIKey == "" {
		return errors.New("a Gemini API key is required (--api-key or GEMINI_API_KEY)")
	}
	data, err := os.ReadFile(c.Image)
	if err != nil {
		return err
	}
	img := receipt.Image{
		Data:     data,
		MIMEType: http.DetectContentType(data),
		Filename: filepath.Base(c.Image),
	}

	return g.withSession(func(ctx context.Context, s *session) error {
		gemini, err := receipt.NewGeminiScanner(ctx, c.APIKey, c.Model)
		if err != nil {
			return err
		}
		res, err := receipt.NewService(gemini, s.store).Scan(ctx, img, core.TransactionType(c.Type))
		if err != nil {
			return fmt.Errorf("scan %s: %w", c.Image, err)
		}

		draft := res.Transaction
		fmt.Printf("Date:        %s\n", draft.Date)
		fmt.Printf("Amount:      %s\n", draft.Amount.Format())
		fmt.Printf("Category:    %s\n", draft.Category)
		fmt.Printf("Description: %s\n", draft.Description)
		if !c.Save {
			return nil
		}
		stored, err := s.store.AddTransaction(draft)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", stored.ID)
		return nil
	})
}
