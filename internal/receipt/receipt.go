// Package receipt turns a photo of a receipt or invoice into a draft
// transaction. It never writes to the ledger; callers decide whether to
// submit the draft.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// MaxImageSize bounds uploaded receipt images.
const MaxImageSize = 10 << 20

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrImageTooLarge    = errors.New("image exceeds 10 MiB")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNoJSON           = errors.New("no JSON object in model response")
	ErrEmptyResponse    = errors.New("empty response from model")
	ErrInvalidAmount    = errors.New("receipt amount is not a number")
	ErrNoCategory       = errors.New("no category available for transaction type")
)

type (
	// Image is an uploaded receipt.
	Image struct {
		Data     []byte
		MIMEType string
		Filename string
	}

	// Candidate is what the model read off the receipt, before any
	// normalization. Amount is kept as text so parsing stays in one place.
	Candidate struct {
		Description       string `json:"description"`
		Amount            string `json:"amount"`
		Vendor            string `json:"vendor,omitempty"`
		Date              string `json:"date"`
		SuggestedCategory string `json:"suggestedCategory"`
	}

	// Scanner reads a receipt image given the category names the result
	// should be classified into.
	Scanner interface {
		Scan(ctx context.Context, img Image, categoryNames []string) (Candidate, error)
	}
)

// Validate checks size and content type.
func (img Image) Validate() error {
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}
	if len(img.Data) > MaxImageSize {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(img.MIMEType)), "image/") {
		return ErrUnsupportedImage
	}
	return nil
}

// UnmarshalJSON accepts the amount as either a JSON number or a string;
// models return both.
func (c *Candidate) UnmarshalJSON(b []byte) error {
	var wire struct {
		Description       string          `json:"description"`
		Amount            json.RawMessage `json:"amount"`
		Vendor            string          `json:"vendor"`
		Date              string          `json:"date"`
		SuggestedCategory string          `json:"suggestedCategory"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*c = Candidate{
		Description:       wire.Description,
		Vendor:            wire.Vendor,
		Date:              wire.Date,
		SuggestedCategory: wire.SuggestedCategory,
	}
	raw := strings.TrimSpace(string(wire.Amount))
	switch {
	case raw == "" || raw == "null":
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		c.Amount = s
	default:
		c.Amount = raw
	}
	return nil
}
