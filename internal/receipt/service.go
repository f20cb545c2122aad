package receipt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"moneytracker/internal/cache"
	"moneytracker/internal/core"
)

// CategorySource provides the current category registry.
type CategorySource interface {
	Snapshot() core.Snapshot
}

// Result is a normalized draft plus what the model actually returned.
type Result struct {
	Transaction core.Transaction `json:"transaction"`
	Candidate   Candidate        `json:"candidate"`
	Cached      bool             `json:"cached"`
}

type scan struct {
	candidate  Candidate
	invoiceURL string
}

// Service validates images, coalesces duplicate scans and caches results by
// image digest.
type Service struct {
	scanner    Scanner
	categories CategorySource
	archive    Archive
	cache      *cache.LRUCache[scan]
	group      singleflight.Group
	now        func() time.Time
}

type Option func(*Service)

// WithArchive uploads each freshly scanned image and sets InvoiceURL.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithCacheSize replaces the result cache. A size of zero disables caching.
func WithCacheSize(size int, ttl time.Duration) Option {
	return func(s *Service) { s.cache = cache.NewLRUCache[scan](size, ttl) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(scanner Scanner, categories CategorySource, opts ...Option) *Service {
	s := &Service{
		scanner:    scanner,
		categories: categories,
		cache:      cache.NewLRUCache[scan](64, time.Hour),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache exposes the result cache so it can be registered with a cleanup
// manager.
func (s *Service) Cache() cache.Cleaner {
	return s.cache
}

// Scan reads img and returns a transaction draft of type t.
func (s *Service) Scan(ctx context.Context, img Image, t core.TransactionType) (Result, error) {
	if err := img.Validate(); err != nil {
		return Result{}, err
	}
	if !t.IsValid() {
		return Result{}, core.ErrInvalidType
	}

	categories := s.categories.Snapshot().Categories
	ofType := core.CategoriesOfType(categories, t)
	if len(ofType) == 0 {
		return Result{}, ErrNoCategory
	}

	sum := sha256.Sum256(img.Data)
	digest := hex.EncodeToString(sum[:])
	key := digest + ":" + string(t)

	cached := false
	var res scan
	if s.cache != nil {
		res, cached = s.cache.Get(key)
	}
	if !cached {
		v, err, shared := s.group.Do(key, func() (any, error) {
			return s.scanFresh(ctx, img, digest, core.CategoryNames(ofType))
		})
		if err != nil {
			return Result{}, err
		}
		res = v.(scan)
		if shared {
			slog.DebugContext(ctx, "Receipt scan shared with concurrent request", "digest", digest)
		}
		if s.cache != nil {
			s.cache.Set(key, res)
		}
	}

	tx, err := Normalize(res.candidate, categories, t, s.now())
	if err != nil {
		return Result{}, err
	}
	tx.InvoiceURL = res.invoiceURL

	slog.InfoContext(ctx, "Receipt scanned",
		"digest", digest[:12],
		"cached", cached,
		"category", tx.Category,
		"amount", tx.Amount.Units)

	return Result{Transaction: tx, Candidate: res.candidate, Cached: cached}, nil
}

func (s *Service) scanFresh(ctx context.Context, img Image, digest string, names []string) (scan, error) {
	c, err := s.scanner.Scan(ctx, img, names)
	if err != nil {
		return scan{}, fmt.Errorf("scan receipt: %w", err)
	}
	res := scan{candidate: c}
	if s.archive != nil {
		url, err := s.archive.Store(ctx, digest, img)
		if err != nil {
			// The draft is still useful without the archived copy.
			slog.WarnContext(ctx, "Failed to archive receipt image", "digest", digest, "error", err)
		} else {
			res.invoiceURL = url
		}
	}
	return res, nil
}
