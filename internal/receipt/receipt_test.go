package receipt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"moneytracker/internal/core"
)

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Candidate
		wantErr error
	}{
		{
			name: "plain object with numeric amount",
			raw:  `{"description":"Lunch","amount":45000,"vendor":"Warung","date":"2024-01-10","suggestedCategory":"Food & Dining"}`,
			want: Candidate{Description: "Lunch", Amount: "45000", Vendor: "Warung", Date: "2024-01-10", SuggestedCategory: "Food & Dining"},
		},
		{
			name: "fenced with chatter and string amount",
			raw:  "Here you go:\n```json\n{\"description\":\"Taxi\",\"amount\":\"32500\",\"date\":\"\",\"suggestedCategory\":\"Transportation\"}\n```",
			want: Candidate{Description: "Taxi", Amount: "32500", SuggestedCategory: "Transportation"},
		},
		{name: "empty", raw: "  ", wantErr: ErrEmptyResponse},
		{name: "no object", raw: "I cannot read this receipt", wantErr: ErrNoJSON},
		{name: "broken object", raw: "{not json}", wantErr: ErrNoJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCandidate(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt([]string{"Food & Dining", "Transportation"}, testNow)
	if !strings.Contains(p, "Food & Dining, Transportation") {
		t.Error("prompt should list category names")
	}
	if !strings.Contains(p, "2024-01-15") {
		t.Error("prompt should include today's date")
	}
}

func TestNormalize(t *testing.T) {
	cats := core.DefaultCategories()

	tests := []struct {
		name     string
		c        Candidate
		typ      core.TransactionType
		wantDesc string
		wantCat  string
		wantAmt  int64
		wantDate string
		wantErr  error
	}{
		{
			name:     "vendor prefix and case-insensitive category",
			c:        Candidate{Description: "Nasi goreng", Amount: "45000", Vendor: "Warung Bu Tini", Date: "2024-01-10", SuggestedCategory: "food & dining"},
			typ:      core.Expense,
			wantDesc: "Warung Bu Tini - Nasi goreng",
			wantCat:  "food",
			wantAmt:  45000,
			wantDate: "2024-01-10",
		},
		{
			name:     "unknown category falls back to first of type",
			c:        Candidate{Description: "Something", Amount: "1000", SuggestedCategory: "Spaceships"},
			typ:      core.Expense,
			wantDesc: "Something",
			wantCat:  core.CategoriesOfType(cats, core.Expense)[0].ID,
			wantAmt:  1000,
			wantDate: "2024-01-15",
		},
		{
			name:     "category of the wrong type is not matched",
			c:        Candidate{Description: "Refund", Amount: "500", SuggestedCategory: "Food & Dining"},
			typ:      core.Income,
			wantDesc: "Refund",
			wantCat:  core.CategoriesOfType(cats, core.Income)[0].ID,
			wantAmt:  500,
			wantDate: "2024-01-15",
		},
		{
			name:     "vendor only",
			c:        Candidate{Amount: "12,5", Vendor: "Shop"},
			typ:      core.Expense,
			wantDesc: "Shop",
			wantCat:  core.CategoriesOfType(cats, core.Expense)[0].ID,
			wantAmt:  13,
			wantDate: "2024-01-15",
		},
		{
			name:    "unparseable amount is rejected",
			c:       Candidate{Description: "x", Amount: "about ten"},
			typ:     core.Expense,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "invalid type",
			c:       Candidate{Description: "x", Amount: "1"},
			typ:     core.TransactionType("gift"),
			wantErr: core.ErrInvalidType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := Normalize(tt.c, cats, tt.typ, testNow)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", tx.Description, tt.wantDesc)
			}
			if tx.Category != tt.wantCat {
				t.Errorf("category = %q, want %q", tx.Category, tt.wantCat)
			}
			if tx.Amount.Units != tt.wantAmt {
				t.Errorf("amount = %d, want %d", tx.Amount.Units, tt.wantAmt)
			}
			if tx.Date.String() != tt.wantDate {
				t.Errorf("date = %s, want %s", tx.Date, tt.wantDate)
			}
			if tx.Type != tt.typ {
				t.Errorf("type = %s, want %s", tx.Type, tt.typ)
			}
		})
	}
}

func TestNormalizeNoCategoryOfType(t *testing.T) {
	cats := []core.Category{{ID: "food", Name: "Food", Type: core.Expense}}
	_, err := Normalize(Candidate{Description: "x", Amount: "1"}, cats, core.Income, testNow)
	if !errors.Is(err, ErrNoCategory) {
		t.Fatalf("expected ErrNoCategory, got %v", err)
	}
}

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name string
		img  Image
		want error
	}{
		{"ok", Image{Data: []byte{1}, MIMEType: "image/png"}, nil},
		{"empty", Image{MIMEType: "image/png"}, ErrEmptyImage},
		{"pdf", Image{Data: []byte{1}, MIMEType: "application/pdf"}, ErrUnsupportedImage},
		{"too large", Image{Data: make([]byte, MaxImageSize+1), MIMEType: "image/jpeg"}, ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.img.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

type fakeScanner struct {
	mu        sync.Mutex
	calls     atomic.Int32
	candidate Candidate
	err       error
	delay     time.Duration
	names     []string
}

func (f *fakeScanner) Scan(_ context.Context, _ Image, names []string) (Candidate, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.names = names
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.candidate, f.err
}

type staticCategories struct{ snap core.Snapshot }

func (s staticCategories) Snapshot() core.Snapshot { return s.snap }

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Store(_ context.Context, key string, _ Image) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "gs://receipts/" + key, nil
}

func newTestService(sc Scanner, opts ...Option) *Service {
	opts = append(opts, WithClock(func() time.Time { return testNow }))
	return NewService(sc, staticCategories{snap: core.DefaultSnapshot()}, opts...)
}

func TestServiceScan(t *testing.T) {
	ctx := context.Background()
	sc := &fakeScanner{candidate: Candidate{Description: "Coffee", Amount: "25000", Vendor: "Kopi", Date: "2024-01-14", SuggestedCategory: "Food & Dining"}}
	archive := &fakeArchive{}
	svc := newTestService(sc, WithArchive(archive))
	img := Image{Data: []byte("receipt-bytes"), MIMEType: "image/jpeg"}

	res, err := svc.Scan(ctx, img, core.Expense)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Cached {
		t.Error("first scan should not be cached")
	}
	if res.Transaction.Description != "Kopi - Coffee" || res.Transaction.Category != "food" {
		t.Fatalf("unexpected draft: %+v", res.Transaction)
	}
	if res.Transaction.ID != "" {
		t.Error("draft must not carry an id")
	}
	if !strings.HasPrefix(res.Transaction.InvoiceURL, "gs://receipts/") {
		t.Errorf("invoice url not set: %q", res.Transaction.InvoiceURL)
	}
	for _, n := range sc.names {
		if n == "Salary" {
			t.Error("income categories offered for an expense scan")
		}
	}

	res, err = svc.Scan(ctx, img, core.Expense)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if !res.Cached {
		t.Error("second scan should hit the cache")
	}
	if sc.calls.Load() != 1 || len(archive.keys) != 1 {
		t.Fatalf("expected one model call and one upload, got %d and %d", sc.calls.Load(), len(archive.keys))
	}
	if res.Transaction.InvoiceURL == "" {
		t.Error("cached result lost its invoice url")
	}
}

func TestServiceScanErrors(t *testing.T) {
	ctx := context.Background()
	img := Image{Data: []byte("x"), MIMEType: "image/png"}

	t.Run("invalid image never reaches the scanner", func(t *testing.T) {
		sc := &fakeScanner{}
		svc := newTestService(sc)
		_, err := svc.Scan(ctx, Image{Data: []byte("x"), MIMEType: "text/plain"}, core.Expense)
		if !errors.Is(err, ErrUnsupportedImage) || sc.calls.Load() != 0 {
			t.Fatalf("got %v after %d calls", err, sc.calls.Load())
		}
	})

	t.Run("scanner failure is wrapped and not cached", func(t *testing.T) {
		sc := &fakeScanner{err: ErrNoJSON}
		svc := newTestService(sc)
		for i := 0; i < 2; i++ {
			if _, err := svc.Scan(ctx, img, core.Expense); !errors.Is(err, ErrNoJSON) {
				t.Fatalf("expected ErrNoJSON, got %v", err)
			}
		}
		if sc.calls.Load() != 2 {
			t.Fatalf("failures must not be cached, got %d calls", sc.calls.Load())
		}
	})

	t.Run("archive failure keeps the draft", func(t *testing.T) {
		sc := &fakeScanner{candidate: Candidate{Description: "x", Amount: "1"}}
		svc := newTestService(sc, WithArchive(&fakeArchive{err: errors.New("bucket gone")}))
		res, err := svc.Scan(ctx, img, core.Expense)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		if res.Transaction.InvoiceURL != "" {
			t.Fatal("invoice url should be empty when the upload failed")
		}
	})

	t.Run("bad amount", func(t *testing.T) {
		sc := &fakeScanner{candidate: Candidate{Description: "x", Amount: "n/a"}}
		svc := newTestService(sc)
		if _, err := svc.Scan(ctx, img, core.Expense); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestServiceCoalescesConcurrentScans(t *testing.T) {
	sc := &fakeScanner{candidate: Candidate{Description: "x", Amount: "1"}, delay: 100 * time.Millisecond}
	svc := newTestService(sc, WithCacheSize(0, 0))
	img := Image{Data: []byte("same"), MIMEType: "image/png"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Scan(context.Background(), img, core.Expense); err != nil {
				t.Errorf("scan: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := sc.calls.Load(); n >= 5 {
		t.Fatalf("expected concurrent scans to be coalesced, got %d calls", n)
	}
}

func TestExtensionFor(t *testing.T) {
	if extensionFor("image/JPEG") != ".jpg" || extensionFor("image/x-unknown") != "" {
		t.Fatal("unexpected extensions")
	}
}
