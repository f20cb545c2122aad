package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"moneytracker/internal/core"
)

var (
	ErrNotFound             = errors.New("transaction not found")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrClosed               = errors.New("store closed")
)

const defaultHookTimeout = 10 * time.Second

// Store is the single writer of the ledger state. Mutations are serialized
// and become visible to readers before any hook runs.
type Store struct {
	mu       sync.RWMutex
	state    State
	revision uint64
	subs     []func(State)

	hooks       []Hook
	newID       func() string
	now         func() time.Time
	hookTimeout time.Duration

	qmu    sync.Mutex
	queue  []event
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// event is one unit of work for the background goroutine: a state to
// publish to subscribers, an optional commit for hooks, or a flush barrier.
type event struct {
	state   *State
	commit  *Commit
	barrier chan struct{}
}

type Option func(*Store)

// WithHooks appends post-commit hooks, run in the given order.
func WithHooks(hooks ...Hook) Option {
	return func(s *Store) { s.hooks = append(s.hooks, hooks...) }
}

// WithIDGenerator overrides uuid-based transaction ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithClock overrides time.Now for CreatedAt and commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHookTimeout bounds each hook invocation.
func WithHookTimeout(d time.Duration) Option {
	return func(s *Store) { s.hookTimeout = d }
}

// New creates a store seeded with snap and starts its background goroutine.
// Seeding does not run hooks.
func New(snap core.Snapshot, opts ...Option) *Store {
	s := &Store{
		state:       NewState(snap),
		newID:       uuid.NewString,
		now:         time.Now,
		hookTimeout: defaultHookTimeout,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.loop()
	return s
}

// Dispatch validates cmd against the current state, applies it and
// schedules subscribers and hooks. On error the state is unchanged.
func (s *Store) Dispatch(cmd Command) error {
	_, err := s.dispatch(cmd)
	return err
}

func (s *Store) dispatch(cmd Command) (Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return nil, ErrClosed
	}
	prepared, err := s.prepare(cmd)
	if err != nil {
		return nil, err
	}

	next := Reduce(s.state, prepared)
	s.state = next

	published := next.Clone()
	ev := event{state: &published}
	if changesData(prepared) {
		s.revision++
		ev.commit = &Commit{
			Kind:          prepared.Kind(),
			TransactionID: transactionID(prepared),
			Revision:      s.revision,
			Snapshot:      next.Snapshot(),
			At:            s.now(),
		}
	}
	s.enqueue(ev)
	return prepared, nil
}

// prepare checks cmd against the current state and fills in the fields
// owned by the store. Caller holds s.mu.
func (s *Store) prepare(cmd Command) (Command, error) {
	switch c := cmd.(type) {
	case AddTransaction:
		t := c.Transaction
		t.ID = s.uniqueID()
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now()
		}
		if err := s.checkTransaction(t); err != nil {
			return nil, err
		}
		return AddTransaction{Transaction: t}, nil

	case UpdateTransaction:
		t := c.Transaction
		i := s.state.indexOf(t.ID)
		if i < 0 {
			return nil, fmt.Errorf("update %q: %w", t.ID, ErrNotFound)
		}
		t.CreatedAt = s.state.Transactions[i].CreatedAt
		if err := s.checkTransaction(t); err != nil {
			return nil, err
		}
		return UpdateTransaction{Transaction: t}, nil

	case DeleteTransaction:
		if s.state.indexOf(c.ID) < 0 {
			return nil, fmt.Errorf("delete %q: %w", c.ID, ErrNotFound)
		}
		return c, nil

	case SetFilter:
		if err := s.state.Filter.Merge(c.Patch).Validate(); err != nil {
			return nil, err
		}
		return c, nil

	case LoadSnapshot:
		return c, nil

	case AddCategory:
		if err := c.Category.Validate(); err != nil {
			return nil, err
		}
		if _, ok := core.FindCategory(s.state.Categories, c.Category.ID); ok {
			return nil, fmt.Errorf("add category %q: %w", c.Category.ID, ErrDuplicateCategory)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unsupported command %T", cmd)
}

func (s *Store) checkTransaction(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	cat, ok := core.FindCategory(s.state.Categories, t.Category)
	if !ok {
		return fmt.Errorf("category %q: %w", t.Category, ErrUnknownCategory)
	}
	if cat.Type != t.Type {
		return fmt.Errorf("category %q is %s: %w", cat.ID, cat.Type, ErrCategoryTypeMismatch)
	}
	return nil
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.state.indexOf(id) < 0 {
			return id
		}
	}
}

// AddTransaction stores t under a fresh id and returns the stored record.
func (s *Store) AddTransaction(t core.Transaction) (core.Transaction, error) {
	cmd, err := s.dispatch(AddTransaction{Transaction: t})
	if err != nil {
		return core.Transaction{}, err
	}
	return cmd.(AddTransaction).Transaction, nil
}

// UpdateTransaction replaces the record with t.ID, keeping its position and
// creation time.
func (s *Store) UpdateTransaction(t core.Transaction) (core.Transaction, error) {
	cmd, err := s.dispatch(UpdateTransaction{Transaction: t})
	if err != nil {
		return core.Transaction{}, err
	}
	return cmd.(UpdateTransaction).Transaction, nil
}

func (s *Store) DeleteTransaction(id string) error {
	return s.Dispatch(DeleteTransaction{ID: id})
}

func (s *Store) SetFilter(p core.FilterPatch) error {
	return s.Dispatch(SetFilter{Patch: p})
}

func (s *Store) AddCategory(c core.Category) error {
	return s.Dispatch(AddCategory{Category: c})
}

func (s *Store) LoadSnapshot(snap core.Snapshot) error {
	return s.Dispatch(LoadSnapshot{Snapshot: snap})
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Snapshot returns a deep copy of the persisted part of the state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

func (s *Store) Stats() core.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Stats
}

// Revision counts data-changing commits since New.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Filtered applies the stored filter with the store's clock.
func (s *Store) Filtered() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.ApplyFilter(s.state.Transactions, s.state.Filter, s.now())
}

// Query applies f instead of the stored filter.
func (s *Store) Query(f core.FilterState) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.ApplyFilter(s.state.Transactions, f, s.now())
}

func (s *Store) Recent(n int) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.RecentTransactions(s.state.Transactions, n)
}

// Subscribe registers fn to receive every new state, including filter
// changes. fn runs on the store's goroutine and must not mutate its input.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Flush blocks until every commit dispatched before the call has been
// delivered to subscribers and hooks.
func (s *Store) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	s.qmu.Lock()
	if s.closed {
		s.qmu.Unlock()
		return s.wait(ctx, s.done)
	}
	s.queue = append(s.queue, event{barrier: barrier})
	s.qmu.Unlock()
	s.signal()
	return s.wait(ctx, barrier)
}

// Close rejects further commands and waits for pending hooks to finish.
// Holding mu orders the close after any dispatch in flight, so every
// accepted command is delivered before the loop exits.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.qmu.Lock()
	s.closed = true
	s.qmu.Unlock()
	s.mu.Unlock()
	s.signal()
	return s.wait(ctx, s.done)
}

func (s *Store) wait(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) isClosed() bool {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	return s.closed
}

func (s *Store) enqueue(ev event) {
	s.qmu.Lock()
	s.queue = append(s.queue, ev)
	s.qmu.Unlock()
	s.signal()
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) take() ([]event, bool) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	batch := s.queue
	s.queue = nil
	return batch, s.closed
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		batch, closed := s.take()
		for _, ev := range batch {
			s.deliver(ev)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-s.wake
	}
}

func (s *Store) deliver(ev event) {
	if ev.barrier != nil {
		close(ev.barrier)
		return
	}

	if ev.state != nil {
		s.mu.RLock()
		subs := slices.Clone(s.subs)
		s.mu.RUnlock()
		for _, fn := range subs {
			fn(*ev.state)
		}
	}

	if ev.commit == nil {
		return
	}
	for _, h := range s.hooks {
		ctx, cancel := context.WithTimeout(context.Background(), s.hookTimeout)
		if err := h.AfterCommit(ctx, *ev.commit); err != nil {
			slog.ErrorContext(ctx, "Post-commit hook failed",
				"kind", ev.commit.Kind,
				"revision", ev.commit.Revision,
				"error", err)
		}
		cancel()
	}
}
