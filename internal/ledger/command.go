package ledger

import "moneytracker/internal/core"

// Command kinds, also used as the change event kind on the wire.
const (
	KindAddTransaction    = "transaction.added"
	KindUpdateTransaction = "transaction.updated"
	KindDeleteTransaction = "transaction.deleted"
	KindSetFilter         = "filter.set"
	KindLoadSnapshot      = "snapshot.loaded"
	KindAddCategory       = "category.added"
)

// Command is a state transition request. The set of implementations is
// closed to this package.
type Command interface {
	Kind() string
	command()
}

type (
	AddTransaction struct {
		Transaction core.Transaction
	}

	UpdateTransaction struct {
		Transaction core.Transaction
	}

	DeleteTransaction struct {
		ID string
	}

	SetFilter struct {
		Patch core.FilterPatch
	}

	LoadSnapshot struct {
		Snapshot core.Snapshot
	}

	AddCategory struct {
		Category core.Category
	}
)

func (AddTransaction) Kind() string    { return KindAddTransaction }
func (UpdateTransaction) Kind() string { return KindUpdateTransaction }
func (DeleteTransaction) Kind() string { return KindDeleteTransaction }
func (SetFilter) Kind() string         { return KindSetFilter }
func (LoadSnapshot) Kind() string      { return KindLoadSnapshot }
func (AddCategory) Kind() string       { return KindAddCategory }

func (AddTransaction) command()    {}
func (UpdateTransaction) command() {}
func (DeleteTransaction) command() {}
func (SetFilter) command()         {}
func (LoadSnapshot) command()      {}
func (AddCategory) command()       {}

// changesData reports whether cmd touches the persisted part of the state.
func changesData(cmd Command) bool {
	_, isFilter := cmd.(SetFilter)
	return !isFilter
}

// transactionID returns the transaction a command is about, if any.
func transactionID(cmd Command) string {
	switch c := cmd.(type) {
	case AddTransaction:
		return c.Transaction.ID
	case UpdateTransaction:
		return c.Transaction.ID
	case DeleteTransaction:
		return c.ID
	}
	return ""
}
