// Package filter evaluates expr-language expressions against loan and
// reservation rows, for the CLI's --filter flag.
package filter

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/larsmn/bibtrack/library"
)

// Item is the flat row a filter expression sees. Optional fields come with
// a Has* flag instead of a pointer so expressions stay nil-safe.
type Item struct {
	Kind     string
	Title    string
	Creators string
	Type     string

	Renewable    bool
	PickupBranch string

	HasDueDate bool
	DueDate    time.Time

	HasCreated bool
	Created    time.Time

	HasPickupDeadline bool
	PickupDeadline    time.Time

	HasQueuePosition bool
	QueuePosition    int
}

// Row kinds.
const (
	KindLoan        = "loan"
	KindReservation = "reservation"
	KindReady       = "ready"
)

// FromLoan flattens a loan into a filter row.
func FromLoan(l library.Loan) Item {
	it := Item{
		Kind:      KindLoan,
		Title:     l.Title,
		Creators:  l.Creators,
		Type:      l.Type,
		Renewable: l.Renewable,
	}
	if l.DueDate != nil {
		it.HasDueDate, it.DueDate = true, *l.DueDate
	}
	if l.LoanDate != nil {
		it.HasCreated, it.Created = true, *l.LoanDate
	}
	return it
}

// FromReservation flattens a queued reservation into a filter row.
func FromReservation(r library.Reservation) Item {
	it := Item{
		Kind:         KindReservation,
		Title:        r.Title,
		Creators:     r.Creators,
		Type:         r.Type,
		PickupBranch: r.PickupBranch,
	}
	if r.Created != nil {
		it.HasCreated, it.Created = true, *r.Created
	}
	if r.QueuePosition != nil {
		it.HasQueuePosition, it.QueuePosition = true, *r.QueuePosition
	}
	return it
}

// FromReady flattens a ready reservation into a filter row.
func FromReady(r library.ReservationReady) Item {
	it := Item{
		Kind:         KindReady,
		Title:        r.Title,
		Creators:     r.Creators,
		Type:         r.Type,
		PickupBranch: r.PickupBranch,
	}
	if r.Created != nil {
		it.HasCreated, it.Created = true, *r.Created
	}
	if r.PickupDeadline != nil {
		it.HasPickupDeadline, it.PickupDeadline = true, *r.PickupDeadline
	}
	return it
}

// Filter reports whether a row matches.
type Filter func(Item) bool

// Compile turns an expression into a Filter. Expressions see the Item's
// fields by name plus the helpers now() and daysUntil(t).
func Compile(expression string) (Filter, error) {
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", expression, err)
	}
	return func(it Item) bool {
		out, err := vm.Run(program, environment(it))
		if err != nil {
			return false
		}
		match, ok := out.(bool)
		return ok && match
	}, nil
}

func environment(it Item) map[string]any {
	return map[string]any{
		"Kind":              it.Kind,
		"Title":             it.Title,
		"Creators":          it.Creators,
		"Type":              it.Type,
		"Renewable":         it.Renewable,
		"PickupBranch":      it.PickupBranch,
		"HasDueDate":        it.HasDueDate,
		"DueDate":           it.DueDate,
		"HasCreated":        it.HasCreated,
		"Created":           it.Created,
		"HasPickupDeadline": it.HasPickupDeadline,
		"PickupDeadline":    it.PickupDeadline,
		"HasQueuePosition":  it.HasQueuePosition,
		"QueuePosition":     it.QueuePosition,

		"now": func() time.Time { return time.Now() },
		"daysUntil": func(t time.Time) int {
			return int(time.Until(t).Hours() / 24)
		},
	}
}
