package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopfront/fulfillment/internal/storage"
)

var (
	// ErrMalformedRecord marks a record whose history or anchor timestamp
	// is missing. The engine refuses to fabricate a history for it; the
	// record is skipped and reported, never auto-repaired.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnknownReturnType marks a return request whose type selects no
	// known progression graph.
	ErrUnknownReturnType = errors.New("unknown return type")
)

// Engine derives fulfillment stages from elapsed time. It is a pure
// function of (record, now): it mutates only the record passed in and
// reports whether anything changed, so callers can suppress writes for
// untouched records. Graphs are injectable so tests can substitute their
// own timing tables.
type Engine struct {
	Orders  Graph
	Refund  Graph
	Replace Graph
}

func NewEngine() *Engine {
	return &Engine{
		Orders:  OrderGraph,
		Refund:  RefundGraph,
		Replace: ReplaceGraph,
	}
}

// AdvanceOrder walks the order graph against time elapsed since PlacedAt
// and appends every newly reached stage to the order's history. Stage
// timestamps are PlacedAt plus the stage threshold, not now: they are
// deterministic functions of placement time, independent of when the
// engine happened to run. A negative elapsed time (clock skew) is a no-op,
// not an error. An externally set Status is treated as a floor: the walk
// never appends below it and never regresses it.
func (e *Engine) AdvanceOrder(o *storage.Order, now time.Time) (bool, error) {
	if len(o.History) == 0 || o.PlacedAt.IsZero() {
		return false, fmt.Errorf("order %s: %w", o.ID, ErrMalformedRecord)
	}

	changed := e.walk(e.Orders, o.PlacedAt, now, o.Status, &o.History, &o.Status)

	if o.Status == StageDelivered && o.DeliveredAt == nil {
		for _, h := range o.History {
			if h.Stage == StageDelivered {
				ts := h.Timestamp
				o.DeliveredAt = &ts
				changed = true
				break
			}
		}
	}
	return changed, nil
}

// AdvanceReturn is AdvanceOrder's twin for return requests, with two
// differences: a rejected request is frozen and skipped entirely, and the
// active graph is selected once by the request's type.
func (e *Engine) AdvanceReturn(r *storage.ReturnRequest, now time.Time) (bool, error) {
	if r.Status == StageRejected {
		return false, nil
	}

	graph, err := e.returnGraph(r.Type)
	if err != nil {
		return false, fmt.Errorf("return %s: %w", r.ID, err)
	}
	if len(r.History) == 0 || r.RequestedAt.IsZero() {
		return false, fmt.Errorf("return %s: %w", r.ID, ErrMalformedRecord)
	}

	return e.walk(graph, r.RequestedAt, now, r.Status, &r.History, &r.Status), nil
}

func (e *Engine) returnGraph(returnType string) (Graph, error) {
	switch returnType {
	case ReturnTypeRefund:
		return e.Refund, nil
	case ReturnTypeReplace:
		return e.Replace, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReturnType, returnType)
	}
}

// walk appends every stage whose threshold has elapsed and is not yet in
// the history, advancing status as it goes. floor is the index of the
// current status in the graph; stages below it are skipped so that a
// manually advanced record is never walked backwards.
func (e *Engine) walk(graph Graph, anchor, now time.Time, status string, history *[]storage.HistoryEntry, statusOut *string) bool {
	elapsed := now.Sub(anchor)
	floor := graph.Index(status)
	changed := false

	for i, def := range graph {
		if def.After > elapsed {
			break
		}
		if i < floor {
			continue
		}
		entry := storage.HistoryEntry{
			Stage:     def.Stage,
			Timestamp: anchor.Add(def.After),
			Message:   def.Message,
		}
		next, appended := AppendOnce(*history, entry)
		if !appended {
			continue
		}
		*history = next
		*statusOut = def.Stage
		floor = i
		changed = true
	}
	return changed
}
