package cypher

import (
	"github.com/chainloom/chainloom/pkg/graph"
)

// Engine executes pattern queries against a graph store. It holds no
// state beyond the store handle and never mutates the graph; every call
// re-scans the relevant collection (O(nodes) or O(relationships)).
type Engine struct {
	store *graph.Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *graph.Store) *Engine {
	return &Engine{store: store}
}

// Execute parses and runs a pattern query. Text that matches neither
// supported shape yields OutcomeUnrecognized with zero bindings rather
// than an error; a caller inspecting only Bindings sees the same empty
// list it would get from a query that matched nothing.
func (e *Engine) Execute(text string) Result {
	q, err := Parse(text)
	if err != nil {
		return Result{Outcome: OutcomeUnrecognized, Bindings: []Binding{}}
	}
	return e.Run(q)
}

// Run executes an already-parsed query.
func (e *Engine) Run(q *Query) Result {
	var bindings []Binding
	if q.Rel == nil {
		bindings = e.matchNodes(q)
	} else {
		bindings = e.matchRelationships(q)
	}

	outcome := OutcomeMatched
	if len(bindings) == 0 {
		outcome = OutcomeNoMatch
	}
	return Result{Outcome: outcome, Bindings: bindings}
}

// matchNodes handles the single-node shape: scan nodes by label and
// keep those whose properties satisfy every inline filter exactly.
func (e *Engine) matchNodes(q *Query) []Binding {
	bindings := []Binding{}
	for _, rec := range e.store.AllNodes(q.Left.Label) {
		if !matchesFilters(rec, q.Left.Filters) {
			continue
		}
		bindings = append(bindings, Binding{q.Left.Var: rec})
	}
	return bindings
}

// matchRelationships handles the two-node shape: scan relationships by
// type and keep those whose endpoints carry the stated labels. Inline
// property filters on either node pattern are parsed but deliberately
// not applied here; that is the documented behavior of this query form.
func (e *Engine) matchRelationships(q *Query) []Binding {
	bindings := []Binding{}
	for _, rel := range e.store.AllRelationships(q.Rel.Type) {
		from, ok := e.store.NodeByID(rel.From)
		if !ok {
			continue
		}
		to, ok := e.store.NodeByID(rel.To)
		if !ok {
			continue
		}
		if from.Label != q.Left.Label || to.Label != q.Right.Label {
			continue
		}
		bindings = append(bindings, Binding{
			q.Left.Var:     from.Flattened(),
			q.Right.Var:    to.Flattened(),
			"relationship": rel.Type,
		})
	}
	return bindings
}

func matchesFilters(rec graph.Properties, filters []Filter) bool {
	for _, f := range filters {
		v, ok := rec[f.Key]
		if !ok || !scalarEqual(v, f.Value) {
			return false
		}
	}
	return true
}

// scalarEqual compares property values: strings case-sensitively and
// exactly, numbers by value across int/float representations.
func scalarEqual(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
