// Package cypher implements the restricted pattern-query language of the
// provenance graph. Exactly two shapes are supported:
//
//	MATCH (var:Label {k: "v", ...}) RETURN var
//	MATCH (var1:Label1)-[:RELTYPE]->(var2:Label2) RETURN var1, var2
//
// Anything else fails open: the engine reports OutcomeUnrecognized with
// an empty binding list instead of an error.
package cypher

// Filter is one inline property constraint on a node pattern.
type Filter struct {
	Key   string
	Value any // string or float64
}

// NodePattern is a single (var:Label {filters}) clause.
type NodePattern struct {
	Var     string
	Label   string
	Filters []Filter
}

// RelPattern is the -[:TYPE]-> clause linking two node patterns.
type RelPattern struct {
	Type string
}

// Query is the parsed form of a supported pattern query. Rel and Right
// are nil for the single-node shape.
type Query struct {
	Left   NodePattern
	Rel    *RelPattern
	Right  *NodePattern
	Return []string
}

// Outcome distinguishes the fail-open empty result from a genuine
// empty match, so callers that care can tell them apart while callers
// that only read Bindings keep the legacy behavior.
type Outcome string

const (
	// OutcomeUnrecognized means the text did not parse as one of the
	// two supported shapes.
	OutcomeUnrecognized Outcome = "unrecognized"
	// OutcomeNoMatch means the query parsed but matched nothing.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeMatched means at least one binding was produced.
	OutcomeMatched Outcome = "matched"
)

// Binding is one result row, mapping each query variable to a flattened
// node record; relationship queries additionally carry the matched
// relationship type under the "relationship" key.
type Binding map[string]any

// Result is the outcome of executing a pattern query.
type Result struct {
	Outcome  Outcome   `json:"outcome"`
	Bindings []Binding `json:"bindings"`
}
