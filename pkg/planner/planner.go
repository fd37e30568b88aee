// Package planner executes structured query plans produced by the
// external natural-language planner. A plan names an intent, entity
// labels, filters, and relationship types; execution maps those onto
// per-label scans of the graph store. Translation from natural language
// to a plan happens outside this module.
package planner

import (
	"strings"

	"github.com/chainloom/chainloom/pkg/graph"
)

// Plan is the structured query handed over by the external collaborator.
type Plan struct {
	Intent        string         `json:"intent"`
	Entities      []string       `json:"entities"`
	Filters       map[string]any `json:"filters"`
	Relationships []string       `json:"relationships"`
	ReturnFields  []string       `json:"return_fields"`
}

// generalSampleLimit bounds the per-label fallback when no part of the
// plan selects a label.
const generalSampleLimit = 3

// Executor runs plans against a store, borrowing read access per call.
type Executor struct {
	store *graph.Store
	index *graph.Index
}

// NewExecutor creates an Executor over the given store and index.
func NewExecutor(store *graph.Store, index *graph.Index) *Executor {
	return &Executor{store: store, index: index}
}

// Execute selects every label that the plan names in Entities or whose
// keyword occurs in the intent, scans its nodes, and applies the plan's
// filters (substring match for strings, exact equality otherwise). When
// the plan requests relationships, each record is enriched with the
// node's neighborhood restricted to those types. If nothing matches, a
// bounded sample across all labels is returned instead.
func (e *Executor) Execute(plan Plan) []graph.Properties {
	schema := e.store.Schema()
	matcher := newLabelMatcher(schema.Labels)
	selected := matcher.Match(plan.Intent)
	for _, label := range plan.Entities {
		selected[label] = true
	}

	results := []graph.Properties{}
	for _, label := range schema.Labels {
		if !selected[label] {
			continue
		}
		for _, rec := range e.store.AllNodes(label) {
			if !matchesFilters(rec, plan.Filters) {
				continue
			}
			if len(plan.Relationships) > 0 {
				id, _ := rec["id"].(string)
				rec["relationships"] = e.index.Neighborhood(id, plan.Relationships...)
			}
			results = append(results, rec)
		}
	}

	if len(results) == 0 {
		results = e.generalSample(schema.Labels)
	}
	return results
}

// generalSample returns up to generalSampleLimit nodes per label, each
// tagged with its label under "_type".
func (e *Executor) generalSample(labels []string) []graph.Properties {
	results := []graph.Properties{}
	for _, label := range labels {
		nodes := e.store.AllNodes(label)
		if len(nodes) > generalSampleLimit {
			nodes = nodes[:generalSampleLimit]
		}
		for _, rec := range nodes {
			rec["_type"] = label
			results = append(results, rec)
		}
	}
	return results
}

// matchesFilters applies plan filters: string values match when the
// filter is a case-insensitive substring of the node value; any other
// type must be exactly equal.
func matchesFilters(rec graph.Properties, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := rec[key]
		if !ok {
			return false
		}
		wantStr, wantIsStr := want.(string)
		gotStr, gotIsStr := got.(string)
		if wantIsStr && gotIsStr {
			if !strings.Contains(strings.ToLower(gotStr), strings.ToLower(wantStr)) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
