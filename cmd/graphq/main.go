// graphq loads a snapshot and runs a single pattern query or provenance
// trace against it, printing the result as JSON. Handy for inspecting
// snapshot files without standing up the server.
//
//	graphq -snapshot graph.json -query 'MATCH (s:Supplier) RETURN s'
//	graphq -snapshot graph.db -backend sqlite -trace PRD001
//	graphq -snapshot graph.json -schema
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chainloom/chainloom/internal/snapshot"
	"github.com/chainloom/chainloom/pkg/cypher"
	"github.com/chainloom/chainloom/pkg/graph"
	"github.com/chainloom/chainloom/pkg/planner"
	"github.com/chainloom/chainloom/pkg/trace"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "Snapshot file to load")
	backend := flag.String("backend", "file", "Snapshot backend: file or sqlite")
	query := flag.String("query", "", "Pattern query to execute")
	traceID := flag.String("trace", "", "Product id to trace")
	schema := flag.Bool("schema", false, "Print the schema description")
	flag.Parse()

	if *snapshotPath == "" {
		fmt.Fprintln(os.Stderr, "graphq: -snapshot is required")
		os.Exit(2)
	}

	var snaps snapshot.Store
	switch *backend {
	case "sqlite":
		s, err := snapshot.NewSQLiteStore(*snapshotPath)
		if err != nil {
			fatal(err)
		}
		snaps = s
	case "file":
		snaps = snapshot.NewFileStore(*snapshotPath)
	default:
		fmt.Fprintf(os.Stderr, "graphq: unknown backend %q\n", *backend)
		os.Exit(2)
	}
	defer snaps.Close()

	store := graph.NewStore()
	if err := snaps.Load(store); err != nil {
		fatal(err)
	}

	switch {
	case *query != "":
		res := cypher.NewEngine(store).Execute(*query)
		printJSON(res)
		if res.Outcome == cypher.OutcomeUnrecognized {
			os.Exit(1)
		}
	case *traceID != "":
		tracer := trace.NewTracer(store, graph.NewIndex(store))
		lineage, err := tracer.Trace(*traceID)
		if err != nil {
			fatal(err)
		}
		printJSON(lineage)
	case *schema:
		fmt.Println(planner.DescribeSchema(store))
	default:
		fmt.Fprintln(os.Stderr, "graphq: one of -query, -trace, -schema is required")
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "graphq:", err)
	os.Exit(1)
}
