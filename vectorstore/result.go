package vectorstore

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// QueryResult holds one inner slice per query text, each ordered by ascending
// distance.
type QueryResult struct {
	Ids       [][]string
	Documents [][]string
	Metadatas [][]map[string]string
	Distances [][]float32
}

// Format prints every match of every query with its rank.
func Format(w io.Writer, queryTexts []string, result QueryResult) {
	for q, text := range queryTexts {
		fmt.Fprintf(w, "Query: '%s'\n", text)
		fmt.Fprintln(w, "\nResults:")

		if q >= len(result.Ids) || len(result.Ids[q]) == 0 {
			fmt.Fprintln(w, "  No results.")
			fmt.Fprintln(w, "---")
			continue
		}

		for i := range result.Ids[q] {
			fmt.Fprintf(w, "  Result %d:\n", i+1)
			fmt.Fprintf(w, "    ID: %s\n", result.Ids[q][i])
			fmt.Fprintf(w, "    Document: %s\n", result.Documents[q][i])
			fmt.Fprintf(w, "    Distance (Lower is better): %v\n", result.Distances[q][i])
			fmt.Fprintf(w, "    Metadata: %s\n", formatMetadata(result.Metadatas[q][i]))
			fmt.Fprintln(w, "---")
		}
	}
}

func formatMetadata(metadata map[string]string) string {
	pairs := make([]string, 0, len(metadata))
	for _, k := range slices.Sorted(maps.Keys(metadata)) {
		pairs = append(pairs, fmt.Sprintf("'%s': '%s'", k, metadata[k]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
