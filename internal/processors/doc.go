// Package processors holds shared helpers for the table processors.
// Each table kind has its own processor package rendering raw table
// data into embeddable markdown plus metadata.
package processors

// sourceHost is the fixed host prefix for citation URLs. Table data
// carries only a relative URL fragment.
const sourceHost = "www.9fin.com"

// SourceURL builds the canonical citation URL from a table's relative
// URL fragment. An absent fragment yields the host alone.
func SourceURL(fragment string) string {
	return sourceHost + fragment
}
