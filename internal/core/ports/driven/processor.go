package driven

import "github.com/finchat-labs/finchat-cli/internal/core/domain"

// TableProcessor renders one raw table into embeddable text plus
// filterable metadata. Processors are pure: no state, no I/O.
//
// Dispatch is by static mapping from table kind to processor; a
// processor receiving a Table of the wrong kind returns an error.
type TableProcessor interface {
	// Kind returns the table kind this processor handles.
	Kind() string

	// Process renders the table for the given company.
	Process(company domain.CompanyInfo, table domain.Table) (content string, meta domain.TableMetadata, err error)
}
