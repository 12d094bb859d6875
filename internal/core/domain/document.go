package domain

// Known table kinds. These are the only table keys recognised in the
// source data; anything else on a company record is ignored.
const (
	TableKeyFinancials       = "key_financials"
	TableCashFlowAndLeverage = "cash_flow_and_leverage"
	TableCapTable            = "cap_table"
)

// TableKinds lists the known table kinds in processing order.
// The order is fixed so that document IDs are assigned deterministically
// across builds of the same source data.
var TableKinds = []string{
	TableKeyFinancials,
	TableCashFlowAndLeverage,
	TableCapTable,
}

// TableTitles maps a table kind to its human-readable title used in
// rendered document content.
var TableTitles = map[string]string{
	TableKeyFinancials:       "Key Financials",
	TableCashFlowAndLeverage: "Cash Flow and Leverage",
	TableCapTable:            "Capitalization Table",
}

// TableMetadata describes the filterable attributes of a document.
type TableMetadata struct {
	// CompanyName identifies the source company.
	CompanyName string `json:"company_name"`

	// CompanyID is the numeric identifier of the source company.
	CompanyID int64 `json:"company_id"`

	// TableName is one of the known table kinds.
	TableName string `json:"table_name"`

	// Keywords holds the metric names extracted from the table, in row
	// order, duplicates retained. Empty for capitalization tables.
	Keywords []string `json:"keywords"`

	// SourceURL is the canonical citation target. Never empty for a
	// successfully processed table.
	SourceURL string `json:"source_url"`

	// Currency is present for financial-metric tables and empty for
	// capitalization tables.
	Currency string `json:"currency,omitempty"`
}

// Document is the atomic retrievable unit: the rendered text of one
// table plus its metadata. Content is the unit of embedding.
type Document struct {
	// ID is assigned sequentially at ingestion time and is stable for
	// the lifetime of one index generation.
	ID int64 `json:"doc_id"`

	// Content is the rendered markdown text derived from one table.
	Content string `json:"content"`

	// Metadata holds the filterable attributes.
	Metadata TableMetadata `json:"metadata"`
}
