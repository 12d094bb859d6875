package domain

// SourceData is the raw source-data artifact: one JSON document with a
// top-level list of company records.
type SourceData struct {
	CompanyFinancials []CompanyRecord `json:"company_financials"`
}

// CompanyRecord is one company's raw data: identity, reporting periods
// and zero or more of the known table kinds.
type CompanyRecord struct {
	Company   string   `json:"company"`
	CompanyID int64    `json:"company_id"`
	Currency  string   `json:"currency"`
	Periods   []Period `json:"periods"`

	KeyFinancials       *FinancialTable `json:"key_financials,omitempty"`
	CashFlowAndLeverage *FinancialTable `json:"cash_flow_and_leverage,omitempty"`
	CapTable            *CapTable       `json:"cap_table,omitempty"`
}

// Period is one reporting period descriptor, e.g. {FY2024, 2024-12-31}.
type Period struct {
	Period string `json:"period"`
	Date   string `json:"date"`
}

// FinancialTable holds metric rows for key_financials and
// cash_flow_and_leverage tables. Values are parallel to the company's
// Periods; excess values beyond the declared periods are dropped at
// rendering time.
type FinancialTable struct {
	URL  string      `json:"url"`
	Rows []MetricRow `json:"rows"`
}

// MetricRow is one (metric, unit, values) row of a financial table.
type MetricRow struct {
	Metric string    `json:"metric"`
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

// CapTable holds the debt instrument rows of a capitalization table.
type CapTable struct {
	AsOf string          `json:"as_of"`
	URL  string          `json:"url"`
	Rows []InstrumentRow `json:"rows"`
}

// InstrumentRow is one instrument of a capitalization table. All fields
// except Name are optional; a nil AmountUSDM renders as an empty cell,
// never as zero.
type InstrumentRow struct {
	Name       string   `json:"name"`
	Security   string   `json:"security,omitempty"`
	Maturity   string   `json:"maturity,omitempty"`
	Rate       string   `json:"rate,omitempty"`
	AmountUSDM *float64 `json:"amount_usdm,omitempty"`
	Subtotal   bool     `json:"subtotal,omitempty"`
}

// CompanyInfo is the per-company context passed to table processors.
type CompanyInfo struct {
	Name     string
	ID       int64
	Currency string
	Periods  []Period
}

// Info extracts the processor-facing company context from a record.
func (r CompanyRecord) Info() CompanyInfo {
	return CompanyInfo{
		Name:     r.Company,
		ID:       r.CompanyID,
		Currency: r.Currency,
		Periods:  r.Periods,
	}
}

// Table is a closed tagged union over the known table kinds. Exactly one
// of Financial or Cap is set, matching Kind.
type Table struct {
	Kind      string
	Financial *FinancialTable
	Cap       *CapTable
}

// Tables returns the tables present on the record, tagged by kind, in
// the fixed TableKinds order. Absent tables are omitted.
func (r CompanyRecord) Tables() []Table {
	var tables []Table
	for _, kind := range TableKinds {
		switch kind {
		case TableKeyFinancials:
			if r.KeyFinancials != nil {
				tables = append(tables, Table{Kind: kind, Financial: r.KeyFinancials})
			}
		case TableCashFlowAndLeverage:
			if r.CashFlowAndLeverage != nil {
				tables = append(tables, Table{Kind: kind, Financial: r.CashFlowAndLeverage})
			}
		case TableCapTable:
			if r.CapTable != nil {
				tables = append(tables, Table{Kind: kind, Cap: r.CapTable})
			}
		}
	}
	return tables
}
