// Package financial renders metric tables (key_financials,
// cash_flow_and_leverage) into markdown documents, one line per
// metric/period pair.
package financial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
	"github.com/finchat-labs/finchat-cli/internal/processors"
)

// Ensure Processor implements the interface.
var _ driven.TableProcessor = (*Processor)(nil)

// Processor renders one financial-metrics table kind. The same
// implementation serves both key_financials and cash_flow_and_leverage;
// each kind gets its own instance.
type Processor struct {
	kind  string
	title string
}

// New creates a processor for the given metric-table kind.
func New(kind string) *Processor {
	return &Processor{kind: kind, title: domain.TableTitles[kind]}
}

// Kind returns the table kind this processor handles.
func (p *Processor) Kind() string {
	return p.kind
}

// Process renders the table. Metric values pair positionally with the
// company's reporting periods; values beyond the declared periods are
// dropped. Keywords are the non-empty metric names in row order.
func (p *Processor) Process(company domain.CompanyInfo, table domain.Table) (string, domain.TableMetadata, error) {
	if table.Kind != p.kind || table.Financial == nil {
		return "", domain.TableMetadata{}, fmt.Errorf("%w: processor %q got table %q", domain.ErrInvalidInput, p.kind, table.Kind)
	}
	data := table.Financial

	keywords := make([]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		if row.Metric != "" {
			keywords = append(keywords, row.Metric)
		}
	}

	parts := []string{
		fmt.Sprintf("## %s for %s (Currency: %s)", p.title, company.Name, company.Currency),
		fmt.Sprintf("This document contains data on: %s.", strings.Join(keywords, ", ")),
		"\n### Data",
	}

	for _, row := range data.Rows {
		metric := row.Metric
		if metric == "" {
			metric = "N/A"
		}
		parts = append(parts, fmt.Sprintf("- **%s**:", metric))

		for i, value := range row.Values {
			if i >= len(company.Periods) {
				break
			}
			period := company.Periods[i]
			parts = append(parts, fmt.Sprintf("  - %s (%s): %s %s",
				period.Period, period.Date, strconv.FormatFloat(value, 'f', -1, 64), row.Unit))
		}
	}

	meta := domain.TableMetadata{
		CompanyName: company.Name,
		CompanyID:   company.ID,
		TableName:   p.kind,
		Keywords:    keywords,
		SourceURL:   processors.SourceURL(data.URL),
		Currency:    company.Currency,
	}
	return strings.Join(parts, "\n"), meta, nil
}
