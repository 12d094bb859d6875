// Package captable renders capitalization tables into fixed-column
// markdown documents listing a company's debt instruments.
package captable

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

const tableHeader = "| Instrument Name | Security | Maturity | Rate | Amount (USDm) |\n|---|---|---|---|---|"

// Processor renders the cap_table kind.
type Processor struct{}

// New creates a capitalization-table processor.
func New() *Processor {
	return &Processor{}
}

// Kind returns the table kind this processor handles.
func (p *Processor) Kind() string {
	return domain.TableCapTable
}

// Process renders the table. Subtotal rows are emphasised in bold;
// missing optional fields render as empty cells, and a missing amount
// renders as empty rather than zero. Cap tables contribute no keyword
// metadata.
func (p *Processor) Process(company domain.CompanyInfo, table domain.Table) (string, domain.TableMetadata, error) {
	if table.Kind != domain.TableCapTable || table.Cap == nil {
		return "", domain.TableMetadata{}, fmt.Errorf("%w: cap table processor got table %q", domain.ErrInvalidInput, table.Kind)
	}
	data := table.Cap

	asOf := data.AsOf
	if asOf == "" {
		asOf = "N/A"
	}

	rows := []string{tableHeader}
	for _, row := range data.Rows {
		name := row.Name
		amount := ""
		if row.AmountUSDM != nil {
			amount = strconv.FormatFloat(*row.AmountUSDM, 'f', -1, 64)
		}
		if row.Subtotal {
			name = "**" + name + "**"
			amount = "**" + amount + "**"
		}
		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s |",
			name, row.Security, row.Maturity, row.Rate, amount))
	}

	parts := []string{
		fmt.Sprintf("## %s for %s (as of %s)", domain.TableTitles[domain.TableCapTable], company.Name, asOf),
		fmt.Sprintf("This document contains the capitalization table for %s, detailing its debt structure.", company.Name),
		strings.Join(rows, "\n"),
	}

	meta := domain.TableMetadata{
		CompanyName: company.Name,
		CompanyID:   company.ID,
		TableName:   domain.TableCapTable,
		Keywords:    []string{},
		SourceURL:   processors.SourceURL(data.URL),
	}
	return strings.Join(parts, "\n\n"), meta, nil
}
