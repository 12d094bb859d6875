package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// checkpoint is the on-disk JSON form of a Store: every document plus
// both inverted indices, human-inspectable. It is written once after a
// successful build and never updated incrementally.
type checkpoint struct {
	Documents    []domain.Document  `json:"documents"`
	CompanyIndex map[string][]int64 `json:"company_index"`
	TableIndex   map[string][]int64 `json:"table_index"`
}

// SaveFile writes the store to path as indented JSON.
func (s *Store) SaveFile(path string) error {
	cp := checkpoint{
		Documents:    s.Documents(),
		CompanyIndex: s.companyIndex,
		TableIndex:   s.tableIndex,
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// LoadFile reconstructs a Store from a checkpoint written by SaveFile.
// Documents and both inverted indices are restored verbatim; nothing is
// recomputed or re-embedded. A decode failure wraps
// domain.ErrCheckpointCorrupt so callers can fail loudly instead of
// silently rebuilding.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCheckpointCorrupt, path, err)
	}

	s := NewStore()
	for _, doc := range cp.Documents {
		s.docs[doc.ID] = doc
		s.order = append(s.order, doc.ID)
		name := doc.Metadata.CompanyName
		if _, seen := s.companyIndex[name]; !seen {
			s.companies = append(s.companies, name)
			// Mark seen; the real list is restored below.
			s.companyIndex[name] = nil
		}
	}
	for name, ids := range cp.CompanyIndex {
		s.companyIndex[name] = ids
	}
	for name, ids := range cp.TableIndex {
		s.tableIndex[name] = ids
	}
	return s, nil
}
