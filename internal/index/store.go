// Package index holds the in-memory document store with its inverted
// indices, and the JSON checkpoint format that persists them.
package index

import (
	"github.com/finchat-labs/finchat-cli/internal/core/domain"
)

// Store maps document IDs to documents and maintains two inverted
// indices (by company name, by table kind) built during ingestion.
//
// A Store is written only by the index builder, before any reader
// exists; after the build completes it is immutable, so concurrent
// reads need no locking.
type Store struct {
	docs  map[int64]domain.Document
	order []int64

	companyIndex map[string][]int64
	tableIndex   map[string][]int64

	// companies preserves first-ingested order of company names, which
	// map iteration would lose.
	companies []string
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{
		docs:         make(map[int64]domain.Document),
		companyIndex: make(map[string][]int64),
		tableIndex:   make(map[string][]int64),
	}
}

// Add inserts a document and appends its ID to both inverted indices.
// Called only during the build phase.
func (s *Store) Add(doc domain.Document) {
	if _, exists := s.companyIndex[doc.Metadata.CompanyName]; !exists {
		s.companies = append(s.companies, doc.Metadata.CompanyName)
	}
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	s.companyIndex[doc.Metadata.CompanyName] = append(s.companyIndex[doc.Metadata.CompanyName], doc.ID)
	s.tableIndex[doc.Metadata.TableName] = append(s.tableIndex[doc.Metadata.TableName], doc.ID)
}

// Get returns the document for an ID.
func (s *Store) Get(id int64) (domain.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// Documents returns all documents in ingestion order.
func (s *Store) Documents() []domain.Document {
	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.docs[id])
	}
	return docs
}

// IDs returns all document IDs in ingestion order.
func (s *Store) IDs() []int64 {
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	return ids
}

// CompanyIDs returns the document IDs for a company name, in ingestion
// order. The second return reports whether the company is indexed.
func (s *Store) CompanyIDs(name string) ([]int64, bool) {
	ids, ok := s.companyIndex[name]
	return ids, ok
}

// TableIDs returns the document IDs for a table kind, in ingestion
// order. The second return reports whether the kind is indexed.
func (s *Store) TableIDs(name string) ([]int64, bool) {
	ids, ok := s.tableIndex[name]
	return ids, ok
}

// Companies returns the indexed company names in first-ingested order.
func (s *Store) Companies() []string {
	names := make([]string, len(s.companies))
	copy(names, s.companies)
	return names
}
