// Package domain contains the core business entities for finchat:
// retrievable documents derived from financial tables, the raw source
// data schema, search options, and conversation sessions.
//
// Domain types have no dependencies on adapters or infrastructure.
package domain
