// Package models defines the data structures for annscreen
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawObservation is one reported data point for a financial concept, as
// supplied by the ingestion side (SEC DERA dumps, companyfacts API, etc.).
// A company may restate or refile, so multiple observations can exist for
// the same (entity, concept, fiscal year).
type RawObservation struct {
	EntityID   int64     `json:"entity_id"` // CIK
	Concept    string    `json:"concept"`
	FiscalYear int       `json:"fiscal_year"`
	Annual     bool      `json:"annual"` // full fiscal-year duration (fp=FY / qtrs=4)
	Form       string    `json:"form"`   // e.g. "10-K", "10-K/A", "10-Q"
	Filed      time.Time `json:"filed"`
	PeriodEnd  time.Time `json:"period_end"`
	Currency   string    `json:"currency"`
	RawValue   string    `json:"raw_value"` // unparsed numeric text; parsed during reconciliation
}

// CanonicalFact is the single value chosen by reconciliation for one
// (entity, concept, fiscal year), with source provenance.
type CanonicalFact struct {
	Value     decimal.Decimal `json:"value"`
	Form      string          `json:"form"`
	Filed     time.Time       `json:"filed"`
	PeriodEnd time.Time       `json:"period_end"`
}

// ConceptFacts maps fiscal year to the canonical fact for one concept.
type ConceptFacts map[int]CanonicalFact

// EntityFacts maps concept name to its reconciled per-year facts.
type EntityFacts map[string]ConceptFacts
