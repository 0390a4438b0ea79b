package planning

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemandEntry is the aggregated gross demand for one product
type DemandEntry struct {
	ProductID        uuid.UUID
	RequiredQuantity decimal.Decimal
	RequirementDate  *time.Time
}

// DemandAccumulator collects per-product demand while the BOM graph is
// exploded. Quantities add up across BOM paths; the requirement date keeps
// the earliest known date, an absent date never overriding a present one.
type DemandAccumulator struct {
	entries map[uuid.UUID]*DemandEntry
}

// NewDemandAccumulator creates an empty accumulator
func NewDemandAccumulator() *DemandAccumulator {
	return &DemandAccumulator{
		entries: make(map[uuid.UUID]*DemandEntry),
	}
}

// Merge adds quantity to the product's aggregated demand and folds in the
// requirement date per the earliest-date rule
func (a *DemandAccumulator) Merge(productID uuid.UUID, quantity decimal.Decimal, date *time.Time) {
	entry, ok := a.entries[productID]
	if !ok {
		entry = &DemandEntry{
			ProductID:        productID,
			RequiredQuantity: decimal.Zero,
		}
		a.entries[productID] = entry
	}

	entry.RequiredQuantity = entry.RequiredQuantity.Add(quantity)

	if date != nil && (entry.RequirementDate == nil || date.Before(*entry.RequirementDate)) {
		d := *date
		entry.RequirementDate = &d
	}
}

// Get returns the aggregated entry for a product, or nil
func (a *DemandAccumulator) Get(productID uuid.UUID) *DemandEntry {
	return a.entries[productID]
}

// Len returns the number of distinct products with demand
func (a *DemandAccumulator) Len() int {
	return len(a.entries)
}

// Entries returns all aggregated entries ordered by product ID ascending,
// which keeps downstream line sets deterministic between runs
func (a *DemandAccumulator) Entries() []DemandEntry {
	entries := make([]DemandEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID.String() < entries[j].ProductID.String()
	})
	return entries
}
