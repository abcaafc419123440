package domain

import "github.com/shopspring/decimal"

// Product is an internal product record as stored in the ERP database.
// GTIN and SupplierCode are empty when the product has not been linked
// to the supplier catalog yet.
type Product struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	GTIN             string `json:"gtin,omitempty"`
	SupplierCode     string `json:"supplierCode,omitempty"`
	RecipeUsageCount int    `json:"recipeUsageCount"`
}

// CatalogEntry is one row of the external supplier catalog.
type CatalogEntry struct {
	ArticleCode       string          `json:"articleCode"`
	ReplacementCode   string          `json:"replacementCode,omitempty"`
	Name              string          `json:"name"`
	GTINTransportPack string          `json:"gtinTransportPack,omitempty"`
	GTINConsumerPack  string          `json:"gtinConsumerPack,omitempty"`
	Category          string          `json:"category,omitempty"`
	Subcategory       string          `json:"subcategory,omitempty"`
	Quantity          float64         `json:"quantity"`
	Unit              string          `json:"unit,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Supplier          string          `json:"supplier,omitempty"`
}

// MatchKind identifies the strategy that produced a match. The tiers
// are priority ordered: an identifier hit always outranks a code hit,
// which always outranks a fuzzy name hit.
type MatchKind string

const (
	MatchGTINExact MatchKind = "identifier_exact"
	MatchCodeExact MatchKind = "code_exact"
	MatchNameFuzzy MatchKind = "name_fuzzy"
)

const (
	confidenceGTINExact = 1.0
	confidenceCodeExact = 0.95
)

// Confidence returns the confidence score for a result of this kind.
// The similarity argument is only consulted for fuzzy matches and must
// already be scaled to [0,1]; exact tiers carry fixed scores.
func (k MatchKind) Confidence(similarity float64) float64 {
	switch k {
	case MatchGTINExact:
		return confidenceGTINExact
	case MatchCodeExact:
		return confidenceCodeExact
	default:
		return similarity
	}
}

// Field names used in match field changes.
const (
	FieldGTIN         = "gtin"
	FieldName         = "name"
	FieldSupplierCode = "supplier_code"
)

// ValueChange is a before/after pair for a single product field.
type ValueChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// MatchResult is one ranked candidate for linking a product to the
// supplier catalog. Results are ephemeral: computed on demand and
// consumed immediately, never persisted.
type MatchResult struct {
	Candidate    CatalogEntry           `json:"candidate"`
	Kind         MatchKind              `json:"kind"`
	Confidence   float64                `json:"confidence"`
	FieldChanges map[string]ValueChange `json:"fieldChanges,omitempty"`
}

// ApplyMatchRequest selects which product fields to overwrite from a
// catalog entry.
type ApplyMatchRequest struct {
	ProductID          string `json:"productId"`
	CatalogCode        string `json:"catalogCode"`
	UpdateGTIN         bool   `json:"updateGtin"`
	UpdateName         bool   `json:"updateName"`
	UpdateSupplierCode bool   `json:"updateSupplierCode"`
}

// ApplyMatchResult reports the field changes that were persisted.
type ApplyMatchResult struct {
	Applied map[string]ValueChange `json:"applied"`
	Message string                 `json:"message"`
}

// MatchStats summarizes catalog coverage over all products used in
// recipes.
type MatchStats struct {
	TotalCandidates int `json:"totalCandidates"`
	ExactMatches    int `json:"exactMatches"`
	FuzzyOnly       int `json:"fuzzyOnly"`
	Unmatched       int `json:"unmatched"`
	CatalogEntries  int `json:"catalogEntries"`
}
