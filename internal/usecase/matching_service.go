package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/matlens/backend/internal/domain"
	"github.com/matlens/backend/internal/gtin"
	"github.com/matlens/backend/internal/infrastructure/catalog"
)

// Defaults for the tunable matching policy. The threshold and result
// limit are deployment configuration, not invariants.
const (
	defaultFuzzyThreshold = 0.70
	defaultMaxResults     = 5
	defaultStatsCacheTTL  = 10 * time.Minute
)

const statsCacheKey = "matching:stats"

// MatchConfig holds configuration for the matching service.
type MatchConfig struct {
	FuzzyThreshold float64       // minimum name similarity in (0,1], default 0.70
	MaxResults     int           // default result limit, default 5
	StatsCacheTTL  time.Duration // how long computed stats are cached, default 10m
}

// MatchingService links internal products to supplier catalog entries
// using tiered strategies: exact identifier, exact article code, fuzzy
// name. FindMatches is read-only and side-effect free; ApplyMatch is
// the only operation that mutates persistent state.
type MatchingService struct {
	catalog  *catalog.Store
	products domain.ProductRepository
	cache    domain.CacheRepository
	logger   *zap.Logger

	fuzzyThreshold float64
	maxResults     int
	statsCacheTTL  time.Duration
}

// NewMatchingService creates a matching service with the given
// configuration, falling back to defaults for unset values.
func NewMatchingService(
	catalogStore *catalog.Store,
	products domain.ProductRepository,
	cache domain.CacheRepository,
	config MatchConfig,
	logger *zap.Logger,
) *MatchingService {
	threshold := config.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	statsTTL := config.StatsCacheTTL
	if statsTTL <= 0 {
		statsTTL = defaultStatsCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		catalog:        catalogStore,
		products:       products,
		cache:          cache,
		logger:         logger,
		fuzzyThreshold: threshold,
		maxResults:     maxResults,
		statsCacheTTL:  statsTTL,
	}
}

// FindMatches returns up to limit ranked candidates for the product,
// in tier order: identifier_exact, then code_exact, then name_fuzzy
// sorted by descending similarity. Candidates already emitted by an
// earlier tier are never repeated. A pure function of the catalog
// snapshot and the product; safe to call repeatedly.
func (s *MatchingService) FindMatches(ctx context.Context, product *domain.Product, limit int) []domain.MatchResult {
	if product == nil {
		return nil
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	snap := s.catalog.Snapshot(ctx)
	results := make([]domain.MatchResult, 0, limit)
	seen := make(map[string]bool)

	// Tier 1: exact identifier via the permissive index.
	if entry, ok := snap.ByGTIN(product.GTIN); ok {
		results = append(results, s.result(product, entry, domain.MatchGTINExact, 0))
		seen[entry.ArticleCode] = true
	}

	// Tier 2: exact supplier code.
	if entry, ok := snap.ByCode(product.SupplierCode); ok && !seen[entry.ArticleCode] {
		results = append(results, s.result(product, entry, domain.MatchCodeExact, 0))
		seen[entry.ArticleCode] = true
	}

	// Tier 3: fuzzy name scan over the remaining entries.
	if len(results) < limit && product.Name != "" {
		for _, candidate := range s.fuzzyScan(ctx, snap, product, seen) {
			if len(results) >= limit {
				break
			}
			results = append(results, candidate)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// fuzzyScan collects entries whose name similarity reaches the
// threshold, descending by similarity.
func (s *MatchingService) fuzzyScan(ctx context.Context, snap *catalog.Snapshot, product *domain.Product, seen map[string]bool) []domain.MatchResult {
	name := strings.ToLower(product.Name)

	var candidates []domain.MatchResult
	for _, entry := range snap.Entries() {
		select {
		case <-ctx.Done():
			return candidates
		default:
		}

		if seen[entry.ArticleCode] || entry.Name == "" {
			continue
		}
		similarity := nameSimilarity(name, strings.ToLower(entry.Name))
		if similarity < s.fuzzyThreshold {
			continue
		}
		candidates = append(candidates, s.result(product, entry, domain.MatchNameFuzzy, similarity))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// nameSimilarity is the best of plain ratio and token-sort ratio,
// scaled to [0,1]. Token sorting catches names that agree on words but
// not word order ("storfe kjøttdeig" vs "kjøttdeig av storfe").
func nameSimilarity(a, b string) float64 {
	ratio := fuzzy.Ratio(a, b)
	if tokenSort := fuzzy.TokenSortRatio(a, b); tokenSort > ratio {
		ratio = tokenSort
	}
	return float64(ratio) / 100
}

func (s *MatchingService) result(product *domain.Product, entry domain.CatalogEntry, kind domain.MatchKind, similarity float64) domain.MatchResult {
	return domain.MatchResult{
		Candidate:    entry,
		Kind:         kind,
		Confidence:   kind.Confidence(similarity),
		FieldChanges: fieldChanges(product, entry),
	}
}

// fieldChanges compares the product's current fields against the
// catalog entry's best available values. The consumer pack identifier
// wins over the transport pack (the consumer pack is the sales unit),
// and the replacement article code wins over the primary code.
// Identifiers compare through gtin.Equivalent, not string equality.
func fieldChanges(product *domain.Product, entry domain.CatalogEntry) map[string]domain.ValueChange {
	changes := make(map[string]domain.ValueChange)

	if newGTIN := preferredGTIN(entry); newGTIN != "" && !gtin.Equivalent(product.GTIN, newGTIN) {
		if product.GTIN != newGTIN {
			changes[domain.FieldGTIN] = domain.ValueChange{Old: product.GTIN, New: newGTIN}
		}
	}
	if entry.Name != "" && product.Name != entry.Name {
		changes[domain.FieldName] = domain.ValueChange{Old: product.Name, New: entry.Name}
	}
	if newCode := preferredCode(entry); newCode != "" && product.SupplierCode != newCode {
		changes[domain.FieldSupplierCode] = domain.ValueChange{Old: product.SupplierCode, New: newCode}
	}

	if len(changes) == 0 {
		return nil
	}
	return changes
}

func preferredGTIN(entry domain.CatalogEntry) string {
	if entry.GTINConsumerPack != "" {
		return entry.GTINConsumerPack
	}
	return entry.GTINTransportPack
}

func preferredCode(entry domain.CatalogEntry) string {
	if entry.ReplacementCode != "" {
		return entry.ReplacementCode
	}
	return entry.ArticleCode
}

// ApplyMatch overwrites the flagged product fields with the catalog
// entry's preferred values, inside a single transaction. It returns the
// before/after pairs that were actually persisted.
func (s *MatchingService) ApplyMatch(ctx context.Context, req domain.ApplyMatchRequest) (*domain.ApplyMatchResult, error) {
	if !req.UpdateGTIN && !req.UpdateName && !req.UpdateSupplierCode {
		return nil, fmt.Errorf("%w: enable at least one update flag", domain.ErrNoChangesRequested)
	}

	entry, ok := s.catalog.Snapshot(ctx).ByCode(req.CatalogCode)
	if !ok {
		return nil, fmt.Errorf("%w: catalog article %s", domain.ErrNotFound, req.CatalogCode)
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	all := fieldChanges(product, entry)
	applied := make(map[string]domain.ValueChange)
	if change, ok := all[domain.FieldGTIN]; ok && req.UpdateGTIN {
		applied[domain.FieldGTIN] = change
	}
	if change, ok := all[domain.FieldName]; ok && req.UpdateName {
		applied[domain.FieldName] = change
	}
	if change, ok := all[domain.FieldSupplierCode]; ok && req.UpdateSupplierCode {
		applied[domain.FieldSupplierCode] = change
	}

	if len(applied) == 0 {
		return &domain.ApplyMatchResult{
			Applied: applied,
			Message: fmt.Sprintf("product %s already matches catalog article %s", product.ID, entry.ArticleCode),
		}, nil
	}

	if err := s.products.ApplyFieldChanges(ctx, product.ID, applied); err != nil {
		return nil, err
	}

	s.logger.Info("applied catalog match",
		zap.String("product_id", product.ID),
		zap.String("article_code", entry.ArticleCode),
		zap.Int("fields", len(applied)))

	return &domain.ApplyMatchResult{
		Applied: applied,
		Message: fmt.Sprintf("updated %d field(s) from catalog article %s", len(applied), entry.ArticleCode),
	}, nil
}

// Stats classifies every product used in recipes by its best match:
// confidence >= 0.95 counts as exact, a weaker hit as fuzzy, no hit as
// unmatched. The full scan is expensive, so results are cached.
func (s *MatchingService) Stats(ctx context.Context) (*domain.MatchStats, error) {
	if s.cache != nil {
		var cached domain.MatchStats
		if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	products, err := s.products.ListUsedInRecipes(ctx)
	if err != nil {
		return nil, err
	}

	stats := domain.MatchStats{
		TotalCandidates: len(products),
		CatalogEntries:  s.catalog.Snapshot(ctx).Len(),
	}
	for i := range products {
		matches := s.FindMatches(ctx, &products[i], 1)
		switch {
		case len(matches) == 0:
			stats.Unmatched++
		case matches[0].Confidence >= domain.MatchCodeExact.Confidence(0):
			stats.ExactMatches++
		default:
			stats.FuzzyOnly++
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.statsCacheTTL); err != nil {
			s.logger.Debug("caching match stats failed", zap.Error(err))
		}
	}
	return &stats, nil
}
