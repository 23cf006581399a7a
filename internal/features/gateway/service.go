package gateway

import (
	"errors"
	"log/slog"
	"strings"

	herbs "herbarium/internal/features/herbs"
	plans "herbarium/internal/features/plans"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit  = 50
	MaxListLimit      = 100
	SearchResultLimit = 50
)

// herbReader is the catalog surface the gateway needs; the concrete
// repository satisfies it and tests substitute fakes.
type herbReader interface {
	ListHerbs(category string, limit, offset int) ([]*herbs.Herb, error)
	GetHerbByID(herbID uuid.UUID) (*herbs.Herb, error)
	ListCategories() ([]string, error)
	SearchHerbs(query string, limit int) ([]*herbs.Herb, error)
}

type GatewayService struct {
	herbReader herbReader
	logger     *slog.Logger
}

func (s *GatewayService) ListHerbs(
	plan *plans.Plan,
	category string,
	limit, offset int,
) (*ListHerbsResponse, error) {
	if !plan.HasFeature(plans.FeatureBasicHerbInfo) {
		return nil, featureNotAllowedError()
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	catalogHerbs, err := s.herbReader.ListHerbs(category, limit, offset)
	if err != nil {
		s.logger.Error("failed to list herbs", "error", err)
		return nil, errors.New("failed to list herbs")
	}

	summaries := make([]*HerbSummary, 0, len(catalogHerbs))
	for _, herb := range catalogHerbs {
		summary := newHerbSummary(herb)
		summaries = append(summaries, &summary)
	}

	return &ListHerbsResponse{
		Data: summaries,
		Metadata: ListMetadata{
			Count:  len(summaries),
			Offset: offset,
			Limit:  limit,
		},
	}, nil
}

// GetHerb returns the basic document, widened to the detailed shape
// when the plan carries detailed_herb_info.
func (s *GatewayService) GetHerb(plan *plans.Plan, herbIDStr string) (*HerbResponse, error) {
	if !plan.HasFeature(plans.FeatureBasicHerbInfo) {
		return nil, featureNotAllowedError()
	}

	herbID, err := uuid.Parse(herbIDStr)
	if err != nil {
		return nil, herbNotFoundError()
	}

	herb, err := s.herbReader.GetHerbByID(herbID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, herbNotFoundError()
		}

		s.logger.Error("failed to get herb", "herbId", herbID, "error", err)
		return nil, errors.New("failed to get herb")
	}

	if plan.HasFeature(plans.FeatureDetailedHerbInfo) {
		return &HerbResponse{Data: newHerbDetailed(herb)}, nil
	}

	return &HerbResponse{Data: newHerbBasic(herb)}, nil
}

func (s *GatewayService) ListCategories(plan *plans.Plan) (*CategoriesResponse, error) {
	if !plan.HasFeature(plans.FeatureCategories) {
		return nil, featureNotAllowedError()
	}

	categories, err := s.herbReader.ListCategories()
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, errors.New("failed to list categories")
	}

	return &CategoriesResponse{Data: categories}, nil
}

func (s *GatewayService) SearchHerbs(plan *plans.Plan, query string) (*SearchResponse, error) {
	if !plan.HasFeature(plans.FeatureSearch) {
		return nil, featureNotAllowedError()
	}

	if strings.TrimSpace(query) == "" {
		return nil, queryRequiredError()
	}

	matches, err := s.herbReader.SearchHerbs(query, SearchResultLimit)
	if err != nil {
		s.logger.Error("failed to search herbs", "query", query, "error", err)
		return nil, errors.New("failed to search herbs")
	}

	includeDetails := plan.HasFeature(plans.FeatureDetailedHerbInfo)

	results := make([]*SearchResult, 0, len(matches))
	for _, herb := range matches {
		results = append(results, newSearchResult(herb, includeDetails))
	}

	return &SearchResponse{
		Data: results,
		Metadata: SearchMetadata{
			Count: len(results),
			Query: query,
		},
	}, nil
}
