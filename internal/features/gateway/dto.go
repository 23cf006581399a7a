package gateway

import (
	herbs "herbarium/internal/features/herbs"

	"github.com/google/uuid"
)

// Response shapes are explicit structs selected by feature check, so
// the plan-gated document variants stay statically enumerable. The
// basic document's keys are a strict subset of the detailed one's.

type HerbSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientificName"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
}

type HerbBasic struct {
	HerbSummary
	Benefits []string `json:"benefits"`
	Usage    string   `json:"usage"`
	Cautions string   `json:"cautions"`
}

type HerbDetailed struct {
	HerbBasic
	Preparations         []string          `json:"preparations"`
	BenefitScores        map[string]int    `json:"benefitScores"`
	ComplementaryHerbs   []string          `json:"complementaryHerbs"`
	Origin               string            `json:"origin"`
	HarvestSeason        string            `json:"harvestSeason"`
	Parts                []string          `json:"parts"`
	TraditionalUses      []string          `json:"traditionalUses"`
	Constituents         []string          `json:"constituents"`
	SustainabilityInfo   string            `json:"sustainabilityInfo"`
	GrowingInfo          string            `json:"growingInfo"`
	Image                string            `json:"image"`
	SafetyProfile        string            `json:"safetyProfile"`
	ScientificResearch   []string          `json:"scientificResearch"`
	Tags                 []string          `json:"tags"`
	Audience             []string          `json:"audience"`
	DetailedPreparations map[string]string `json:"detailedPreparations"`
}

type SearchResult struct {
	HerbSummary
	Benefits []string `json:"benefits,omitempty"`
	Usage    string   `json:"usage,omitempty"`
}

type ListMetadata struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type SearchMetadata struct {
	Count int    `json:"count"`
	Query string `json:"query"`
}

type ListHerbsResponse struct {
	Data     []*HerbSummary `json:"data"`
	Metadata ListMetadata   `json:"metadata"`
}

// herbDocument closes the set of plan-gated herb shapes: only the
// basic and detailed variants can appear in a HerbResponse.
type herbDocument interface {
	herbDocument()
}

func (HerbBasic) herbDocument()    {}
func (HerbDetailed) herbDocument() {}

type HerbResponse struct {
	Data herbDocument `json:"data"`
}

type CategoriesResponse struct {
	Data []string `json:"data"`
}

type SearchResponse struct {
	Data     []*SearchResult `json:"data"`
	Metadata SearchMetadata  `json:"metadata"`
}

func newHerbSummary(herb *herbs.Herb) HerbSummary {
	return HerbSummary{
		ID:             herb.ID,
		Name:           herb.Name,
		ScientificName: herb.ScientificName,
		Category:       herb.Category,
		Description:    herb.Description,
	}
}

func newHerbBasic(herb *herbs.Herb) HerbBasic {
	return HerbBasic{
		HerbSummary: newHerbSummary(herb),
		Benefits:    herb.Benefits,
		Usage:       herb.Usage,
		Cautions:    herb.Cautions,
	}
}

func newHerbDetailed(herb *herbs.Herb) HerbDetailed {
	return HerbDetailed{
		HerbBasic:            newHerbBasic(herb),
		Preparations:         herb.Preparations,
		BenefitScores:        herb.BenefitScores,
		ComplementaryHerbs:   herb.ComplementaryHerbs,
		Origin:               herb.Origin,
		HarvestSeason:        herb.HarvestSeason,
		Parts:                herb.Parts,
		TraditionalUses:      herb.TraditionalUses,
		Constituents:         herb.Constituents,
		SustainabilityInfo:   herb.SustainabilityInfo,
		GrowingInfo:          herb.GrowingInfo,
		Image:                herb.Image,
		SafetyProfile:        herb.SafetyProfile,
		ScientificResearch:   herb.ScientificResearch,
		Tags:                 herb.Tags,
		Audience:             herb.Audience,
		DetailedPreparations: herb.DetailedPreparations,
	}
}

func newSearchResult(herb *herbs.Herb, includeDetails bool) *SearchResult {
	result := &SearchResult{
		HerbSummary: newHerbSummary(herb),
	}

	if includeDetails {
		result.Benefits = herb.Benefits
		result.Usage = herb.Usage
	}

	return result
}
