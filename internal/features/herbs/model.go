package herbs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Herb is the read-only catalog row. List and map typed fields are
// persisted as raw JSON columns, mirroring how the catalog is stored
// upstream.
type Herb struct {
	ID             uuid.UUID `json:"id"             gorm:"column:id"`
	Name           string    `json:"name"           gorm:"column:name"`
	ScientificName string    `json:"scientificName" gorm:"column:scientific_name"`
	Category       string    `json:"category"       gorm:"column:category"`
	Description    string    `json:"description"    gorm:"column:description"`

	Usage    string `json:"usage"    gorm:"column:usage"`
	Cautions string `json:"cautions" gorm:"column:cautions"`

	Origin             string `json:"origin"             gorm:"column:origin"`
	HarvestSeason      string `json:"harvestSeason"      gorm:"column:harvest_season"`
	SustainabilityInfo string `json:"sustainabilityInfo" gorm:"column:sustainability_info"`
	GrowingInfo        string `json:"growingInfo"        gorm:"column:growing_info"`
	Image              string `json:"image"              gorm:"column:image"`
	SafetyProfile      string `json:"safetyProfile"      gorm:"column:safety_profile"`

	BenefitsRaw             string `json:"-" gorm:"column:benefits_raw"`
	PreparationsRaw         string `json:"-" gorm:"column:preparations_raw"`
	BenefitScoresRaw        string `json:"-" gorm:"column:benefit_scores_raw"`
	ComplementaryHerbsRaw   string `json:"-" gorm:"column:complementary_herbs_raw"`
	PartsRaw                string `json:"-" gorm:"column:parts_raw"`
	TraditionalUsesRaw      string `json:"-" gorm:"column:traditional_uses_raw"`
	ConstituentsRaw         string `json:"-" gorm:"column:constituents_raw"`
	ScientificResearchRaw   string `json:"-" gorm:"column:scientific_research_raw"`
	TagsRaw                 string `json:"-" gorm:"column:tags_raw"`
	AudienceRaw             string `json:"-" gorm:"column:audience_raw"`
	DetailedPreparationsRaw string `json:"-" gorm:"column:detailed_preparations_raw"`

	Benefits             []string          `json:"benefits"             gorm:"-"`
	Preparations         []string          `json:"preparations"         gorm:"-"`
	BenefitScores        map[string]int    `json:"benefitScores"        gorm:"-"`
	ComplementaryHerbs   []string          `json:"complementaryHerbs"   gorm:"-"`
	Parts                []string          `json:"parts"                gorm:"-"`
	TraditionalUses      []string          `json:"traditionalUses"      gorm:"-"`
	Constituents         []string          `json:"constituents"         gorm:"-"`
	ScientificResearch   []string          `json:"scientificResearch"   gorm:"-"`
	Tags                 []string          `json:"tags"                 gorm:"-"`
	Audience             []string          `json:"audience"             gorm:"-"`
	DetailedPreparations map[string]string `json:"detailedPreparations" gorm:"-"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Herb) TableName() string {
	return "herbs"
}

func (h *Herb) BeforeSave(tx *gorm.DB) error {
	h.BenefitsRaw = marshalStrings(h.Benefits)
	h.PreparationsRaw = marshalStrings(h.Preparations)
	h.ComplementaryHerbsRaw = marshalStrings(h.ComplementaryHerbs)
	h.PartsRaw = marshalStrings(h.Parts)
	h.TraditionalUsesRaw = marshalStrings(h.TraditionalUses)
	h.ConstituentsRaw = marshalStrings(h.Constituents)
	h.ScientificResearchRaw = marshalStrings(h.ScientificResearch)
	h.TagsRaw = marshalStrings(h.Tags)
	h.AudienceRaw = marshalStrings(h.Audience)

	scores, err := json.Marshal(h.BenefitScores)
	if err != nil {
		return err
	}
	h.BenefitScoresRaw = string(scores)

	preparations, err := json.Marshal(h.DetailedPreparations)
	if err != nil {
		return err
	}
	h.DetailedPreparationsRaw = string(preparations)

	return nil
}

func (h *Herb) AfterFind(tx *gorm.DB) error {
	h.Benefits = unmarshalStrings(h.BenefitsRaw)
	h.Preparations = unmarshalStrings(h.PreparationsRaw)
	h.ComplementaryHerbs = unmarshalStrings(h.ComplementaryHerbsRaw)
	h.Parts = unmarshalStrings(h.PartsRaw)
	h.TraditionalUses = unmarshalStrings(h.TraditionalUsesRaw)
	h.Constituents = unmarshalStrings(h.ConstituentsRaw)
	h.ScientificResearch = unmarshalStrings(h.ScientificResearchRaw)
	h.Tags = unmarshalStrings(h.TagsRaw)
	h.Audience = unmarshalStrings(h.AudienceRaw)

	h.BenefitScores = map[string]int{}
	if h.BenefitScoresRaw != "" {
		if err := json.Unmarshal([]byte(h.BenefitScoresRaw), &h.BenefitScores); err != nil {
			h.BenefitScores = map[string]int{}
		}
	}

	h.DetailedPreparations = map[string]string{}
	if h.DetailedPreparationsRaw != "" {
		if err := json.Unmarshal([]byte(h.DetailedPreparationsRaw), &h.DetailedPreparations); err != nil {
			h.DetailedPreparations = map[string]string{}
		}
	}

	return nil
}

func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}

	return string(data)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return []string{}
	}

	return values
}
