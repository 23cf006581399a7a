package herbs

import (
	"strings"

	"herbarium/internal/storage"

	"github.com/google/uuid"
)

type HerbRepository struct{}

func (r *HerbRepository) ListHerbs(category string, limit, offset int) ([]*Herb, error) {
	var results []*Herb

	query := storage.GetDb().Order("name ASC")

	if category != "" {
		query = query.Where("category = ?", category)
	}

	err := query.
		Limit(limit).
		Offset(offset).
		Find(&results).Error

	return results, err
}

func (r *HerbRepository) GetHerbByID(herbID uuid.UUID) (*Herb, error) {
	var herb Herb

	err := storage.GetDb().
		Where("id = ?", herbID).
		First(&herb).Error

	if err != nil {
		return nil, err
	}

	return &herb, nil
}

func (r *HerbRepository) ListCategories() ([]string, error) {
	var categories []string

	err := storage.GetDb().
		Model(&Herb{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error

	return categories, err
}

// likeEscaper neutralizes LIKE metacharacters so caller input is
// always matched as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *HerbRepository) SearchHerbs(query string, limit int) ([]*Herb, error) {
	var results []*Herb

	pattern := "%" + likeEscaper.Replace(query) + "%"

	err := storage.GetDb().
		Where("name ILIKE ? OR scientific_name ILIKE ? OR description ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&results).Error

	return results, err
}

func (r *HerbRepository) CreateHerb(herb *Herb) error {
	return storage.GetDb().Create(herb).Error
}
