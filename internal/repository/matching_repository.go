package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

// ExpertMatchCount is one row of the "most matched experts" analytics.
type ExpertMatchCount struct {
	ExpertID   uint  `json:"expert_id"`
	MatchCount int64 `json:"match_count"`
}

type MatchingRepository interface {
	Create(matching *model.Matching) error
	Save(matching *model.Matching) error
	FindByID(id uint) (*model.Matching, error)
	FindByIDWithDetails(id uint) (*model.Matching, error)
	FindByExpert(expertID uint) ([]model.Matching, error)
	FindByDemand(demandID uint) ([]model.Matching, error)
	// CountActiveByExpert counts PROPOSED/ACCEPTED/IN_PROGRESS matchings that
	// are still active; this is the availability factor input.
	CountActiveByExpert(expertID uint) (int64, error)
	StatusCounts() (map[model.MatchingStatus]int64, error)
	AverageActiveScore() (float64, error)
	TopMatchedExperts(limit int) ([]ExpertMatchCount, error)
}

type matchingRepository struct {
	db *gorm.DB
}

func NewMatchingRepository(db *gorm.DB) MatchingRepository {
	return &matchingRepository{db: db}
}

func (r *matchingRepository) Create(matching *model.Matching) error {
	return r.db.Create(matching).Error
}

func (r *matchingRepository) Save(matching *model.Matching) error {
	return r.db.Save(matching).Error
}

func (r *matchingRepository) FindByID(id uint) (*model.Matching, error) {
	var matching model.Matching
	if err := r.db.First(&matching, id).Error; err != nil {
		return nil, err
	}
	return &matching, nil
}

func (r *matchingRepository) FindByIDWithDetails(id uint) (*model.Matching, error) {
	var matching model.Matching
	err := r.db.Preload("Expert").Preload("Demand").First(&matching, id).Error
	if err != nil {
		return nil, err
	}
	return &matching, nil
}

func (r *matchingRepository) FindByExpert(expertID uint) ([]model.Matching, error) {
	var matchings []model.Matching
	err := r.db.
		Preload("Demand").
		Where("expert_id = ? AND is_active = ?", expertID, true).
		Order("created_at DESC").
		Find(&matchings).Error
	return matchings, err
}

func (r *matchingRepository) FindByDemand(demandID uint) ([]model.Matching, error) {
	var matchings []model.Matching
	err := r.db.
		Preload("Expert").
		Where("demand_id = ? AND is_active = ?", demandID, true).
		Order("match_score DESC").
		Find(&matchings).Error
	return matchings, err
}

func (r *matchingRepository) CountActiveByExpert(expertID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Matching{}).
		Where("expert_id = ? AND is_active = ? AND status IN ?",
			expertID, true, model.ActiveMatchingStatuses).
		Count(&count).Error
	return count, err
}

func (r *matchingRepository) StatusCounts() (map[model.MatchingStatus]int64, error) {
	var rows []struct {
		Status model.MatchingStatus
		Count  int64
	}
	err := r.db.Model(&model.Matching{}).
		Select("status, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.MatchingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *matchingRepository) AverageActiveScore() (float64, error) {
	var avg *float64
	err := r.db.Model(&model.Matching{}).
		Select("AVG(match_score)").
		Where("match_score IS NOT NULL AND is_active = ?", true).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *matchingRepository) TopMatchedExperts(limit int) ([]ExpertMatchCount, error) {
	var rows []ExpertMatchCount
	err := r.db.Model(&model.Matching{}).
		Select("expert_id, COUNT(*) as match_count").
		Where("is_active = ?", true).
		Group("expert_id").
		Order("match_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
