package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

type ExpertScoreRepository interface {
	// FindByExpert returns the single cached aggregate row for an expert.
	// Returns gorm.ErrRecordNotFound before the first calculation.
	FindByExpert(expertID uint) (*model.ExpertScore, error)
}

type expertScoreRepository struct {
	db *gorm.DB
}

func NewExpertScoreRepository(db *gorm.DB) ExpertScoreRepository {
	return &expertScoreRepository{db: db}
}

func (r *expertScoreRepository) FindByExpert(expertID uint) (*model.ExpertScore, error) {
	var score model.ExpertScore
	if err := r.db.Where("expert_id = ?", expertID).First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}
