package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

type ExpertRepository interface {
	Create(expert *model.Expert) error
	Update(expert *model.Expert) error
	FindByID(id uint) (*model.Expert, error)
	// FindCandidates returns active experts eligible for matching, i.e.
	// QUALIFIED or PENDING. Ordered by id so ranking ties stay stable.
	FindCandidates() ([]model.Expert, error)
	Count() (int64, error)
}

type expertRepository struct {
	db *gorm.DB
}

func NewExpertRepository(db *gorm.DB) ExpertRepository {
	return &expertRepository{db: db}
}

func (r *expertRepository) Create(expert *model.Expert) error {
	return r.db.Create(expert).Error
}

func (r *expertRepository) Update(expert *model.Expert) error {
	return r.db.Save(expert).Error
}

func (r *expertRepository) FindByID(id uint) (*model.Expert, error) {
	var expert model.Expert
	if err := r.db.First(&expert, id).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepository) FindCandidates() ([]model.Expert, error) {
	var experts []model.Expert
	err := r.db.
		Where("is_active = ? AND qualification_status IN ?", true,
			[]model.QualificationStatus{model.QualificationQualified, model.QualificationPending}).
		Order("id ASC").
		Find(&experts).Error
	return experts, err
}

func (r *expertRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Expert{}).Count(&count).Error
	return count, err
}
