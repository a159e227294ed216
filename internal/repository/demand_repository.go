package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

type DemandRepository interface {
	Create(demand *model.Demand) error
	Update(demand *model.Demand) error
	FindByID(id uint) (*model.Demand, error)
	FindAll() ([]model.Demand, error)
}

type demandRepository struct {
	db *gorm.DB
}

func NewDemandRepository(db *gorm.DB) DemandRepository {
	return &demandRepository{db: db}
}

func (r *demandRepository) Create(demand *model.Demand) error {
	return r.db.Create(demand).Error
}

func (r *demandRepository) Update(demand *model.Demand) error {
	return r.db.Save(demand).Error
}

func (r *demandRepository) FindByID(id uint) (*model.Demand, error) {
	var demand model.Demand
	if err := r.db.First(&demand, id).Error; err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *demandRepository) FindAll() ([]model.Demand, error) {
	var demands []model.Demand
	err := r.db.Order("priority DESC, created_at DESC").Find(&demands).Error
	return demands, err
}
