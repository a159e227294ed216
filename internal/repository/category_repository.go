package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.QuestionCategory) error
	FindByID(id uint) (*model.QuestionCategory, error)
	FindAll() ([]model.QuestionCategory, error)
	Update(category *model.QuestionCategory) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.QuestionCategory) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(id uint) (*model.QuestionCategory, error) {
	var category model.QuestionCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll() ([]model.QuestionCategory, error) {
	var categories []model.QuestionCategory
	err := r.db.Order("display_order ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *model.QuestionCategory) error {
	return r.db.Save(category).Error
}
