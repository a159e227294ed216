package service

import (
	"path/filepath"
	"testing"

	"expertmatch/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.QuestionCategory{},
		&model.Question{},
		&model.Answer{},
		&model.Expert{},
		&model.Demand{},
		&model.Matching{},
		&model.ExpertScore{},
	))
	return db
}

func createCategory(t *testing.T, db *gorm.DB, name string) *model.QuestionCategory {
	t.Helper()
	category := &model.QuestionCategory{Name: name, Weight: 10, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createQuestion(t *testing.T, db *gorm.DB, categoryID uint, qType model.QuestionType, maxScore int, correctAnswer, rubric datatypes.JSONMap) *model.Question {
	t.Helper()
	question := &model.Question{
		CategoryID:    categoryID,
		Type:          qType,
		Content:       "test question",
		CorrectAnswer: correctAnswer,
		ScoringRubric: rubric,
		MaxScore:      maxScore,
		Difficulty:    model.DifficultyMedium,
		IsActive:      true,
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func createAnswer(t *testing.T, db *gorm.DB, expertID, questionID uint, maxScore int, status model.AnswerStatus, responseData datatypes.JSONMap) *model.Answer {
	t.Helper()
	answer := &model.Answer{
		ExpertID:     expertID,
		QuestionID:   questionID,
		Version:      1,
		ResponseData: responseData,
		MaxScore:     maxScore,
		Status:       status,
	}
	require.NoError(t, db.Create(answer).Error)
	return answer
}

func createExpert(t *testing.T, db *gorm.DB, name string, status model.QualificationStatus, specialties []string, careerYears int) *model.Expert {
	t.Helper()
	expert := &model.Expert{
		Name:                name,
		Email:               name + "@example.com",
		QualificationStatus: status,
		Specialties:         datatypes.NewJSONSlice(specialties),
		CareerYears:         careerYears,
		IsActive:            true,
	}
	require.NoError(t, db.Create(expert).Error)
	return expert
}

func createDemand(t *testing.T, db *gorm.DB, company string, requiredSpecialties []string, minCareerYears int) *model.Demand {
	t.Helper()
	demand := &model.Demand{
		CompanyName:         company,
		Title:               company + " demand",
		RequiredSpecialties: datatypes.NewJSONSlice(requiredSpecialties),
		MinCareerYears:      minCareerYears,
		ExpertCount:         1,
		Status:              model.DemandStatusPending,
		Priority:            3,
		IsActive:            true,
	}
	require.NoError(t, db.Create(demand).Error)
	return demand
}
