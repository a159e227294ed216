package repository

import (
	"expertmatch/internal/model"

	"gorm.io/gorm"
)

// ScoreStats carries aggregate answer score figures for the dashboard.
type ScoreStats struct {
	Average float64
	Highest float64
	Lowest  float64
}

// CategoryStat is one category's row in the grading dashboard.
type CategoryStat struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	AnswerCount  int     `json:"answer_count"`
	TotalScore   float64 `json:"total_score"`
}

type AnswerRepository interface {
	Create(answer *model.Answer) error
	Save(answer *model.Answer) error
	FindByID(id uint) (*model.Answer, error)
	FindByIDWithQuestion(id uint) (*model.Answer, error)
	// FindDraft looks up the reusable draft row for (expert, question).
	// Returns gorm.ErrRecordNotFound when no draft exists.
	FindDraft(expertID, questionID uint) (*model.Answer, error)
	FindByExpert(expertID uint) ([]model.Answer, error)
	// FindGradedByExpert returns GRADED/REVIEWED answers with their question
	// and category preloaded, ordered by id for deterministic aggregation.
	FindGradedByExpert(expertID uint) ([]model.Answer, error)
	// FindSubmittedObjectiveByExpert returns SUBMITTED answers whose question
	// is auto-gradable (single or multiple choice).
	FindSubmittedObjectiveByExpert(expertID uint) ([]model.Answer, error)
	CountByExpert(expertID uint) (int64, error)
	StatusCountsByExpert(expertID uint) (map[model.AnswerStatus]int64, error)
	// MarkDraftsSubmitted finalizes all drafts of an expert, returning the
	// number of rows moved.
	MarkDraftsSubmitted(expertID uint) (int64, error)

	// Dashboard aggregates.
	CountNonDraft() (int64, error)
	CountGraded() (int64, error)
	CountDistinctExpertsNonDraft() (int64, error)
	ScoreStats() (*ScoreStats, error)
	CategoryStats() ([]CategoryStat, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.Answer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) Save(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByIDWithQuestion(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.Preload("Question").Preload("Question.Category").First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindDraft(expertID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.
		Where("expert_id = ? AND question_id = ? AND status = ?",
			expertID, questionID, model.AnswerStatusDraft).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByExpert(expertID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Where("expert_id = ?", expertID).
		Order("created_at ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindGradedByExpert(expertID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Preload("Question").
		Preload("Question.Category").
		Where("expert_id = ? AND status IN ?", expertID,
			[]model.AnswerStatus{model.AnswerStatusGraded, model.AnswerStatusReviewed}).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindSubmittedObjectiveByExpert(expertID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.
		Preload("Question").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.expert_id = ? AND answers.status = ? AND questions.type IN ?",
			expertID, model.AnswerStatusSubmitted,
			[]model.QuestionType{model.QuestionTypeSingle, model.QuestionTypeMultiple}).
		Order("answers.id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByExpert(expertID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("expert_id = ?", expertID).Count(&count).Error
	return count, err
}

func (r *answerRepository) StatusCountsByExpert(expertID uint) (map[model.AnswerStatus]int64, error) {
	var rows []struct {
		Status model.AnswerStatus
		Count  int64
	}
	err := r.db.Model(&model.Answer{}).
		Select("status, COUNT(*) as count").
		Where("expert_id = ?", expertID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.AnswerStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *answerRepository) MarkDraftsSubmitted(expertID uint) (int64, error) {
	result := r.db.Model(&model.Answer{}).
		Where("expert_id = ? AND status = ?", expertID, model.AnswerStatusDraft).
		Update("status", model.AnswerStatusSubmitted)
	return result.RowsAffected, result.Error
}

func (r *answerRepository) CountNonDraft() (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("status <> ?", model.AnswerStatusDraft).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) CountGraded() (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("status IN ?", []model.AnswerStatus{model.AnswerStatusGraded, model.AnswerStatusReviewed}).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) CountDistinctExpertsNonDraft() (int64, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).
		Where("status <> ?", model.AnswerStatusDraft).
		Distinct("expert_id").
		Count(&count).Error
	return count, err
}

func (r *answerRepository) ScoreStats() (*ScoreStats, error) {
	var stats struct {
		Average *float64
		Highest *float64
		Lowest  *float64
	}
	err := r.db.Model(&model.Answer{}).
		Select("AVG(score) as average, MAX(score) as highest, MIN(score) as lowest").
		Where("score IS NOT NULL").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	out := &ScoreStats{}
	if stats.Average != nil {
		out.Average = *stats.Average
	}
	if stats.Highest != nil {
		out.Highest = *stats.Highest
	}
	if stats.Lowest != nil {
		out.Lowest = *stats.Lowest
	}
	return out, nil
}

func (r *answerRepository) CategoryStats() ([]CategoryStat, error) {
	var stats []CategoryStat
	err := r.db.Model(&model.QuestionCategory{}).
		Select("question_categories.id as category_id, question_categories.name as category_name, COUNT(answers.id) as answer_count, COALESCE(SUM(answers.score), 0) as total_score").
		Joins("JOIN questions ON questions.category_id = question_categories.id").
		Joins("JOIN answers ON answers.question_id = questions.id").
		Where("answers.status IN ?", []model.AnswerStatus{model.AnswerStatusGraded, model.AnswerStatusReviewed}).
		Group("question_categories.id, question_categories.name").
		Scan(&stats).Error
	return stats, err
}
