package service

import (
	"testing"

	"expertmatch/internal/apperror"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newScoreService(t *testing.T) (ScoreService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewScoreService(
		repository.NewAnswerRepository(db),
		repository.NewExpertRepository(db),
		repository.NewExpertScoreRepository(db),
		db,
	), db
}

func gradeAnswer(t *testing.T, db *gorm.DB, answer *model.Answer, score float64) {
	t.Helper()
	require.NoError(t, db.Model(answer).Updates(map[string]interface{}{
		"score":  score,
		"status": model.AnswerStatusGraded,
	}).Error)
}

func TestCalculateExpertTotalScore(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, []string{"backend"}, 5)
	backend := createCategory(t, db, "Backend")
	frontend := createCategory(t, db, "Frontend")
	q1 := createQuestion(t, db, backend.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	q2 := createQuestion(t, db, backend.ID, model.QuestionTypeEssay, 20, nil, nil)
	q3 := createQuestion(t, db, frontend.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "A"}, nil)

	a1 := createAnswer(t, db, expert.ID, q1.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	a2 := createAnswer(t, db, expert.ID, q2.ID, 20, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "essay"})
	a3 := createAnswer(t, db, expert.ID, q3.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "A"})
	gradeAnswer(t, db, a1, 10)
	gradeAnswer(t, db, a2, 15)
	gradeAnswer(t, db, a3, 5)
	// Ungraded answers count toward TotalCount but not the aggregate.
	createAnswer(t, db, expert.ID, q1.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "A"})

	res, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.TotalScore)
	assert.Equal(t, 40.0, res.MaxPossibleScore)
	assert.Equal(t, 75.0, res.AveragePercentage)
	assert.Equal(t, 3, res.GradedCount)
	assert.Equal(t, 4, res.TotalCount)

	require.Len(t, res.CategoryScores, 2)
	assert.Equal(t, "Backend", res.CategoryScores[0].CategoryName)
	assert.Equal(t, 25.0, res.CategoryScores[0].Score)
	assert.Equal(t, 30.0, res.CategoryScores[0].MaxScore)
	assert.Equal(t, 83.3, res.CategoryScores[0].Percentage)
	assert.Equal(t, 2, res.CategoryScores[0].GradedCount)
	assert.Equal(t, "Frontend", res.CategoryScores[1].CategoryName)
	assert.Equal(t, 50.0, res.CategoryScores[1].Percentage)
}

func TestCalculateExpertTotalScoreIdempotent(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, nil, 5)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	answer := createAnswer(t, db, expert.ID, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	gradeAnswer(t, db, answer, 10)

	first, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)
	second, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)

	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.AveragePercentage, second.AveragePercentage)
	assert.Equal(t, first.GradedCount, second.GradedCount)

	// Still exactly one cached row.
	var count int64
	require.NoError(t, db.Model(&model.ExpertScore{}).
		Where("expert_id = ?", expert.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCalculateExpertTotalScorePreservesRanking(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, nil, 5)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	answer := createAnswer(t, db, expert.ID, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	gradeAnswer(t, db, answer, 10)

	_, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)

	// Simulate the ranking job.
	rank := 3
	percentile := 91.5
	require.NoError(t, db.Model(&model.ExpertScore{}).
		Where("expert_id = ?", expert.ID).
		Updates(map[string]interface{}{"rank": rank, "percentile": percentile}).Error)

	res, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Rank)
	assert.Equal(t, 3, *res.Rank)
	require.NotNil(t, res.Percentile)
	assert.Equal(t, 91.5, *res.Percentile)
}

func TestCalculateExpertTotalScoreNoGradedAnswers(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, nil, 5)

	res, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TotalScore)
	assert.Equal(t, 0.0, res.MaxPossibleScore)
	assert.Equal(t, 0.0, res.AveragePercentage, "zero max score must not divide by zero")
	assert.Equal(t, 0, res.GradedCount)
	assert.Empty(t, res.CategoryScores)
}

func TestCalculateExpertTotalScoreExpertNotFound(t *testing.T) {
	svc, _ := newScoreService(t)

	_, err := svc.CalculateExpertTotalScore(9999)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetExpertScoreBeforeCalculation(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, nil, 5)

	_, err := svc.GetExpertScore(expert.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetExpertScoreRoundTrip(t *testing.T) {
	svc, db := newScoreService(t)
	expert := createExpert(t, db, "alice", model.QualificationQualified, nil, 5)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	answer := createAnswer(t, db, expert.ID, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	gradeAnswer(t, db, answer, 8)

	calculated, err := svc.CalculateExpertTotalScore(expert.ID)
	require.NoError(t, err)

	fetched, err := svc.GetExpertScore(expert.ID)
	require.NoError(t, err)
	assert.Equal(t, calculated.TotalScore, fetched.TotalScore)
	assert.Equal(t, calculated.AveragePercentage, fetched.AveragePercentage)
	require.Len(t, fetched.CategoryScores, 1)
	assert.Equal(t, "Backend", fetched.CategoryScores[0].CategoryName)
	assert.Equal(t, 8.0, fetched.CategoryScores[0].Score)
}

func TestGetGradingProgress(t *testing.T) {
	svc, db := newScoreService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)

	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusDraft, datatypes.JSONMap{"value": "B"})
	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusSubmitted, datatypes.JSONMap{"value": "B"})
	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusGraded, datatypes.JSONMap{"value": "B"})
	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusReviewed, datatypes.JSONMap{"value": "B"})

	progress, err := svc.GetGradingProgress(7)
	require.NoError(t, err)
	assert.EqualValues(t, 4, progress.TotalAnswers)
	assert.EqualValues(t, 2, progress.GradedAnswers)
	assert.EqualValues(t, 1, progress.PendingAnswers)
	assert.EqualValues(t, 1, progress.DraftCount)
	assert.Equal(t, 50.0, progress.ProgressPercentage)
}

func TestGetGradingStatistics(t *testing.T) {
	svc, db := newScoreService(t)
	createExpert(t, db, "alice", model.QualificationQualified, nil, 5)
	createExpert(t, db, "bob", model.QualificationPending, nil, 2)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)

	a1 := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	gradeAnswer(t, db, a1, 10)
	a2 := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "A"})
	gradeAnswer(t, db, a2, 4)
	createAnswer(t, db, 2, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})

	stats, err := svc.GetGradingStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalExperts)
	assert.EqualValues(t, 2, stats.ExpertsWithSubmissions)
	assert.EqualValues(t, 3, stats.TotalAnswers)
	assert.EqualValues(t, 2, stats.GradedAnswers)
	assert.EqualValues(t, 1, stats.PendingAnswers)
	assert.Equal(t, 7.0, stats.AverageScore)
	assert.Equal(t, 10.0, stats.HighestScore)
	assert.Equal(t, 4.0, stats.LowestScore)
	require.Len(t, stats.CategoryStats, 1)
	assert.Equal(t, "Backend", stats.CategoryStats[0].CategoryName)
	assert.Equal(t, 2, stats.CategoryStats[0].AnswerCount)
	assert.Equal(t, 14.0, stats.CategoryStats[0].TotalScore)
}
