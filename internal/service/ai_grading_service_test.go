package service

import (
	"strings"
	"testing"

	"expertmatch/internal/apperror"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newAIGradingService(t *testing.T) (AIGradingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAIGradingService(repository.NewAnswerRepository(db)), db
}

func TestAIGradeRejectsObjectiveQuestions(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})

	_, err := svc.AIGradeSubjective(answer.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotSubjective, apperror.KindOf(err))
}

func TestAIGradeEmptyResponse(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil,
		datatypes.JSONMap{"keywords": []interface{}{"goroutine"}})
	answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "   "})

	res, err := svc.AIGradeSubjective(answer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SuggestedScore)
	assert.Equal(t, 1.0, res.Confidence, "an empty answer is graded 0 with full confidence")
	assert.Equal(t, "Empty response.", res.Reasoning)
}

func TestAIGradeKeywordComponent(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil,
		datatypes.JSONMap{"keywords": []interface{}{"goroutine", "channel"}})

	t.Run("half of keywords matched", func(t *testing.T) {
		answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "A goroutine is a lightweight thread."})

		res, err := svc.AIGradeSubjective(answer.ID)
		require.NoError(t, err)
		// 1/2 keywords * 0.5 weight * 10 points
		assert.Equal(t, 2.5, res.SuggestedScore)
		assert.Equal(t, []string{"goroutine"}, res.MatchedKeywords)
		assert.Equal(t, 25.0, res.RubricCoverage)
		assert.Equal(t, 0.7, res.Confidence)
		assert.True(t, strings.HasPrefix(res.Reasoning, "keyword matches: 1/2"))
	})

	t.Run("all keywords matched", func(t *testing.T) {
		answer := createAnswer(t, db, 2, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "Goroutine communication happens over a channel."})

		res, err := svc.AIGradeSubjective(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, res.SuggestedScore)
		assert.Equal(t, 50.0, res.RubricCoverage)
	})

	t.Run("more keywords never lower the score", func(t *testing.T) {
		one := createAnswer(t, db, 3, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "only goroutine here"})
		both := createAnswer(t, db, 3, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "goroutine and channel here"})

		resOne, err := svc.AIGradeSubjective(one.ID)
		require.NoError(t, err)
		resBoth, err := svc.AIGradeSubjective(both.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, resBoth.SuggestedScore, resOne.SuggestedScore)
	})
}

func TestAIGradeCriteriaComponent(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil,
		datatypes.JSONMap{
			"criteria": []interface{}{
				map[string]interface{}{
					"description": "mentions concurrency",
					"keywords":    []interface{}{"concurrency"},
					"weight":      1.0,
				},
				map[string]interface{}{
					"description": "mentions scheduling",
					"keywords":    []interface{}{"scheduler"},
					"weight":      1.0,
				},
			},
		})
	answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "Concurrency is handled by the runtime."})

	res, err := svc.AIGradeSubjective(answer.ID)
	require.NoError(t, err)
	// 1.0 weight / 2 criteria * 0.5 weight * 10 points
	assert.Equal(t, 2.5, res.SuggestedScore)
	assert.Equal(t, 25.0, res.RubricCoverage)
	assert.Contains(t, res.Reasoning, `criterion "mentions concurrency" satisfied`)
}

func TestAIGradeEssayConfidenceAdjustment(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeEssay, 20, nil,
		datatypes.JSONMap{"keywords": []interface{}{"design"}})

	t.Run("short essay dampens confidence", func(t *testing.T) {
		answer := createAnswer(t, db, 1, question.ID, 20, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "A short design note."})

		res, err := svc.AIGradeSubjective(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.56, res.Confidence)
		assert.Contains(t, res.Reasoning, "short response")
	})

	t.Run("long essay raises confidence", func(t *testing.T) {
		long := strings.Repeat("the design considers tradeoffs carefully and ", 50)
		answer := createAnswer(t, db, 2, question.ID, 20, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": long})

		res, err := svc.AIGradeSubjective(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.77, res.Confidence)
	})
}

func TestAIGradeWithoutRubric(t *testing.T) {
	svc, db := newAIGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil, nil)
	answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "some answer"})

	res, err := svc.AIGradeSubjective(answer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SuggestedScore)
	assert.Equal(t, 0.0, res.RubricCoverage)
	assert.Equal(t, "partial match against the scoring rubric", res.Reasoning)
}
