package service

import (
	"testing"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newGradingService(t *testing.T) (GradingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewGradingService(
		repository.NewAnswerRepository(db),
		repository.NewQuestionRepository(db),
	), db
}

func TestAutoGradeSingleChoice(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)

	t.Run("exact match earns full score", func(t *testing.T) {
		answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": "B"})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, res.Score)
		assert.True(t, res.IsCorrect)
		assert.Equal(t, "Correct.", res.Feedback)

		var stored model.Answer
		require.NoError(t, db.First(&stored, answer.ID).Error)
		assert.Equal(t, model.AnswerStatusGraded, stored.Status)
		require.NotNil(t, stored.Score)
		assert.Equal(t, 10.0, *stored.Score)
		require.NotNil(t, stored.IsCorrect)
		assert.True(t, *stored.IsCorrect)
	})

	t.Run("wrong choice earns zero", func(t *testing.T) {
		answer := createAnswer(t, db, 2, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": "A"})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Incorrect. Correct answer: B", res.Feedback)
	})

	t.Run("missing value earns zero", func(t *testing.T) {
		answer := createAnswer(t, db, 3, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.False(t, res.IsCorrect)
	})
}

func TestAutoGradeSingleChoiceUsesExplanation(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	explanation := "B is the only stable option."
	question := &model.Question{
		CategoryID:    category.ID,
		Type:          model.QuestionTypeSingle,
		Content:       "q",
		CorrectAnswer: datatypes.JSONMap{"value": "B"},
		MaxScore:      5,
		Difficulty:    model.DifficultyEasy,
		Explanation:   &explanation,
		IsActive:      true,
	}
	require.NoError(t, db.Create(question).Error)

	answer := createAnswer(t, db, 1, question.ID, 5, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})

	res, err := svc.AutoGrade(answer.ID)
	require.NoError(t, err)
	assert.Equal(t, explanation, res.Feedback)
}

func TestAutoGradeMultipleChoice(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeMultiple, 10,
		datatypes.JSONMap{"value": []interface{}{"A", "C"}}, nil)

	t.Run("exact set earns full score", func(t *testing.T) {
		answer := createAnswer(t, db, 1, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": []interface{}{"C", "A"}})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, res.Score)
		assert.True(t, res.IsCorrect)
	})

	t.Run("correct subset earns proportional partial credit", func(t *testing.T) {
		answer := createAnswer(t, db, 2, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": []interface{}{"A"}})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, res.Score)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Partially correct (1/2). Earned score: 5.0/10", res.Feedback)
	})

	t.Run("any wrong option zeroes the score", func(t *testing.T) {
		answer := createAnswer(t, db, 3, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": []interface{}{"A", "B"}})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, "Incorrect. Wrong options were selected. Correct answer: A, C", res.Feedback)
	})

	t.Run("empty selection earns zero", func(t *testing.T) {
		answer := createAnswer(t, db, 4, question.ID, 10, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"value": []interface{}{}})

		res, err := svc.AutoGrade(answer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.False(t, res.IsCorrect)
	})
}

func TestAutoGradeRejectsSubjectiveQuestions(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeEssay, 20, nil, nil)
	answer := createAnswer(t, db, 1, question.ID, 20, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "an essay"})

	_, err := svc.AutoGrade(answer.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnsupportedQuestionType, apperror.KindOf(err))

	// The failed attempt must not have touched the answer.
	var stored model.Answer
	require.NoError(t, db.First(&stored, answer.ID).Error)
	assert.Equal(t, model.AnswerStatusSubmitted, stored.Status)
	assert.Nil(t, stored.Score)
}

func TestAutoGradeAnswerNotFound(t *testing.T) {
	svc, _ := newGradingService(t)

	_, err := svc.AutoGrade(9999)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestManualGrade(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeEssay, 20, nil, nil)

	t.Run("stores score, grader, and comment", func(t *testing.T) {
		correct := true
		answer := createAnswer(t, db, 1, question.ID, 20, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "an essay"})
		require.NoError(t, db.Model(answer).Update("is_correct", &correct).Error)

		comment := "solid reasoning"
		res, err := svc.ManualGrade(42, dto.ManualGradeRequest{
			AnswerID:      answer.ID,
			Score:         15.5,
			GraderComment: &comment,
		})
		require.NoError(t, err)
		require.NotNil(t, res.Score)
		assert.Equal(t, 15.5, *res.Score)
		assert.Equal(t, string(model.AnswerStatusGraded), res.Status)
		require.NotNil(t, res.GraderID)
		assert.Equal(t, uint(42), *res.GraderID)

		// Manual grading clears any stale correctness flag.
		var stored model.Answer
		require.NoError(t, db.First(&stored, answer.ID).Error)
		assert.Nil(t, stored.IsCorrect)
	})

	t.Run("boundary scores are accepted", func(t *testing.T) {
		for _, score := range []float64{0, 20} {
			answer := createAnswer(t, db, 2, question.ID, 20, model.AnswerStatusSubmitted,
				datatypes.JSONMap{"text": "an essay"})
			_, err := svc.ManualGrade(42, dto.ManualGradeRequest{AnswerID: answer.ID, Score: score})
			require.NoError(t, err)
		}
	})

	t.Run("out of range scores are rejected", func(t *testing.T) {
		answer := createAnswer(t, db, 3, question.ID, 20, model.AnswerStatusSubmitted,
			datatypes.JSONMap{"text": "an essay"})

		for _, score := range []float64{-0.5, 20.5} {
			_, err := svc.ManualGrade(42, dto.ManualGradeRequest{AnswerID: answer.ID, Score: score})
			require.Error(t, err)
			assert.Equal(t, apperror.KindScoreOutOfRange, apperror.KindOf(err))
		}

		var stored model.Answer
		require.NoError(t, db.First(&stored, answer.ID).Error)
		assert.Nil(t, stored.Score)
		assert.Equal(t, model.AnswerStatusSubmitted, stored.Status)
	})
}

func TestSubmitAnswerDraftUpsert(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil, nil)

	first, err := svc.SubmitAnswer(dto.SubmitAnswerRequest{
		ExpertID:     7,
		QuestionID:   question.ID,
		ResponseData: map[string]interface{}{"text": "first try"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, string(model.AnswerStatusDraft), first.Status)
	assert.Equal(t, 10, first.MaxScore)

	second, err := svc.SubmitAnswer(dto.SubmitAnswerRequest{
		ExpertID:     7,
		QuestionID:   question.ID,
		ResponseData: map[string]interface{}{"text": "second try"},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "draft resubmission must reuse the row")
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, "second try", second.ResponseData["text"])

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitAnswerAfterFinalizeCreatesNewRow(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeShort, 10, nil, nil)

	first, err := svc.SubmitAnswer(dto.SubmitAnswerRequest{
		ExpertID:     7,
		QuestionID:   question.ID,
		ResponseData: map[string]interface{}{"text": "first try"},
	})
	require.NoError(t, err)

	finalized, err := svc.FinalizeAnswers(7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, finalized.SubmittedCount)

	// Once the draft left DRAFT, a new submission starts an independent row.
	second, err := svc.SubmitAnswer(dto.SubmitAnswerRequest{
		ExpertID:     7,
		QuestionID:   question.ID,
		ResponseData: map[string]interface{}{"text": "post-submit try"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Version)

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).
		Where("expert_id = ? AND question_id = ?", 7, question.ID).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSubmitAnswerQuestionNotFound(t *testing.T) {
	svc, _ := newGradingService(t)

	_, err := svc.SubmitAnswer(dto.SubmitAnswerRequest{
		ExpertID:     7,
		QuestionID:   9999,
		ResponseData: map[string]interface{}{"text": "x"},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestBatchAutoGrade(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	single := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)
	multiple := createQuestion(t, db, category.ID, model.QuestionTypeMultiple, 10,
		datatypes.JSONMap{"value": []interface{}{"A", "C"}}, nil)
	essay := createQuestion(t, db, category.ID, model.QuestionTypeEssay, 20, nil, nil)

	createAnswer(t, db, 7, single.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})
	createAnswer(t, db, 7, multiple.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": []interface{}{"A"}})
	// Subjective answers never enter the batch.
	createAnswer(t, db, 7, essay.ID, 20, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"text": "essay"})
	// Drafts never enter the batch.
	createAnswer(t, db, 7, single.ID, 10, model.AnswerStatusDraft,
		datatypes.JSONMap{"value": "B"})
	// Other experts are untouched.
	createAnswer(t, db, 8, single.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "B"})

	res, err := svc.BatchAutoGrade(7)
	require.NoError(t, err)
	assert.Equal(t, 7, int(res.ExpertID))
	assert.Equal(t, 2, res.GradedCount)
	assert.Empty(t, res.Failures)

	var graded int64
	require.NoError(t, db.Model(&model.Answer{}).
		Where("expert_id = ? AND status = ?", 7, model.AnswerStatusGraded).
		Count(&graded).Error)
	assert.EqualValues(t, 2, graded)
}

func TestGetExpertAnswersSummaryExcludesDrafts(t *testing.T) {
	svc, db := newGradingService(t)
	category := createCategory(t, db, "Backend")
	question := createQuestion(t, db, category.ID, model.QuestionTypeSingle, 10,
		datatypes.JSONMap{"value": "B"}, nil)

	score := 8.0
	graded := createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusGraded,
		datatypes.JSONMap{"value": "B"})
	require.NoError(t, db.Model(graded).Update("score", &score).Error)
	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusSubmitted,
		datatypes.JSONMap{"value": "A"})
	createAnswer(t, db, 7, question.ID, 10, model.AnswerStatusDraft,
		datatypes.JSONMap{"value": "C"})

	summary, err := svc.GetExpertAnswersSummary(7)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.AnsweredCount)
	assert.Equal(t, 8.0, summary.TotalScore)
	assert.Equal(t, 20.0, summary.MaxTotalScore)
	assert.Equal(t, 40.0, summary.AverageScore)
}
