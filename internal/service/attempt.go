package service

import (
	"context"
	"errors"

	"github.com/pathwise-app/backend/internal/dto"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle: open → completed, with the
// completion transition claimed atomically in storage so the plan pipeline
// runs exactly once per attempt.
type AttemptService interface {
	StartAttempt(ctx context.Context, userID string, testID uint) (*dto.AttemptDTO, error)
	SubmitAnswer(ctx context.Context, userID string, attemptID, questionID uint, response *string) (*dto.SubmitAnswerResponse, error)
	GetAttemptDetails(ctx context.Context, userID string, attemptID uint) (*dto.AttemptDetailDTO, error)
}

type attemptService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	evaluator    EvaluatorService
	planSvc      PlanService
}

func NewAttemptService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	evaluator EvaluatorService,
	planSvc PlanService,
) AttemptService {
	return &attemptService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		evaluator:    evaluator,
		planSvc:      planSvc,
	}
}

func (s *attemptService) StartAttempt(ctx context.Context, userID string, testID uint) (*dto.AttemptDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if test.UserID != userID {
		return nil, ErrForbidden
	}

	attempt := &model.Attempt{
		UserID: userID,
		TestID: test.ID,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", userID).Uint("attempt_id", attempt.ID).Uint("test_id", test.ID).Msg("Attempt started")
	return &dto.AttemptDTO{
		AttemptID: attempt.ID,
		TestID:    attempt.TestID,
		Completed: attempt.Completed,
		StartedAt: attempt.StartedAt,
	}, nil
}

func (s *attemptService) SubmitAnswer(ctx context.Context, userID string, attemptID, questionID uint, response *string) (*dto.SubmitAnswerResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrForbidden
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if question.TestID != attempt.TestID {
		return nil, ErrTypeMismatch
	}

	verdict := s.evaluator.Evaluate(ctx, userID, question, response)

	record := &model.AnswerRecord{
		AttemptID:   attempt.ID,
		QuestionID:  question.ID,
		Response:    response,
		IsCorrect:   verdict.IsCorrect(),
		IdealAnswer: verdict.IdealAnswer,
		Feedback:    verdict.Feedback,
	}
	// The unique (attempt_id, question_id) index arbitrates concurrent
	// submissions; a resubmission updates in place and the answered count
	// cannot be inflated.
	if err := s.answerRepo.Upsert(record); err != nil {
		return nil, err
	}

	// Counts are read fresh from storage on every call, never cached.
	answered, err := s.answerRepo.CountByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}
	total, err := s.testRepo.CountQuestions(attempt.TestID)
	if err != nil {
		return nil, err
	}

	result := &dto.SubmitAnswerResponse{
		IsCorrect: verdict.IsCorrect(),
		Answered:  int(answered),
		Total:     int(total),
		Completed: attempt.Completed,
	}

	if total > 0 && answered >= total && !attempt.Completed {
		// Synthesis inputs are loaded before the completion claim. A read
		// failure here returns an error with the claim still unconsumed,
		// so a retried submission can complete the attempt; after the
		// claim nothing can fail, since Synthesize always returns a plan.
		test, err := s.testRepo.FindByID(attempt.TestID)
		if err != nil {
			return nil, err
		}
		answers, err := s.answerRepo.FindByAttemptID(attempt.ID)
		if err != nil {
			return nil, err
		}

		claimed, err := s.attemptRepo.MarkCompleted(attempt.ID)
		if err != nil {
			return nil, err
		}
		result.Completed = true
		if claimed {
			// This call won the completion claim: synthesize the plan
			// within the same request.
			result.Results = answerResults(answers)
			result.Plan = s.planSvc.Synthesize(ctx, test, result.Results)

			log.Info().
				Str("user_id", attempt.UserID).
				Uint("attempt_id", attempt.ID).
				Int("answered", result.Answered).
				Msg("Attempt completed, plan attached")
		}
	}

	return result, nil
}

func (s *attemptService) GetAttemptDetails(ctx context.Context, userID string, attemptID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrForbidden
	}

	total, err := s.testRepo.CountQuestions(attempt.TestID)
	if err != nil {
		return nil, err
	}

	detail := &dto.AttemptDetailDTO{
		AttemptID:   attempt.ID,
		TestID:      attempt.TestID,
		Topic:       attempt.Test.Topic,
		Completed:   attempt.Completed,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Answered:    len(attempt.Answers),
		Total:       int(total),
	}
	if attempt.Completed {
		detail.Results = answerResults(attempt.Answers)
	}
	return detail, nil
}

func answerResults(answers []model.AnswerRecord) []dto.AnswerResultDTO {
	out := make([]dto.AnswerResultDTO, 0, len(answers))
	for _, a := range answers {
		out = append(out, dto.AnswerResultDTO{
			QuestionID:  a.QuestionID,
			Concept:     a.Question.Concept,
			Question:    a.Question.Text,
			Response:    a.Response,
			IsCorrect:   a.IsCorrect,
			IdealAnswer: a.IdealAnswer,
			Feedback:    a.Feedback,
			Explanation: a.Question.Explanation,
		})
	}
	return out
}
