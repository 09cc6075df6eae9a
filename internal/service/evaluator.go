package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pathwise-app/backend/internal/llm"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// Outcome is the evaluator's tri-state verdict. Only the boolean collapse is
// persisted; Inconclusive maps to incorrect (fail-closed) but stays visible
// in logs.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
	OutcomeInconclusive
)

// Verdict is the result of evaluating one answer.
type Verdict struct {
	Outcome     Outcome
	IdealAnswer *string
	Feedback    *string
}

// IsCorrect collapses the tri-state to the persisted boolean.
func (v Verdict) IsCorrect() bool { return v.Outcome == OutcomeCorrect }

// EvaluatorService determines answer correctness: deterministically for
// multiple choice, via the judge model for free text.
type EvaluatorService interface {
	Evaluate(ctx context.Context, userID string, question *model.Question, response *string) Verdict
}

type evaluatorService struct {
	client       llm.Client
	questionRepo repository.QuestionRepository
	usageRepo    repository.UsageRepository
}

func NewEvaluatorService(
	client llm.Client,
	questionRepo repository.QuestionRepository,
	usageRepo repository.UsageRepository,
) EvaluatorService {
	return &evaluatorService{
		client:       client,
		questionRepo: questionRepo,
		usageRepo:    usageRepo,
	}
}

func (s *evaluatorService) Evaluate(ctx context.Context, userID string, question *model.Question, response *string) Verdict {
	// Skipped answers are incorrect without an evaluator call.
	if response == nil || strings.TrimSpace(*response) == "" {
		return Verdict{Outcome: OutcomeIncorrect, IdealAnswer: question.CorrectAnswer}
	}

	if question.Type == model.QuestionTypeMultipleChoice {
		return s.evaluateChoice(question, *response)
	}
	return s.judge(ctx, userID, question, *response)
}

// choiceLetter matches a standalone A-D, tolerant of prefixes like
// "Answer: B" or suffixes like "B. the second option".
var choiceLetter = regexp.MustCompile(`(?i)\b([a-d])\b`)

func extractChoice(raw string) string {
	m := choiceLetter.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

func (s *evaluatorService) evaluateChoice(question *model.Question, response string) Verdict {
	v := Verdict{Outcome: OutcomeIncorrect, IdealAnswer: question.CorrectAnswer}
	if question.CorrectAnswer == nil {
		// Multiple choice without a stored answer is filtered out at
		// generation time; treat a survivor as unanswerable.
		return v
	}
	submitted := extractChoice(response)
	expected := extractChoice(*question.CorrectAnswer)
	if submitted != "" && submitted == expected {
		v.Outcome = OutcomeCorrect
	}
	return v
}

// judgeResult mirrors the rubric schema. IsCorrect is a pointer so a
// missing or non-boolean field is distinguishable from false.
type judgeResult struct {
	IsCorrect   *bool  `json:"is_correct"`
	IdealAnswer string `json:"ideal_answer"`
	Feedback    string `json:"feedback"`
}

func (s *evaluatorService) judge(ctx context.Context, userID string, question *model.Question, answer string) Verdict {
	reference := ""
	if question.CorrectAnswer != nil {
		reference = *question.CorrectAnswer
	}

	fallback := Verdict{Outcome: OutcomeInconclusive, IdealAnswer: question.CorrectAnswer}

	resp, err := s.client.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: judgePrompt(question.Text, reference, question.Explanation, answer)}},
		Temperature: 0,
		MaxTokens:   1024,
		JSONMode:    true,
	})
	if err != nil {
		// Fail closed: the transport error never reaches the caller.
		log.Warn().Err(err).Uint("question_id", question.ID).Msg("Judge call failed, marking inconclusive")
		return fallback
	}
	recordUsage(s.usageRepo, userID, model.UsageKindJudge, resp)

	raw, ok := llm.ExtractJSON(resp.Text)
	if !ok {
		log.Warn().Uint("question_id", question.ID).Msg("Judge response had no JSON, marking inconclusive")
		return fallback
	}
	var result judgeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil || result.IsCorrect == nil {
		log.Warn().Uint("question_id", question.ID).Msg("Judge verdict missing or non-boolean, marking inconclusive")
		return fallback
	}

	v := Verdict{Outcome: OutcomeIncorrect}
	if *result.IsCorrect {
		v.Outcome = OutcomeCorrect
	}

	ideal := strings.TrimSpace(result.IdealAnswer)
	if ideal != "" {
		v.IdealAnswer = &ideal
		if question.CorrectAnswer == nil {
			// Lazy backfill: later attempts at this question reuse the
			// judge's reference instead of re-deriving it.
			if err := s.questionRepo.BackfillCorrectAnswer(question.ID, ideal); err != nil {
				log.Warn().Err(err).Uint("question_id", question.ID).Msg("Reference answer backfill failed")
			}
		}
	} else {
		v.IdealAnswer = question.CorrectAnswer
	}

	if fb := strings.TrimSpace(result.Feedback); fb != "" {
		v.Feedback = &fb
	}

	return v
}
