package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pathwise-app/backend/internal/dto"
	"github.com/pathwise-app/backend/internal/llm"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// TestGeneratorService builds, validates and persists a placement test.
type TestGeneratorService interface {
	GenerateTest(ctx context.Context, userID, goal, experience string) (*dto.TestDTO, error)
}

type testGeneratorService struct {
	client    llm.Client
	testRepo  repository.TestRepository
	usageRepo repository.UsageRepository
}

func NewTestGeneratorService(
	client llm.Client,
	testRepo repository.TestRepository,
	usageRepo repository.UsageRepository,
) TestGeneratorService {
	return &testGeneratorService{
		client:    client,
		testRepo:  testRepo,
		usageRepo: usageRepo,
	}
}

// generatedTest mirrors the schema the assessment prompt demands.
type generatedTest struct {
	Topic         string              `json:"topic"`
	Prerequisites []string            `json:"prerequisites"`
	Questions     []generatedQuestion `json:"questions"`
}

type generatedQuestion struct {
	Concept       string   `json:"concept"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

func (s *testGeneratorService) GenerateTest(ctx context.Context, userID, goal, experience string) (*dto.TestDTO, error) {
	bucket := gapBucket(experience)
	prompt := assessmentPrompt(goal, experience, questionTarget(bucket))

	parsed := s.attempt(ctx, userID, prompt, false)
	if parsed == nil {
		// One retry with a stricter format directive and provider JSON mode.
		log.Warn().Str("user_id", userID).Msg("First generation attempt invalid, retrying with JSON mode")
		parsed = s.attempt(ctx, userID, prompt+jsonOnlyDirective, true)
	}
	if parsed == nil {
		// Nothing has been persisted, so the failure is a clean no-op.
		return nil, ErrGenerationFailed
	}

	questions := normalizeQuestions(parsed.Questions)
	if len(questions) == 0 {
		return nil, ErrGenerationFailed
	}

	topic := strings.TrimSpace(parsed.Topic)
	if topic == "" {
		topic = goal
	}

	test := &model.Test{
		UserID:         userID,
		Topic:          topic,
		Goal:           goal,
		Experience:     experience,
		Model:          s.client.ModelID(),
		TotalQuestions: len(questions),
		Questions:      questions,
	}
	if err := s.testRepo.CreateWithQuestions(test); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to persist generated test")
		return nil, err
	}

	resp := &dto.TestDTO{
		TestID:         test.ID,
		Topic:          test.Topic,
		TotalQuestions: test.TotalQuestions,
		Questions:      make([]dto.QuestionDTO, 0, len(test.Questions)),
	}
	for _, q := range test.Questions {
		// QuestionDTO has no correct-answer or explanation fields, so the
		// copy cannot leak them.
		var qd dto.QuestionDTO
		if err := copier.Copy(&qd, &q); err != nil {
			log.Error().Err(err).Uint("question_id", q.ID).Msg("Failed to map question to DTO")
			continue
		}
		resp.Questions = append(resp.Questions, qd)
	}

	log.Info().
		Str("user_id", userID).
		Uint("test_id", test.ID).
		Int("questions", test.TotalQuestions).
		Str("bucket", bucket).
		Msg("Placement test generated")
	return resp, nil
}

// attempt runs one generation call and returns the parsed test, or nil when
// the output lacks a non-empty questions array. Usage is recorded either way
// since the call was billed.
func (s *testGeneratorService) attempt(ctx context.Context, userID, prompt string, jsonMode bool) *generatedTest {
	resp, err := s.client.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   4096,
		JSONMode:    jsonMode,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Assessment generation call failed")
		return nil
	}
	recordUsage(s.usageRepo, userID, model.UsageKindAssessment, resp)

	raw, ok := llm.ExtractJSON(resp.Text)
	if !ok {
		return nil
	}
	var parsed generatedTest
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Warn().Err(err).Msg("Assessment response did not unmarshal")
		return nil
	}
	if len(parsed.Questions) == 0 {
		return nil
	}
	return &parsed
}

// normalizeQuestions enforces the question contract: a multiple_choice
// declaration is coerced down to text unless it carries at least two
// sanitized options and a usable correct answer; questions with no text are
// dropped; order positions are assigned sequentially.
func normalizeQuestions(raw []generatedQuestion) []model.Question {
	out := make([]model.Question, 0, len(raw))
	for _, gq := range raw {
		text := strings.TrimSpace(gq.Question)
		if text == "" {
			continue
		}

		qType := strings.ToLower(strings.TrimSpace(gq.Type))
		switch qType {
		case model.QuestionTypeMultipleChoice, model.QuestionTypeText, model.QuestionTypeScenario:
		default:
			qType = model.QuestionTypeText
		}

		var options model.StringSlice
		var correct *string

		if answer := normalizeAnswer(gq.CorrectAnswer); answer != "" {
			correct = &answer
		}

		if qType == model.QuestionTypeMultipleChoice {
			options = sanitizeOptions(gq.Options)
			if len(options) < 2 || correct == nil {
				// Not a usable multiple-choice question; grade it as text.
				qType = model.QuestionTypeText
				options = nil
			}
		}

		out = append(out, model.Question{
			Concept:       strings.TrimSpace(gq.Concept),
			Text:          text,
			Type:          qType,
			Options:       options,
			CorrectAnswer: correct,
			Explanation:   strings.TrimSpace(gq.Explanation),
			OrderInTest:   len(out) + 1,
		})
	}
	return out
}

func sanitizeOptions(raw []string) model.StringSlice {
	out := make(model.StringSlice, 0, len(raw))
	for _, opt := range raw {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		out = append(out, opt)
		if len(out) == 4 {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeAnswer rejects the filler values models emit for "no answer".
func normalizeAnswer(raw string) string {
	answer := strings.TrimSpace(raw)
	switch strings.ToLower(answer) {
	case "", "n/a", "na", "none", "null":
		return ""
	}
	return answer
}
