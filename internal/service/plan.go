package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathwise-app/backend/internal/dto"
	"github.com/pathwise-app/backend/internal/llm"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/render"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// PlanService synthesizes the personalized study plan through a three-stage
// chain. Every stage has its own fallback so a mid-chain failure still
// yields a usable document; stage failures are reported as flags, never as
// request errors.
type PlanService interface {
	Synthesize(ctx context.Context, test *model.Test, results []dto.AnswerResultDTO) *dto.PlanDTO
}

type planService struct {
	client    llm.Client
	renderer  render.Renderer
	usageRepo repository.UsageRepository
}

func NewPlanService(client llm.Client, renderer render.Renderer, usageRepo repository.UsageRepository) PlanService {
	return &planService{
		client:    client,
		renderer:  renderer,
		usageRepo: usageRepo,
	}
}

func (s *planService) Synthesize(ctx context.Context, test *model.Test, results []dto.AnswerResultDTO) *dto.PlanDTO {
	digest := diagnosticDigest(results)
	bucket := gapBucket(test.Experience)
	plan := &dto.PlanDTO{}

	// Stage 1: document framework around the plan marker.
	framework, ok := s.stage(ctx, test.UserID, model.UsageKindPlanFramework,
		frameworkPrompt(test.Goal, test.Experience, digest), 4096)
	if ok {
		plan.FrameworkComplete = true
	} else {
		framework = localFramework(test.Goal, test.Experience, results)
	}

	// Stage 2: phase/module skeleton. When it fails there is no structure
	// to fill, so stage 3 is skipped for this run; the flags make the
	// asymmetry visible to the client.
	skeleton, ok := s.stage(ctx, test.UserID, model.UsageKindPlanStructure,
		structurePrompt(test.Goal, test.Experience, digest, moduleTarget(bucket)), 8192)
	detail := ""
	if ok {
		plan.StructureComplete = true

		// Stage 3: expand every module placeholder.
		filled, ok := s.stage(ctx, test.UserID, model.UsageKindPlanContent,
			contentPrompt(planSection(skeleton)), 16384)
		if ok {
			plan.ContentComplete = true
			detail = filled
		} else {
			// Unfilled skeleton is still a plan the learner can follow.
			detail = skeleton
		}
	}

	plan.Markdown = stitch(framework, detail)

	score := scorePercent(results)
	rendered, err := s.renderer.Render(plan.Markdown, render.Meta{
		Goal:       test.Goal,
		Experience: test.Experience,
		Score:      &score,
	})
	if err != nil {
		// The plan text is the deliverable; rendering is best effort.
		log.Warn().Err(err).Str("user_id", test.UserID).Msg("Plan rendering failed, returning markdown only")
	} else {
		plan.Rendered = rendered
	}

	log.Info().
		Str("user_id", test.UserID).
		Bool("framework", plan.FrameworkComplete).
		Bool("structure", plan.StructureComplete).
		Bool("content", plan.ContentComplete).
		Msg("Study plan synthesized")
	return plan
}

// stage runs one generation call; ok=false on any failure or empty output.
func (s *planService) stage(ctx context.Context, userID, kind, prompt string, maxTokens int) (string, bool) {
	resp, err := s.client.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		log.Warn().Err(err).Str("stage", kind).Msg("Plan stage failed, using fallback")
		return "", false
	}
	recordUsage(s.usageRepo, userID, kind, resp)

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

// stitch substitutes the stage-3 (or fallback) text for the framework's plan
// marker; when the model dropped the marker, the detail is appended instead
// of failing.
func stitch(framework, detail string) string {
	if strings.Contains(framework, planMarker) {
		return strings.Replace(framework, planMarker, detail, 1)
	}
	if detail == "" {
		return framework
	}
	return framework + "\n\n" + detail
}

// planSection extracts the learning-plan part of the stage-2 output by
// searching the known headings in order; the full text is the fallback.
func planSection(text string) string {
	for _, heading := range planHeadings {
		if i := strings.Index(text, heading); i >= 0 {
			return text[i:]
		}
	}
	return text
}

func diagnosticDigest(results []dto.AnswerResultDTO) string {
	var b strings.Builder
	for _, r := range results {
		state := "incorrect"
		if r.IsCorrect {
			state = "correct"
		}
		if r.Response == nil {
			state = "skipped"
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Concept, state)
	}
	return b.String()
}

func scorePercent(results []dto.AnswerResultDTO) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, r := range results {
		if r.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(results)) * 100
}

// localFramework is the stage-1 fallback: a minimal template computed
// locally so the pipeline always has something to stitch into.
func localFramework(goal, experience string, results []dto.AnswerResultDTO) string {
	return fmt.Sprintf(`# Your Study Plan

**Goal:** %s

**Starting point:** %s

**Placement score:** %.0f%%

%s

## Next Steps

Work through the plan above in order, one module at a time.`,
		goal, experience, scorePercent(results), planMarker)
}
