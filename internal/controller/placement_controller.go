package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pathwise-app/backend/internal/dto"
	"github.com/pathwise-app/backend/internal/service"
	"github.com/rs/zerolog/log"
)

// PlacementController exposes the placement pipeline: test generation,
// attempts, answer submission (which carries completion + plan synthesis).
type PlacementController struct {
	generator service.TestGeneratorService
	attempts  service.AttemptService
}

func NewPlacementController(generator service.TestGeneratorService, attempts service.AttemptService) *PlacementController {
	return &PlacementController{
		generator: generator,
		attempts:  attempts,
	}
}

// userID pulls the caller identity from the X-User-ID header. Real auth sits
// in front of this service; the header is trusted here.
func userID(ctx *gin.Context) (string, bool) {
	id := ctx.GetHeader("X-User-ID")
	if id == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "X-User-ID header is required"})
		return "", false
	}
	return id, true
}

// GenerateTest godoc
// @Summary Generate a placement test
// @Description Generates a calibrated placement test from the learner's goal and experience.
// @Tags Placement
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.GenerateTestRequest true "Goal and experience"
// @Success 200 {object} dto.TestDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Generation backend produced no usable test"
// @Router /placement/tests [post]
func (c *PlacementController) GenerateTest(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	var req dto.GenerateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	test, err := c.generator.GenerateTest(ctx.Request.Context(), uid, req.Goal, req.Experience)
	if err != nil {
		if errors.Is(err, service.ErrGenerationFailed) {
			ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Str("user_id", uid).Msg("GenerateTest: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate test"})
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// StartAttempt godoc
// @Summary Start an attempt on a test
// @Tags Placement
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.StartAttemptRequest true "Test to attempt"
// @Success 200 {object} dto.AttemptDTO
// @Failure 403 {object} dto.ErrorResponse "Test belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /placement/attempts [post]
func (c *PlacementController) StartAttempt(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attempts.StartAttempt(ctx.Request.Context(), uid, req.TestID)
	if err != nil {
		c.writeError(ctx, uid, err, "StartAttempt")
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// SubmitAnswer godoc
// @Summary Submit one answer
// @Description Submits or resubmits an answer. The response that completes the attempt also carries the graded results and the synthesized study plan.
// @Tags Placement
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param attempt_id path int true "Attempt ID"
// @Param request body dto.SubmitAnswerRequest true "Answer or skip"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Question does not belong to this test"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Router /placement/attempts/{attempt_id}/answers [post]
func (c *PlacementController) SubmitAnswer(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	response := req.Response
	if req.Skip {
		response = nil
	}

	result, err := c.attempts.SubmitAnswer(ctx.Request.Context(), uid, uint(attemptID), req.QuestionID, response)
	if err != nil {
		c.writeError(ctx, uid, err, "SubmitAnswer")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttempt godoc
// @Summary Get attempt details
// @Tags Placement
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /placement/attempts/{attempt_id} [get]
func (c *PlacementController) GetAttempt(ctx *gin.Context) {
	uid, ok := userID(ctx)
	if !ok {
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}

	detail, err := c.attempts.GetAttemptDetails(ctx.Request.Context(), uid, uint(attemptID))
	if err != nil {
		c.writeError(ctx, uid, err, "GetAttempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

func (c *PlacementController) writeError(ctx *gin.Context, uid string, err error, op string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Not found"})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden"})
	case errors.Is(err, service.ErrTypeMismatch):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("user_id", uid).Str("op", op).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}
