package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pathwise-app/backend/internal/dto"
	"github.com/pathwise-app/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	test *dto.TestDTO
	err  error
}

func (s *stubGenerator) GenerateTest(_ context.Context, userID, goal, experience string) (*dto.TestDTO, error) {
	return s.test, s.err
}

type stubAttempts struct {
	attempt *dto.AttemptDTO
	submit  *dto.SubmitAnswerResponse
	detail  *dto.AttemptDetailDTO
	err     error

	lastResponse *string
	lastAttempt  uint
}

func (s *stubAttempts) StartAttempt(_ context.Context, userID string, testID uint) (*dto.AttemptDTO, error) {
	return s.attempt, s.err
}

func (s *stubAttempts) SubmitAnswer(_ context.Context, userID string, attemptID, questionID uint, response *string) (*dto.SubmitAnswerResponse, error) {
	s.lastAttempt = attemptID
	s.lastResponse = response
	return s.submit, s.err
}

func (s *stubAttempts) GetAttemptDetails(_ context.Context, userID string, attemptID uint) (*dto.AttemptDetailDTO, error) {
	return s.detail, s.err
}

func newRouter(gen *stubGenerator, att *stubAttempts) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := NewPlacementController(gen, att)
	r.POST("/placement/tests", c.GenerateTest)
	r.POST("/placement/attempts", c.StartAttempt)
	r.POST("/placement/attempts/:attempt_id/answers", c.SubmitAnswer)
	r.GET("/placement/attempts/:attempt_id", c.GetAttempt)
	return r
}

func doJSON(r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateTestEndpoint(t *testing.T) {
	gen := &stubGenerator{test: &dto.TestDTO{TestID: 1, Topic: "Go", TotalQuestions: 2}}
	r := newRouter(gen, &stubAttempts{})

	w := doJSON(r, http.MethodPost, "/placement/tests", "u1", dto.GenerateTestRequest{Goal: "learn Go", Experience: "beginner"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TestDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.TestID)
}

func TestGenerateTestEndpointErrors(t *testing.T) {
	t.Run("missing user header", func(t *testing.T) {
		r := newRouter(&stubGenerator{}, &stubAttempts{})
		w := doJSON(r, http.MethodPost, "/placement/tests", "", dto.GenerateTestRequest{Goal: "g", Experience: "e"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing goal", func(t *testing.T) {
		r := newRouter(&stubGenerator{}, &stubAttempts{})
		w := doJSON(r, http.MethodPost, "/placement/tests", "u1", map[string]string{"experience": "e"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("generation failed maps to bad gateway", func(t *testing.T) {
		r := newRouter(&stubGenerator{err: service.ErrGenerationFailed}, &stubAttempts{})
		w := doJSON(r, http.MethodPost, "/placement/tests", "u1", dto.GenerateTestRequest{Goal: "g", Experience: "e"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	att := &stubAttempts{submit: &dto.SubmitAnswerResponse{IsCorrect: true, Answered: 1, Total: 3}}
	r := newRouter(&stubGenerator{}, att)

	resp := "B"
	w := doJSON(r, http.MethodPost, "/placement/attempts/42/answers", "u1",
		dto.SubmitAnswerRequest{QuestionID: 7, Response: &resp})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), att.lastAttempt)
	require.NotNil(t, att.lastResponse)
	assert.Equal(t, "B", *att.lastResponse)
}

func TestSubmitAnswerSkipDropsResponse(t *testing.T) {
	att := &stubAttempts{submit: &dto.SubmitAnswerResponse{}}
	r := newRouter(&stubGenerator{}, att)

	resp := "ignored"
	w := doJSON(r, http.MethodPost, "/placement/attempts/1/answers", "u1",
		dto.SubmitAnswerRequest{QuestionID: 7, Response: &resp, Skip: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, att.lastResponse)
}

func TestSubmitAnswerEndpointErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"question from another test", service.ErrTypeMismatch, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubGenerator{}, &stubAttempts{err: tt.err})
			w := doJSON(r, http.MethodPost, "/placement/attempts/1/answers", "u1",
				dto.SubmitAnswerRequest{QuestionID: 1, Skip: true})
			assert.Equal(t, tt.code, w.Code)
		})
	}

	t.Run("malformed attempt id", func(t *testing.T) {
		r := newRouter(&stubGenerator{}, &stubAttempts{})
		w := doJSON(r, http.MethodPost, "/placement/attempts/abc/answers", "u1",
			dto.SubmitAnswerRequest{QuestionID: 1, Skip: true})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAttemptEndpoint(t *testing.T) {
	att := &stubAttempts{detail: &dto.AttemptDetailDTO{AttemptID: 5, Completed: true, Answered: 3, Total: 3}}
	r := newRouter(&stubGenerator{}, att)

	w := doJSON(r, http.MethodGet, "/placement/attempts/5", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.AttemptDetailDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(5), resp.AttemptID)
	assert.True(t, resp.Completed)
}
