package dto

import "time"

// QuestionDTO is a question as shown to the learner. The correct answer and
// explanation are never included here.
type QuestionDTO struct {
	ID      uint     `json:"id"`
	Concept string   `json:"concept"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// TestDTO is the generateTest response.
type TestDTO struct {
	TestID         uint          `json:"test_id"`
	Topic          string        `json:"topic"`
	TotalQuestions int           `json:"total_questions"`
	Questions      []QuestionDTO `json:"questions"`
}

// AttemptDTO is the startAttempt response.
type AttemptDTO struct {
	AttemptID uint      `json:"attempt_id"`
	TestID    uint      `json:"test_id"`
	Completed bool      `json:"completed"`
	StartedAt time.Time `json:"started_at"`
}

// AnswerResultDTO is one graded answer inside the completion digest.
type AnswerResultDTO struct {
	QuestionID  uint    `json:"question_id"`
	Concept     string  `json:"concept"`
	Question    string  `json:"question"`
	Response    *string `json:"response,omitempty"`
	IsCorrect   bool    `json:"is_correct"`
	IdealAnswer *string `json:"ideal_answer,omitempty"`
	Feedback    *string `json:"feedback,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
}

// PlanDTO carries the synthesized study plan and the per-stage completion
// flags so the client can surface partial degradation.
type PlanDTO struct {
	Markdown          string `json:"markdown"`
	FrameworkComplete bool   `json:"framework_complete"`
	StructureComplete bool   `json:"structure_complete"`
	ContentComplete   bool   `json:"content_complete"`
	Rendered          []byte `json:"rendered,omitempty"` // HTML artifact, absent if rendering failed
}

// SubmitAnswerResponse is always well-formed; Results and Plan are populated
// only on the call where the attempt just completed.
type SubmitAnswerResponse struct {
	IsCorrect bool              `json:"is_correct"`
	Completed bool              `json:"completed"`
	Answered  int               `json:"answered"`
	Total     int               `json:"total"`
	Results   []AnswerResultDTO `json:"results,omitempty"`
	Plan      *PlanDTO          `json:"plan,omitempty"`
}

// AttemptDetailDTO is the attempt read endpoint response.
type AttemptDetailDTO struct {
	AttemptID   uint              `json:"attempt_id"`
	TestID      uint              `json:"test_id"`
	Topic       string            `json:"topic"`
	Completed   bool              `json:"completed"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Answered    int               `json:"answered"`
	Total       int               `json:"total"`
	Results     []AnswerResultDTO `json:"results,omitempty"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
