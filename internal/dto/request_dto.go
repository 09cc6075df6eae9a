package dto

// GenerateTestRequest starts the pipeline: goal and experience are free text,
// sanitized upstream.
type GenerateTestRequest struct {
	Goal       string `json:"goal" binding:"required"`
	Experience string `json:"experience" binding:"required"`
}

// StartAttemptRequest opens an attempt against an existing test.
type StartAttemptRequest struct {
	TestID uint `json:"test_id" binding:"required"`
}

// SubmitAnswerRequest submits one answer. Skip=true (or a nil Response)
// records a skipped question; it still counts toward completion.
type SubmitAnswerRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Response   *string `json:"response"`
	Skip       bool    `json:"skip"`
}
