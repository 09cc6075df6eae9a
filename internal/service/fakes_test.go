package service

import (
	"sort"
	"sync"
	"time"

	"github.com/pathwise-app/backend/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. They reproduce the storage-level contracts the
// services lean on: conditional completion claim, conditional backfill and
// keyed upsert.

type fakeTestRepo struct {
	mu     sync.Mutex
	nextID uint
	tests  map[uint]*model.Test

	questions *fakeQuestionRepo
}

func newFakeTestRepo(questions *fakeQuestionRepo) *fakeTestRepo {
	return &fakeTestRepo{nextID: 1, tests: make(map[uint]*model.Test), questions: questions}
}

func (r *fakeTestRepo) CreateWithQuestions(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test.ID = r.nextID
	r.nextID++
	for i := range test.Questions {
		test.Questions[i].TestID = test.ID
		r.questions.add(&test.Questions[i])
	}
	cp := *test
	r.tests[test.ID] = &cp
	return nil
}

func (r *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTestRepo) FindByIDWithQuestions(id uint) (*model.Test, error) {
	t, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	t.Questions, _ = r.questions.FindByTestID(id)
	return t, nil
}

func (r *fakeTestRepo) CountQuestions(testID uint) (int64, error) {
	qs, _ := r.questions.FindByTestID(testID)
	return int64(len(qs)), nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    uint
	questions map[uint]*model.Question

	backfills map[uint]string
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{nextID: 1, questions: make(map[uint]*model.Question), backfills: make(map[uint]string)}
}

func (r *fakeQuestionRepo) add(q *model.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == 0 {
		q.ID = r.nextID
		r.nextID++
	}
	cp := *q
	r.questions[q.ID] = &cp
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) FindByTestID(testID uint) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Question
	for _, q := range r.questions {
		if q.TestID == testID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderInTest < out[j].OrderInTest })
	return out, nil
}

func (r *fakeQuestionRepo) BackfillCorrectAnswer(questionID uint, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[questionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if q.CorrectAnswer == nil {
		a := answer
		q.CorrectAnswer = &a
		r.backfills[questionID] = answer
	}
	return nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	nextID   uint
	attempts map[uint]*model.Attempt

	tests   *fakeTestRepo
	answers *fakeAnswerRepo
}

func newFakeAttemptRepo(tests *fakeTestRepo, answers *fakeAnswerRepo) *fakeAttemptRepo {
	return &fakeAttemptRepo{nextID: 1, attempts: make(map[uint]*model.Attempt), tests: tests, answers: answers}
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = r.nextID
	r.nextID++
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = time.Now()
	}
	cp := *attempt
	r.attempts[attempt.ID] = &cp
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAttemptRepo) FindByIDWithDetails(id uint) (*model.Attempt, error) {
	a, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t, err := r.tests.FindByID(a.TestID); err == nil {
		a.Test = *t
	}
	a.Answers, _ = r.answers.FindByAttemptID(id)
	return a, nil
}

func (r *fakeAttemptRepo) MarkCompleted(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if a.Completed {
		return false, nil
	}
	a.Completed = true
	now := time.Now()
	a.CompletedAt = &now
	return true, nil
}

type answerKey struct {
	attemptID  uint
	questionID uint
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	records map[answerKey]*model.AnswerRecord

	questions *fakeQuestionRepo

	// failNextFind makes the next FindByAttemptID call return this error
	// once, simulating a transient storage failure.
	failNextFind error
}

func newFakeAnswerRepo(questions *fakeQuestionRepo) *fakeAnswerRepo {
	return &fakeAnswerRepo{records: make(map[answerKey]*model.AnswerRecord), questions: questions}
}

func (r *fakeAnswerRepo) Upsert(answer *model.AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := answerKey{answer.AttemptID, answer.QuestionID}
	if existing, ok := r.records[key]; ok {
		existing.Response = answer.Response
		existing.IsCorrect = answer.IsCorrect
		existing.IdealAnswer = answer.IdealAnswer
		existing.Feedback = answer.Feedback
		return nil
	}
	cp := *answer
	r.records[key] = &cp
	return nil
}

func (r *fakeAnswerRepo) CountByAttempt(attemptID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key := range r.records {
		if key.attemptID == attemptID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAnswerRepo) FindByAttemptID(attemptID uint) ([]model.AnswerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failNextFind; err != nil {
		r.failNextFind = nil
		return nil, err
	}
	var out []model.AnswerRecord
	for key, rec := range r.records {
		if key.attemptID != attemptID {
			continue
		}
		cp := *rec
		if q, err := r.questions.FindByID(rec.QuestionID); err == nil {
			cp.Question = *q
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Question.OrderInTest < out[j].Question.OrderInTest
	})
	return out, nil
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records []model.UsageRecord
}

func (r *fakeUsageRepo) Create(record *model.UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeUsageRepo) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Kind)
	}
	return out
}

func strPtr(s string) *string { return &s }
