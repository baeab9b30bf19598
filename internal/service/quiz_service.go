package service

import (
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/util"
	"encoding/json"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

type QuestionLister interface {
	ListQuestions(courseID string) ([]model.QuizQuestion, error)
}

type EnrollmentQuizStore interface {
	FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error)
	UpdateQuizState(userID, courseID string, fields map[string]interface{}) error
}

// QuizService scores submissions and drives the enrollment status machine:
// COMPLETED iff the last submission answered every question correctly.
type QuizService struct {
	Questions   QuestionLister
	Enrollments EnrollmentQuizStore

	now func() time.Time
}

func NewQuizService(questions QuestionLister, enrollments EnrollmentQuizStore) *QuizService {
	return &QuizService{
		Questions:   questions,
		Enrollments: enrollments,
		now:         time.Now,
	}
}

type QuizSubmission struct {
	CourseID string         `json:"courseId" binding:"required"`
	Answers  map[string]int `json:"answers" binding:"required"`
}

type QuizResult struct {
	Score          int                    `json:"score"`
	TotalQuestions int                    `json:"totalQuestions"`
	Percentage     int                    `json:"percentage"`
	CorrectAnswers int                    `json:"correctAnswers"`
	WrongAnswers   int                    `json:"wrongAnswers"`
	Status         model.EnrollmentStatus `json:"status"`
}

// Submit scores the answers against the course's questions and overwrites the
// caller's quiz state. Each submission replaces the previous one entirely.
func (s *QuizService) Submit(userID string, sub QuizSubmission) (*QuizResult, error) {
	questions, err := s.Questions.ListQuestions(sub.CourseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuizQuestions
	}

	score := scoreAnswers(questions, sub.Answers)
	total := len(questions)

	result := &QuizResult{
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage(score, total),
		CorrectAnswers: score,
		WrongAnswers:   total - score,
		Status:         model.EnrollmentActive,
	}

	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"quiz_score":   score,
		"quiz_answers": json.RawMessage(answersJSON),
		"status":       model.EnrollmentActive,
		"completed_at": nil,
	}
	if score == total {
		result.Status = model.EnrollmentCompleted
		fields["status"] = model.EnrollmentCompleted
		fields["completed_at"] = s.now()
	}

	if err := s.Enrollments.UpdateQuizState(userID, sub.CourseID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	return result, nil
}

// Reset returns the caller's enrollment to its pre-quiz state.
func (s *QuizService) Reset(userID, courseID string) error {
	fields := map[string]interface{}{
		"quiz_score":   nil,
		"quiz_answers": nil,
		"status":       model.EnrollmentActive,
		"completed_at": nil,
	}
	if err := s.Enrollments.UpdateQuizState(userID, courseID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}
	return nil
}

type CompletionResult struct {
	CourseID       string                 `json:"courseId"`
	Status         model.EnrollmentStatus `json:"status"`
	Score          int                    `json:"score"`
	TotalQuestions int                    `json:"totalQuestions"`
}

// CompletionError reports a completion attempt without a perfect score.
type CompletionError struct {
	CurrentScore  int `json:"currentScore"`
	RequiredScore int `json:"requiredScore"`
}

func (e *CompletionError) Error() string {
	return util.ErrCourseNotCompleted.Error()
}

func (e *CompletionError) Unwrap() error {
	return util.ErrCourseNotCompleted
}

// Complete force-sets COMPLETED when the recorded score already equals the
// question count. Normally redundant with Submit's side effect; kept as an
// explicit endpoint for clients that re-check before minting.
func (s *QuizService) Complete(userID, courseID string) (*CompletionResult, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	} else if err != nil {
		return nil, err
	}

	questions, err := s.Questions.ListQuestions(courseID)
	if err != nil {
		return nil, err
	}
	total := len(questions)

	current := 0
	if enrollment.QuizScore != nil {
		current = *enrollment.QuizScore
	}
	if enrollment.QuizScore == nil || current != total {
		return nil, &CompletionError{CurrentScore: current, RequiredScore: total}
	}

	fields := map[string]interface{}{
		"status":       model.EnrollmentCompleted,
		"completed_at": s.now(),
	}
	if err := s.Enrollments.UpdateQuizState(userID, courseID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	return &CompletionResult{
		CourseID:       courseID,
		Status:         model.EnrollmentCompleted,
		Score:          current,
		TotalQuestions: total,
	}, nil
}

// scoreAnswers counts exact index matches. Unanswered questions and
// out-of-range indices never match.
func scoreAnswers(questions []model.QuizQuestion, answers map[string]int) int {
	score := 0
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok || selected < 0 {
			continue
		}
		if selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// percentage rounds half up, so 2/3 reports 67.
func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
