package service

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/repository"
	"apec_lms_backend/internal/util"
	"apec_lms_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "courses:catalog"
	catalogCacheTTL = 5 * time.Minute
)

type CourseService struct {
	Repo   *repository.CourseRepository
	Config *config.Config
	Redis  *redis.Client
}

func NewCourseService(repo *repository.CourseRepository, cfg *config.Config, rdb *redis.Client) *CourseService {
	return &CourseService{Repo: repo, Config: cfg, Redis: rdb}
}

type QuizQuestionRequest struct {
	Question          string   `json:"question" binding:"required"`
	Options           []string `json:"options" binding:"required"`
	CorrectAnswer     *int     `json:"correctAnswer"`
	CorrectAnswerText string   `json:"correctAnswerText"`
}

type CreateCourseRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	VideoLink     string                `json:"videoLink"`
	PriceUSD      float64               `json:"priceUSD"`
	QuizQuestions []QuizQuestionRequest `json:"quizQuestions"`
}

// CreateCourse validates the request, converts the USD price to SOL with the
// configured rate, and persists course plus questions atomically.
func (s *CourseService) CreateCourse(instructorID string, req CreateCourseRequest) (*model.Course, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", util.ErrCourseValidation)
	}

	questions := make([]model.QuizQuestion, 0, len(req.QuizQuestions))
	for i, qr := range req.QuizQuestions {
		correct, err := resolveCorrectAnswer(qr)
		if err != nil {
			return nil, fmt.Errorf("%w: quiz question %d: %v", util.ErrCourseValidation, i+1, err)
		}
		opts, err := json.Marshal(qr.Options)
		if err != nil {
			return nil, err
		}
		questions = append(questions, model.QuizQuestion{
			Question:      qr.Question,
			Options:       opts,
			CorrectAnswer: correct,
			Order:         i,
		})
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		VideoLink:    req.VideoLink,
		Price:        priceInSOL(req.PriceUSD, s.Config.Pricing.USDPerSOL),
		InstructorID: instructorID,
	}

	if err := s.Repo.CreateWithQuestions(course, questions); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return course, nil
}

// ListCourses returns the educator's own courses, or the whole catalog for
// everyone else. The catalog view is served from Redis when warm.
func (s *CourseService) ListCourses(userID string, role model.UserRole) ([]model.Course, error) {
	if role == model.Educator {
		return s.Repo.ListByInstructor(userID)
	}

	if cached, ok := s.cachedCatalog(); ok {
		return cached, nil
	}

	courses, err := s.Repo.ListAll()
	if err != nil {
		return nil, err
	}
	s.cacheCatalog(courses)
	return courses, nil
}

func (s *CourseService) GetCourse(id string) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course the caller owns. A course owned by someone
// else reports NotFound rather than leaking its existence.
func (s *CourseService) DeleteCourse(instructorID, courseID string) error {
	course, err := s.Repo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	} else if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return util.ErrCourseNotFound
	}

	if err := s.Repo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

// SetVideoLink points the course at an uploaded video. Owner only.
func (s *CourseService) SetVideoLink(instructorID, courseID, url string) error {
	course, err := s.Repo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	} else if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return util.ErrCourseNotFound
	}
	if err := s.Repo.UpdateVideoLink(courseID, url); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

func (s *CourseService) cachedCatalog() ([]model.Course, bool) {
	if s.Redis == nil {
		return nil, false
	}
	val, err := s.Redis.Get(context.Background(), catalogCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var courses []model.Course
	if err := json.Unmarshal([]byte(val), &courses); err != nil {
		return nil, false
	}
	return courses, true
}

func (s *CourseService) cacheCatalog(courses []model.Course) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), catalogCacheKey, data, catalogCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache course catalog", zap.Error(err))
	}
}

func (s *CourseService) invalidateCatalog() {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), catalogCacheKey)
}

// priceInSOL converts a USD display price to the stored SOL amount.
func priceInSOL(priceUSD, usdPerSOL float64) float64 {
	if priceUSD <= 0 || usdPerSOL <= 0 {
		return 0
	}
	return priceUSD / usdPerSOL
}

// resolveCorrectAnswer accepts either the option index or the option text and
// yields the index, rejecting anything that doesn't name a real option.
func resolveCorrectAnswer(qr QuizQuestionRequest) (int, error) {
	if len(qr.Options) == 0 {
		return 0, errors.New("options are required")
	}
	if qr.CorrectAnswer != nil {
		idx := *qr.CorrectAnswer
		if idx < 0 || idx >= len(qr.Options) {
			return 0, fmt.Errorf("correct answer index %d out of range", idx)
		}
		return idx, nil
	}
	if qr.CorrectAnswerText != "" {
		for i, opt := range qr.Options {
			if opt == qr.CorrectAnswerText {
				return i, nil
			}
		}
		return 0, fmt.Errorf("correct answer %q does not match any option", qr.CorrectAnswerText)
	}
	return 0, errors.New("correct answer is required")
}
