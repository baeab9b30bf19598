package controller

import (
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apec_lms_backend/pkg/logger"
)

type QuizController struct {
	Quizzes *service.QuizService
}

func NewQuizController(quizzes *service.QuizService) *QuizController {
	return &QuizController{Quizzes: quizzes}
}

// @Summary Submit quiz answers for a course
// @Description Scores the submission against the course questions and overwrites any previous attempt. A perfect score marks the enrollment COMPLETED.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizSubmission true "answers keyed by question id"
// @Success 200 {object} util.Response
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var sub service.QuizSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.Quizzes.Submit(user.UserID, sub)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx, "enrollment not found")
		case errors.Is(err, util.ErrNoQuizQuestions):
			util.NotFound(ctx, "course has no quiz questions")
		default:
			util.LogInternalError(ctx, "submit quiz", err)
		}
		return
	}

	logger.Log.Info("quiz submitted",
		zap.String("userID", user.UserID),
		zap.String("courseID", sub.CourseID),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions))
	util.Success(ctx, result)
}

// @Summary Reset the caller's quiz attempt for a course
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body resetRequest true "course reference"
// @Success 200 {object} util.Response
// @Router /api/quiz/reset [post]
func (c *QuizController) Reset(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req resetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	if err := c.Quizzes.Reset(user.UserID, req.CourseID); err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx, "enrollment not found")
			return
		}
		util.LogInternalError(ctx, "reset quiz", err)
		return
	}

	util.Success(ctx, gin.H{"courseId": req.CourseID, "reset": true})
}

type resetRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}
