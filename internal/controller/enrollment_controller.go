package controller

import (
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apec_lms_backend/pkg/logger"
)

type EnrollmentController struct {
	Enrollments *service.EnrollmentService
	Quizzes     *service.QuizService
}

func NewEnrollmentController(enrollments *service.EnrollmentService, quizzes *service.QuizService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments, Quizzes: quizzes}
}

// @Summary Enroll in a course, or precheck enrollment eligibility
// @Description With precheck=true the endpoint only validates eligibility and returns the payment target. Without it the enrollment is recorded; when a transaction signature is supplied the payment is verified on chain first, and free courses may omit it.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EnrollRequest true "enrollment request"
// @Success 200 {object} util.Response
// @Router /api/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	if req.Precheck {
		result, err := c.Enrollments.Precheck(req.CourseID)
		if err != nil {
			c.mapEnrollError(ctx, err)
			return
		}
		util.Success(ctx, result)
		return
	}

	enrollment, err := c.Enrollments.Enroll(ctx.Request.Context(), user.UserID, user.Role, req)
	if err != nil {
		c.mapEnrollError(ctx, err)
		return
	}

	logger.Log.Info("student enrolled",
		zap.String("userID", user.UserID),
		zap.String("courseID", req.CourseID),
		zap.String("txSignature", req.TxSignature))
	util.Created(ctx, enrollment)
}

func (c *EnrollmentController) mapEnrollError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "course not found")
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.Conflict(ctx, "already enrolled in this course")
	case errors.Is(err, util.ErrSelfEnrollment):
		util.Conflict(ctx, "cannot enroll in your own course")
	case errors.Is(err, util.ErrEnrollRoleForbidden):
		util.Forbidden(ctx, "only students can enroll in courses")
	case errors.Is(err, util.ErrNoPayoutAddress):
		util.BadRequest(ctx, "course instructor has no payout address")
	case errors.Is(err, util.ErrPaymentVerification):
		util.BadRequest(ctx, "payment verification failed")
	default:
		util.LogInternalError(ctx, "enroll", err)
	}
}

// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Enrollments.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, "list enrollments", err)
		return
	}
	util.Success(ctx, enrollments)
}

// @Summary Mark a course as completed for the caller
// @Description Succeeds only when every quiz question has been answered correctly.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body completeRequest true "course reference"
// @Success 200 {object} util.Response
// @Router /api/enrollment/complete [post]
func (c *EnrollmentController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req completeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	result, err := c.Quizzes.Complete(user.UserID, req.CourseID)
	if err != nil {
		var completion *service.CompletionError
		switch {
		case errors.As(err, &completion):
			util.ErrorData(ctx, 400, "course not completed", gin.H{
				"currentScore":  completion.CurrentScore,
				"requiredScore": completion.RequiredScore,
			})
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx, "enrollment not found")
		case errors.Is(err, util.ErrNoQuizQuestions):
			util.NotFound(ctx, "course has no quiz questions")
		default:
			util.LogInternalError(ctx, "complete course", err)
		}
		return
	}

	util.Success(ctx, result)
}

type completeRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}
