package controller

import (
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"apec_lms_backend/pkg/logger"
)

type CertificateController struct {
	Certificates *service.CertificateService
}

func NewCertificateController(certificates *service.CertificateService) *CertificateController {
	return &CertificateController{Certificates: certificates}
}

// @Summary Mint a certificate for a student who completed a course
// @Description Derives the on-chain certificate account address and records a PENDING certificate. The client wallet submits the minting transaction and reports its signature via the confirm endpoint.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.MintRequest true "certificate request"
// @Success 201 {object} util.Response
// @Router /api/educator/certificates [post]
func (c *CertificateController) Mint(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.MintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	cert, err := c.Certificates.Mint(user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "course not found")
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx, "enrollment not found")
		case errors.Is(err, util.ErrCourseNotCompleted):
			util.BadRequest(ctx, "student has not completed this course")
		case errors.Is(err, util.ErrInvalidCredentialType):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "mint certificate", err)
		}
		return
	}

	logger.Log.Info("certificate minted",
		zap.String("certificateId", cert.CertificateID),
		zap.String("studentID", cert.StudentID),
		zap.String("courseID", cert.CourseID),
		zap.String("accountAddress", cert.AccountAddress))
	util.Created(ctx, cert)
}

type confirmRequest struct {
	TxSignature string `json:"txSignature" binding:"required"`
}

// @Summary Report the minting transaction signature and confirm it on chain
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "certificate id"
// @Param body body confirmRequest true "transaction signature"
// @Success 200 {object} util.Response
// @Router /api/certificates/{id}/confirm [post]
func (c *CertificateController) Confirm(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req confirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	cert, err := c.Certificates.Confirm(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.TxSignature)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCertificateNotFound):
			util.NotFound(ctx, "certificate not found")
		case errors.Is(err, util.ErrTxUnconfirmed):
			util.BadRequest(ctx, "transaction not confirmed on chain yet")
		default:
			util.LogInternalError(ctx, "confirm certificate", err)
		}
		return
	}
	util.Success(ctx, cert)
}

// @Summary List the caller's certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.Certificates.ListForStudent(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, "list certificates", err)
		return
	}
	util.Success(ctx, certs)
}
