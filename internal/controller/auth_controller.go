package controller

import (
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *service.AuthService
	Users *service.UserService
}

func NewAuthController(auth *service.AuthService, users *service.UserService) *AuthController {
	return &AuthController{Auth: auth, Users: users}
}

type ChallengeRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// @Summary Request a sign-in challenge for a wallet
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ChallengeRequest true "wallet address"
// @Success 200 {object} util.Response
// @Router /api/auth/challenge [post]
func (c *AuthController) Challenge(ctx *gin.Context) {
	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	nonce, err := c.Auth.Challenge(ctx.Request.Context(), req.WalletAddress)
	if err != nil {
		if errors.Is(err, util.ErrInvalidWalletAddress) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "auth challenge", err)
		return
	}

	util.Success(ctx, gin.H{"nonce": nonce})
}

type LoginRequest struct {
	WalletAddress string         `json:"walletAddress" binding:"required"`
	Signature     string         `json:"signature" binding:"required"`
	Role          model.UserRole `json:"role"`
}

// @Summary Exchange a signed challenge for a token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "signed challenge"
// @Success 200 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Auth.Login(ctx.Request.Context(), req.WalletAddress, req.Signature, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidWalletAddress):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrChallengeExpired), errors.Is(err, util.ErrInvalidSignature):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, "wallet login", err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Users.GetProfile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, "get profile", err)
		return
	}

	util.Success(ctx, profile)
}

type ChooseRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// @Summary Choose the account role (one-time)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChooseRoleRequest true "role"
// @Success 200 {object} util.Response
// @Router /api/user/role [put]
func (c *AuthController) ChooseRole(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChooseRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, token, err := c.Users.ChooseRole(user.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRoleAlreadyChosen):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidRole):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "choose role", err)
		}
		return
	}

	util.Success(ctx, gin.H{"user": updated, "token": token})
}
