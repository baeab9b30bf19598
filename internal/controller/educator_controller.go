package controller

import (
	"apec_lms_backend/internal/service"
	"apec_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type EducatorController struct {
	Users *service.UserService
}

func NewEducatorController(users *service.UserService) *EducatorController {
	return &EducatorController{Users: users}
}

// @Summary Get the calling educator's profile
// @Tags educators
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/educator/profile [get]
func (c *EducatorController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.Users.GetProfile(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user not found")
			return
		}
		util.LogInternalError(ctx, "get educator profile", err)
		return
	}
	util.Success(ctx, profile)
}

type updatePayoutRequest struct {
	PayoutAddress string `json:"payoutAddress" binding:"required"`
}

// @Summary Update the calling educator's payout address
// @Description Course payments are verified against this address, so enrollments in the educator's courses are blocked until it is set.
// @Tags educators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body updatePayoutRequest true "payout address"
// @Success 200 {object} util.Response
// @Router /api/educator/profile [put]
func (c *EducatorController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req updatePayoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	profile, err := c.Users.UpdatePayoutAddress(user.UserID, req.PayoutAddress)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidWalletAddress):
			util.BadRequest(ctx, "payout address is not a valid public key")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "user not found")
		default:
			util.LogInternalError(ctx, "update payout address", err)
		}
		return
	}
	util.Success(ctx, profile)
}
