package service

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/model"
	"apec_lms_backend/internal/repository"
	"apec_lms_backend/internal/util"
	"apec_lms_backend/pkg/solana"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
	Cfg  *config.Config
}

func NewUserService(repo *repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{Repo: repo, Cfg: cfg}
}

func (s *UserService) GetProfile(userID string) (*model.User, error) {
	user, err := s.Repo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// ChooseRole sets the role for a user created without one. The choice is
// one-time; changing roles afterwards is not supported.
func (s *UserService) ChooseRole(userID string, role model.UserRole) (*model.User, string, error) {
	if !model.ValidRole(role) {
		return nil, "", util.ErrInvalidRole
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, "", err
	}
	if user.Role != "" {
		return nil, "", util.ErrRoleAlreadyChosen
	}

	user.Role = role
	if err := s.Repo.Update(user); err != nil {
		return nil, "", err
	}

	// Reissue the token so the new role lands in the claims immediately.
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdatePayoutAddress registers where an educator receives course payments.
// The address must be a well-formed public key; it is the destination the
// payment verification checks transfers against.
func (s *UserService) UpdatePayoutAddress(userID, payoutAddress string) (*model.User, error) {
	if _, err := solana.ParsePublicKey(payoutAddress); err != nil {
		return nil, util.ErrInvalidWalletAddress
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.UpdatePayoutAddress(user.ID, payoutAddress); err != nil {
		return nil, err
	}
	user.PayoutAddress = payoutAddress
	return user, nil
}
