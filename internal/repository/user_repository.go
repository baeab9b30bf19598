package repository

import (
	"apec_lms_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByWallet(walletAddress string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "wallet_address = ?", walletAddress).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateRole(id string, role model.UserRole) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *UserRepository) UpdatePayoutAddress(id string, payoutAddress string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Update("payout_address", payoutAddress).Error
}
