package repository

import (
	"apec_lms_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(cert *model.Certificate) error {
	return r.DB.Create(cert).Error
}

func (r *CertificateRepository) FindByID(id string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Preload("Course").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *CertificateRepository) ListByStudent(studentID string) ([]model.Certificate, error) {
	var cs []model.Certificate
	err := r.DB.Preload("Course").Where("student_id = ?", studentID).
		Order("issued_at desc").Find(&cs).Error
	return cs, err
}

func (r *CertificateRepository) Update(cert *model.Certificate) error {
	return r.DB.Save(cert).Error
}

// ListUnconfirmed returns pending certificates that already carry a
// transaction signature, i.e. the ones the confirmation poller can act on.
func (r *CertificateRepository) ListUnconfirmed() ([]model.Certificate, error) {
	var cs []model.Certificate
	err := r.DB.Where("status = ? AND tx_signature <> ''", model.CertificatePending).Find(&cs).Error
	return cs, err
}
