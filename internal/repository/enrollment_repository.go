package repository

import (
	"apec_lms_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.First(&e, "user_id = ? AND course_id = ?", userID, courseID).Error
	return &e, err
}

func (r *EnrollmentRepository) ListByUser(userID string) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Preload("Course").Preload("Course.Instructor").Preload("Course.QuizQuestions").
		Where("user_id = ?", userID).
		Order("enrolled_at desc").Find(&es).Error
	return es, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// UpdateQuizState overwrites the quiz fields of the caller's enrollment in a
// single statement. It returns gorm.ErrRecordNotFound when no row matched so
// a submit or reset against a course the caller never enrolled in surfaces as
// a missing enrollment instead of a silent no-op.
func (r *EnrollmentRepository) UpdateQuizState(userID, courseID string, fields map[string]interface{}) error {
	res := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
