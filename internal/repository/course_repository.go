package repository

import (
	"apec_lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CreateWithQuestions inserts the course and its quiz questions in one
// transaction so a failed bulk insert never leaves an orphaned course.
func (r *CourseRepository) CreateWithQuestions(course *model.Course, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].CourseID = course.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").Preload("QuizQuestions").First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) ListAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Instructor").Preload("QuizQuestions").Preload("Enrollments").
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByInstructor(instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Instructor").Preload("QuizQuestions").Preload("Enrollments").
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").Find(&courses).Error
	return courses, err
}

// Delete removes the course together with its quiz questions and
// enrollments. Hard deletes: a soft-deleted course row would keep the child
// rows reachable and let students keep submitting against it.
func (r *CourseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Course{}, "id = ?", id).Error
	})
}

func (r *CourseRepository) ListQuestions(courseID string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc, created_at asc").Find(&questions).Error
	return questions, err
}

func (r *CourseRepository) UpdateVideoLink(id, videoLink string) error {
	return r.DB.Model(&model.Course{}).Where("id = ?", id).Update("video_link", videoLink).Error
}
