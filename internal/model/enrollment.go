package model

import (
	"encoding/json"
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment links one student to one course. The composite unique index is
// the race-free guard against duplicate enrollments; the application-level
// existence check only produces the friendlier error.
//
// Invariant: Status == COMPLETED iff QuizScore equals the course's question
// count at the time of the last submission.
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID      string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollments_user_course" json:"userId"`
	CourseID    string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollments_user_course" json:"courseId"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course      *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	PaidAmount  float64          `gorm:"not null;default:0" json:"paidAmount"`
	TxSignature string           `gorm:"size:128" json:"txSignature,omitempty"`
	Status      EnrollmentStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`
	QuizScore   *int             `json:"quizScore"`
	QuizAnswers json.RawMessage  `gorm:"type:json" json:"quizAnswers,omitempty"`
	EnrolledAt  time.Time        `json:"enrolledAt"`
	CompletedAt *time.Time       `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
