package model

// Course is owned by its instructor. Price is stored in SOL, derived from the
// USD price the educator entered using the configured conversion rate.
// Deleting a course cascades to its quiz questions and enrollments.
// swagger:model Course
type Course struct {
	UUIDBase
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	VideoLink     string         `gorm:"size:512" json:"videoLink"`
	Price         float64        `gorm:"not null;default:0" json:"price"`
	InstructorID  string         `gorm:"index;type:varchar(36);not null" json:"instructorId"`
	Instructor    *User          `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	QuizQuestions []QuizQuestion `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"quizQuestions,omitempty"`
	Enrollments   []Enrollment   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"enrollments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
