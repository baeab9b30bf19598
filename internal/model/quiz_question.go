package model

import "encoding/json"

// QuizQuestion belongs to a course and is immutable after course creation.
// Options holds a JSON array of option strings; CorrectAnswer is the index of
// the right option within it.
// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	CourseID      string          `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Question      string          `gorm:"type:text;not null" json:"question"`
	Options       json.RawMessage `gorm:"type:json" json:"options"`
	CorrectAnswer int             `gorm:"not null" json:"correctAnswer"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// OptionList decodes the stored options array.
func (q *QuizQuestion) OptionList() ([]string, error) {
	var opts []string
	if len(q.Options) == 0 {
		return opts, nil
	}
	err := json.Unmarshal(q.Options, &opts)
	return opts, err
}
