package review

import (
	"time"

	"github.com/veta-academy/backend/core"
)

type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewReview contains information needed to create a new Review.
type NewReview struct {
	CourseID string `json:"course_id" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

func (nr *NewReview) Validate() error {
	nr.CourseID = core.CleanString(nr.CourseID)
	nr.Author = core.CleanString(nr.Author)
	nr.Comment = core.CleanString(nr.Comment)
	return core.Validate.Struct(nr)
}
