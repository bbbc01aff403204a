package enrollment

import "time"

type Enrollment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CourseID  string    `json:"course_id"`
	PricePaid float64   `json:"price_paid"`
	Points    int       `json:"points"`     // loyalty points earned by this enrollment
	CreatedAt time.Time `json:"created_at"` // UTC
}
