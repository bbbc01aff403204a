package lead

import (
	"time"

	"github.com/veta-academy/backend/core"
)

// Lead is a captured contact record from a marketing form, distinct from a
// registered user.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Area      string    `json:"area"`      // Area slug
	CourseID  string    `json:"course_id"` // optional course of interest
	Message   string    `json:"message"`
	Source    string    `json:"source"`     // eg. "landing", "whatsapp", "exit-intent"
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewLead contains information captured from a marketing form.
type NewLead struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Area     string `json:"area" validate:"omitempty,slug"`
	CourseID string `json:"course_id"`
	Message  string `json:"message" validate:"max=2000"`
	Source   string `json:"source"`
}

func (nl *NewLead) Validate() error {
	nl.Name = core.CleanString(nl.Name)
	nl.Email = core.CleanString(nl.Email, true /* lower */)
	nl.Phone = core.CleanString(nl.Phone)
	nl.Area = core.CleanString(nl.Area, true /* lower */)
	nl.Message = core.CleanString(nl.Message)
	nl.Source = core.CleanString(nl.Source, true /* lower */)
	return core.Validate.Struct(nl)
}
