package session

import (
	"time"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/user"
)

// Session is the per-device state container. It is always in exactly one of
// three states: authenticated (User set), guest (Guest flag + selected area,
// no User) or anonymous (neither; an area still needs to be chosen).
type Session struct {
	User             *user.User        `json:"user,omitempty"`
	Authenticated    bool              `json:"authenticated"`
	Guest            bool              `json:"guest"`
	SelectedArea     string            `json:"selected_area,omitempty"`
	DeviceID         string            `json:"device_id"`
	StartedAt        time.Time         `json:"started_at,omitempty"` // UTC; not persisted
	AccumulatedUsage time.Duration     `json:"accumulated_usage"`
	Preferences      map[string]string `json:"preferences,omitempty"`
}

// Predicates; pure functions of current state.

func (s Session) IsAuthenticated() bool {
	return s.Authenticated && s.User != nil
}

func (s Session) IsGuestActive() bool {
	return s.Guest && !s.IsAuthenticated()
}

// NeedsAreaSelection reports whether the visitor still has to pick an area:
// neither authenticated nor guest, and no area chosen yet.
func (s Session) NeedsAreaSelection() bool {
	return !s.IsAuthenticated() && !s.Guest && s.SelectedArea == ""
}

func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

// Persisted is the whitelisted subset of Session that survives a restart.
// StartedAt and the transient authenticated flag deliberately do not.
type Persisted struct {
	DeviceID         string            `json:"device_id"`
	UserID           string            `json:"user_id,omitempty"`
	SelectedArea     string            `json:"selected_area,omitempty"`
	Guest            bool              `json:"guest"`
	AccumulatedUsage time.Duration     `json:"accumulated_usage"`
	Preferences      map[string]string `json:"preferences,omitempty"`
}

func (s Session) persisted() Persisted {
	p := Persisted{
		DeviceID:         s.DeviceID,
		SelectedArea:     s.SelectedArea,
		Guest:            s.Guest,
		AccumulatedUsage: s.AccumulatedUsage,
		Preferences:      s.Preferences,
	}
	if s.IsAuthenticated() {
		p.UserID = s.User.ID
	}
	return p
}

type StartGuestRequest struct {
	Area     string `json:"area" validate:"required,slug"`
	DeviceID string `json:"device_id" validate:"omitempty"`
}

func (r *StartGuestRequest) Validate() error {
	r.Area = core.CleanString(r.Area, true /* lower */)
	r.DeviceID = core.CleanString(r.DeviceID)
	return core.Validate.Struct(r)
}
