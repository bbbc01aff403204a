package platform

import (
	"sort"
	"time"

	"github.com/veta-academy/backend/core"
)

// Area is a top-level subject-matter category grouping courses
// (eg. metalurgia, mineria, geologia).
type Area struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// LoyaltyTier names a loyalty level reached at MinPoints.
type LoyaltyTier struct {
	Name      string `json:"name" validate:"required"`
	MinPoints int    `json:"min_points" validate:"gte=0"`
}

// LoyaltyConfig drives the points economy.
type LoyaltyConfig struct {
	WelcomeBonus int           `json:"welcome_bonus" validate:"gte=0"`
	EarnRate     float64       `json:"earn_rate" validate:"gte=0"` // points per currency unit spent
	Tiers        []LoyaltyTier `json:"tiers" validate:"required,min=1,dive"`
}

func (lc LoyaltyConfig) Validate() error { return core.Validate.Struct(lc) }

// TierFor resolves the highest tier whose threshold the points reach.
func (lc LoyaltyConfig) TierFor(points int) (LoyaltyTier, bool) {
	tiers := make([]LoyaltyTier, len(lc.Tiers))
	copy(tiers, lc.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinPoints < tiers[j].MinPoints })

	var found bool
	var tier LoyaltyTier
	for _, t := range tiers {
		if points >= t.MinPoints {
			tier = t
			found = true
		}
	}
	return tier, found
}

type GeneralConfig struct {
	SiteName     string `json:"site_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,e164"`
	Currency     string `json:"currency" validate:"required,len=3"` // ISO 4217
}

func (gc GeneralConfig) Validate() error { return core.Validate.Struct(gc) }

// WhatsAppConfig is an explicit record, not a free-form blob.
type WhatsAppConfig struct {
	Enabled         bool   `json:"enabled"`
	Phone           string `json:"phone" validate:"required_with=Enabled,omitempty,e164"`
	Greeting        string `json:"greeting"`
	CourseInquiry   string `json:"course_inquiry"`   // template; {{course}} placeholder
	DefaultDiscount int    `json:"default_discount"` // percent advertised on the contact CTA
}

func (wc WhatsAppConfig) Validate() error { return core.Validate.Struct(wc) }

// NewArea contains information needed to create a new Area.
type NewArea struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"omitempty,slug"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
}

func (na *NewArea) Validate(svc Service) error {
	na.Name = core.CleanString(na.Name)
	na.Slug = core.CleanString(na.Slug, true /* lower */)
	if na.Slug == "" && na.Name != "" {
		na.Slug = core.Slugify(na.Name)
	}

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckAreaSlugUniqueness(na.Slug)
}

// UpdateArea defines what information may be provided to modify an existing Area.
type UpdateArea struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug" validate:"omitempty,slug"`
	Description *string `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
}

func (ua *UpdateArea) Validate(orig Area, svc Service) error {
	name := core.CleanString(ua.Name)
	if name != "" {
		ua.Name = name
	} else {
		ua.Name = orig.Name
	}

	slug := core.CleanString(ua.Slug, true /* lower */)
	if slug != "" {
		ua.Slug = slug
	} else {
		ua.Slug = orig.Slug
	}

	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	if ua.Slug != orig.Slug {
		return svc.CheckAreaSlugUniqueness(ua.Slug, orig)
	}
	return nil
}
