package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/veta-academy/backend/core"
)

// Levels
const (
	LevelBasic        = "basic"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Price buckets
const (
	PriceFree    = "free"
	PricePremium = "premium"
)

// Duration buckets; boundaries in parsed minutes.
const (
	DurationShort  = "short"  // <= 120
	DurationMedium = "medium" // 120 < m <= 300
	DurationLong   = "long"   // > 300

	shortMaxMinutes  = 120
	mediumMaxMinutes = 300
)

var firstNumberRegex = regexp.MustCompile(`\d+`)

type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Instructor    string    `json:"instructor"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"`
	Area          string    `json:"area"` // Area slug
	Level         string    `json:"level"`
	Duration      string    `json:"duration"` // free-form, eg. "90 min", "8 horas"
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"rating_count"`
	Students      int       `json:"students"`
	Featured      bool      `json:"featured"`
	Popular       bool      `json:"popular"`
	New           bool      `json:"new"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// DurationMinutes parses the course duration into minutes. The first number in
// the string is taken; an "h" unit marker multiplies it by 60. Non-numeric
// values parse as 0 and therefore land in the "short" bucket.
func (c Course) DurationMinutes() int {
	loc := firstNumberRegex.FindStringIndex(c.Duration)
	if loc == nil {
		return 0
	}
	n, err := strconv.Atoi(c.Duration[loc[0]:loc[1]])
	if err != nil {
		return 0
	}
	if strings.Contains(strings.ToLower(c.Duration[loc[1]:]), "h") {
		n *= 60
	}
	return n
}

func (c Course) DurationBucket() string {
	switch m := c.DurationMinutes(); {
	case m <= shortMaxMinutes:
		return DurationShort
	case m <= mediumMaxMinutes:
		return DurationMedium
	default:
		return DurationLong
	}
}

// QueryFilter narrows the catalog; an empty field means "no constraint for
// this dimension". All set predicates are AND-combined.
type QueryFilter struct {
	Area     string `query:"area"`
	Level    string `query:"level"`
	Duration string `query:"duration"` // short|medium|long
	Price    string `query:"price"`    // free|premium
	Search   string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Area == "" && qf.Level == "" && qf.Duration == "" && qf.Price == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Area = core.CleanString(qf.Area, true /* lower */)
	qf.Level = core.CleanString(qf.Level, true /* lower */)
	qf.Duration = core.CleanString(qf.Duration, true /* lower */)
	qf.Price = core.CleanString(qf.Price, true /* lower */)
	qf.Search = core.CleanString(qf.Search)
}

// Match reports whether the course passes every set predicate.
func (qf QueryFilter) Match(c Course) bool {
	if qf.Area != "" && c.Area != qf.Area {
		return false
	}
	if qf.Level != "" && c.Level != qf.Level {
		return false
	}
	switch qf.Price {
	case "":
	case PriceFree:
		if c.Price > 0 {
			return false
		}
	case PricePremium:
		if c.Price == 0 {
			return false
		}
	}
	if qf.Duration != "" && c.DurationBucket() != qf.Duration {
		return false
	}
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Instructor), search) {
			return false
		}
	}
	return true
}

// Apply returns the courses passing the filter, keeping input order.
func (qf QueryFilter) Apply(courses []Course) []Course {
	if qf.IsEmpty() {
		return courses
	}
	filtered := make([]Course, 0, len(courses))
	for _, c := range courses {
		if qf.Match(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	Instructor    string  `json:"instructor" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"original_price" validate:"omitempty,gtefield=Price"`
	Area          string  `json:"area" validate:"required,slug"`
	Level         string  `json:"level" validate:"required,oneof=basic intermediate advanced"`
	Duration      string  `json:"duration"`
	Featured      bool    `json:"featured"`
	Popular       bool    `json:"popular"`
	New           bool    `json:"new"`
}

func (nc *NewCourse) Validate(svc Service) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Instructor = core.CleanString(nc.Instructor)
	nc.Area = core.CleanString(nc.Area, true /* lower */)
	nc.Duration = core.CleanString(nc.Duration)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckSlugUniqueness(core.Slugify(nc.Title))
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Instructor    string   `json:"instructor"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gte=0"`
	Area          string   `json:"area" validate:"omitempty,slug"`
	Level         string   `json:"level" validate:"omitempty,oneof=basic intermediate advanced"`
	Duration      *string  `json:"duration"`
	Featured      *bool    `json:"featured"`
	Popular       *bool    `json:"popular"`
	New           *bool    `json:"new"`
}

func (uc *UpdateCourse) Validate(orig Course, svc Service) error {
	title := core.CleanString(uc.Title)
	if title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	uc.Instructor = core.CleanString(uc.Instructor)
	if uc.Instructor == "" {
		uc.Instructor = orig.Instructor
	}
	uc.Area = core.CleanString(uc.Area, true /* lower */)
	if uc.Area == "" {
		uc.Area = orig.Area
	}
	if uc.Level == "" {
		uc.Level = orig.Level
	}

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	if slug := core.Slugify(uc.Title); slug != orig.Slug {
		return svc.CheckSlugUniqueness(slug)
	}
	return nil
}
