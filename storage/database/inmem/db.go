// Package inmemdb provides map-backed repositories; used in tests and in
// standalone dev mode when no Postgres instance is around.
package inmemdb

import (
	"sync"

	"github.com/veta-academy/backend/core/catalog"
	"github.com/veta-academy/backend/core/enrollment"
	"github.com/veta-academy/backend/core/lead"
	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/review"
	"github.com/veta-academy/backend/core/session"
	"github.com/veta-academy/backend/core/user"
)

type (
	DB struct {
		user       *userTable
		session    *sessionTable
		course     *courseTable
		area       *areaTable
		config     *configTable
		lead       *leadTable
		review     *reviewTable
		enrollment *enrollmentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		seq   []string // insertion order
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]session.Persisted
	}

	courseTable struct {
		sync.RWMutex
		table     map[string]*catalog.Course
		seq       []string
		curated   map[string][]string          // list name -> course ids
		favorites map[string]map[string]bool   // owner -> course id set
		favSeq    map[string][]string          // owner -> insertion order
	}

	areaTable struct {
		sync.RWMutex
		table map[string]*platform.Area
		seq   []string
	}

	configTable struct {
		sync.RWMutex
		loyalty  *platform.LoyaltyConfig
		general  *platform.GeneralConfig
		whatsapp *platform.WhatsAppConfig
	}

	leadTable struct {
		sync.RWMutex
		table map[string]*lead.Lead
		seq   []string
	}

	reviewTable struct {
		sync.RWMutex
		table map[string]*review.Review
		seq   []string
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment
		seq   []string
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		session: &sessionTable{table: make(map[string]session.Persisted)},
		course: &courseTable{
			table:     make(map[string]*catalog.Course),
			curated:   make(map[string][]string),
			favorites: make(map[string]map[string]bool),
			favSeq:    make(map[string][]string),
		},
		area:       &areaTable{table: make(map[string]*platform.Area)},
		config:     &configTable{},
		lead:       &leadTable{table: make(map[string]*lead.Lead)},
		review:     &reviewTable{table: make(map[string]*review.Review)},
		enrollment: &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
	}
	return db, nil
}
