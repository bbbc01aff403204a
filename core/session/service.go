package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("session not found")
)

type (
	// Repository persists the whitelisted Session subset, keyed by device ID.
	Repository interface {
		GetSession(deviceID string) (Persisted, error)
		SaveSession(p Persisted) error
		DeleteSession(deviceID string) error
	}

	// userGetter resolves a persisted user reference back into a full record.
	userGetter interface {
		GetByID(id string) (user.User, error)
	}

	Service interface {
		// Current returns the device's session, restoring it from the persisted
		// subset when it is not live; unknown devices get a fresh anonymous session.
		Current(deviceID string) Session
		Login(usr user.User, deviceID string) (Session, error)
		// Logout clears the identity, folds the elapsed time since StartedAt into
		// AccumulatedUsage and clears the persisted identity.
		Logout(deviceID string) (Session, error)
		StartGuest(area, deviceID string) (Session, error)
		SetPreferences(deviceID string, prefs map[string]string) (Session, error)
	}

	service struct {
		mu    sync.Mutex
		live  map[string]*Session
		repo  Repository
		users userGetter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, users userGetter) Service {
	return &service{
		live:  make(map[string]*Session),
		repo:  repo,
		users: users,
	}
}

// NewDeviceID generates a unique per-call device identifier: a fresh random
// token plus a timestamp.
func NewDeviceID() string {
	return fmt.Sprintf("%s-%d", uuid.New().String(), NowFunc().UnixNano())
}

func (svc *service) Current(deviceID string) Session {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return *svc.get(deviceID)
}

// get returns the live session for deviceID, restoring or creating one.
// Callers must hold svc.mu.
func (svc *service) get(deviceID string) *Session {
	if deviceID == "" {
		deviceID = NewDeviceID()
	}
	if sess, ok := svc.live[deviceID]; ok {
		return sess
	}

	sess := &Session{DeviceID: deviceID}
	if p, err := svc.repo.GetSession(deviceID); err == nil {
		sess.SelectedArea = p.SelectedArea
		sess.Guest = p.Guest
		sess.AccumulatedUsage = p.AccumulatedUsage
		sess.Preferences = p.Preferences
		if p.UserID != "" {
			if usr, err := svc.users.GetByID(p.UserID); err == nil && usr.IsActive {
				sess.User = &usr
				sess.Authenticated = true
			}
		}
		// a restored session starts counting afresh
		if sess.Authenticated || sess.Guest {
			sess.StartedAt = NowFunc().UTC()
		}
	}
	svc.live[deviceID] = sess
	return sess
}

func (svc *service) Login(usr user.User, deviceID string) (Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sess := svc.get(deviceID)
	sess.User = &usr
	sess.Authenticated = true
	sess.Guest = false
	sess.StartedAt = NowFunc().UTC()

	if err := svc.repo.SaveSession(sess.persisted()); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return *sess, nil
}

func (svc *service) Logout(deviceID string) (Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sess, ok := svc.live[deviceID]
	if !ok {
		if _, err := svc.repo.GetSession(deviceID); err != nil {
			return Session{}, ErrNotFound
		}
		sess = svc.get(deviceID)
	}

	if !sess.StartedAt.IsZero() {
		if elapsed := NowFunc().UTC().Sub(sess.StartedAt); elapsed > 0 {
			sess.AccumulatedUsage += elapsed
		}
	}
	sess.User = nil
	sess.Authenticated = false
	sess.Guest = false
	sess.StartedAt = time.Time{}

	if err := svc.repo.SaveSession(sess.persisted()); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return *sess, nil
}

func (svc *service) StartGuest(area, deviceID string) (Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sess := svc.get(deviceID)
	sess.User = nil
	sess.Authenticated = false
	sess.Guest = true
	sess.SelectedArea = area
	sess.StartedAt = NowFunc().UTC()

	if err := svc.repo.SaveSession(sess.persisted()); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return *sess, nil
}

func (svc *service) SetPreferences(deviceID string, prefs map[string]string) (Session, error) {
	if deviceID == "" {
		return Session{}, ErrNotFound
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	sess := svc.get(deviceID)
	if sess.Preferences == nil {
		sess.Preferences = make(map[string]string, len(prefs))
	}
	for k, v := range prefs {
		sess.Preferences[k] = v
	}

	if err := svc.repo.SaveSession(sess.persisted()); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return *sess, nil
}
