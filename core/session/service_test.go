package session

import (
	"errors"
	"testing"
	"time"

	"github.com/veta-academy/backend/core/user"
)

type fakeRepo struct {
	table   map[string]Persisted
	saveErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{table: make(map[string]Persisted)} }

func (r *fakeRepo) GetSession(deviceID string) (Persisted, error) {
	if p, ok := r.table[deviceID]; ok {
		return p, nil
	}
	return Persisted{}, ErrNotFound
}

func (r *fakeRepo) SaveSession(p Persisted) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.table[p.DeviceID] = p
	return nil
}

func (r *fakeRepo) DeleteSession(deviceID string) error {
	delete(r.table, deviceID)
	return nil
}

type fakeUsers struct {
	users map[string]user.User
}

func (g *fakeUsers) GetByID(id string) (user.User, error) {
	if usr, ok := g.users[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func newTestService(usrs ...user.User) (Service, *fakeRepo) {
	repo := newFakeRepo()
	getter := &fakeUsers{users: make(map[string]user.User)}
	for _, u := range usrs {
		getter.users[u.ID] = u
	}
	return NewService(repo, getter), repo
}

func TestNewDeviceID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewDeviceID()
		if seen[id] {
			t.Fatalf("NewDeviceID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestGuestFlow(t *testing.T) {
	svc, _ := newTestService()

	sess := svc.Current("")
	if !sess.NeedsAreaSelection() {
		t.Error("fresh session: NeedsAreaSelection() = false; want true")
	}
	if sess.IsGuestActive() || sess.IsAuthenticated() {
		t.Error("fresh session is not anonymous")
	}

	sess, err := svc.StartGuest("metalurgia", sess.DeviceID)
	if err != nil {
		t.Fatalf("StartGuest(): %v", err)
	}
	if sess.NeedsAreaSelection() {
		t.Error("guest session: NeedsAreaSelection() = true; want false")
	}
	if !sess.IsGuestActive() {
		t.Error("guest session: IsGuestActive() = false; want true")
	}
	if sess.SelectedArea != "metalurgia" {
		t.Errorf("SelectedArea = %q; want %q", sess.SelectedArea, "metalurgia")
	}
	if sess.DeviceID == "" {
		t.Error("guest session has no device id")
	}
}

func TestLoginLogout(t *testing.T) {
	usr := user.User{ID: "u1", Name: "Admin", Roles: []string{user.RoleAdmin}, IsActive: true}
	svc, repo := newTestService(usr)

	start := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	now := start
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	deviceID := NewDeviceID()
	sess, err := svc.Login(usr, deviceID)
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("Login(): IsAuthenticated() = false")
	}
	if !sess.IsAdmin() {
		t.Error("Login(): IsAdmin() = false for admin user")
	}
	if sess.Guest {
		t.Error("Login() left guest flag set")
	}
	if !sess.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v; want %v", sess.StartedAt, start)
	}

	now = now.Add(45 * time.Minute)
	sess, err = svc.Logout(deviceID)
	if err != nil {
		t.Fatalf("Logout(): %v", err)
	}
	if sess.IsAuthenticated() || sess.User != nil {
		t.Error("Logout() left identity set")
	}
	if sess.AccumulatedUsage != 45*time.Minute {
		t.Errorf("AccumulatedUsage = %v; want %v", sess.AccumulatedUsage, 45*time.Minute)
	}

	// persisted identity cleared, usage kept
	p, err := repo.GetSession(deviceID)
	if err != nil {
		t.Fatalf("GetSession(): %v", err)
	}
	if p.UserID != "" {
		t.Errorf("persisted UserID = %q after logout; want empty", p.UserID)
	}
	if p.AccumulatedUsage != 45*time.Minute {
		t.Errorf("persisted AccumulatedUsage = %v; want %v", p.AccumulatedUsage, 45*time.Minute)
	}
}

func TestLogoutUnknownDevice(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Logout("nope"); err != ErrNotFound {
		t.Errorf("Logout(unknown) error = %v; want %v", err, ErrNotFound)
	}
}

func TestSessionRestore(t *testing.T) {
	usr := user.User{ID: "u1", Name: "Student", Roles: []string{user.RoleStudent}, IsActive: true}
	svc, repo := newTestService(usr)

	deviceID := NewDeviceID()
	if _, err := svc.Login(usr, deviceID); err != nil {
		t.Fatalf("Login(): %v", err)
	}

	// a fresh service simulates a restart; the persisted subset is restored
	restored := NewService(repo, &fakeUsers{users: map[string]user.User{usr.ID: usr}})
	sess := restored.Current(deviceID)
	if !sess.IsAuthenticated() {
		t.Error("restored session: IsAuthenticated() = false")
	}
	if sess.User.ID != usr.ID {
		t.Errorf("restored session user = %q; want %q", sess.User.ID, usr.ID)
	}
}

func TestSetPreferences(t *testing.T) {
	svc, repo := newTestService()

	sess, err := svc.StartGuest("mineria", "")
	if err != nil {
		t.Fatalf("StartGuest(): %v", err)
	}
	sess, err = svc.SetPreferences(sess.DeviceID, map[string]string{"lang": "es"})
	if err != nil {
		t.Fatalf("SetPreferences(): %v", err)
	}
	if sess.Preferences["lang"] != "es" {
		t.Errorf("Preferences = %v", sess.Preferences)
	}

	p, _ := repo.GetSession(sess.DeviceID)
	if p.Preferences["lang"] != "es" {
		t.Error("preferences not persisted")
	}

	// a device never seen before gets a session on the spot
	sess, err = svc.SetPreferences("dev-fresh", map[string]string{"theme": "dark"})
	if err != nil {
		t.Fatalf("SetPreferences(fresh device): %v", err)
	}
	if sess.Preferences["theme"] != "dark" {
		t.Errorf("Preferences = %v", sess.Preferences)
	}
	if sess.DeviceID != "dev-fresh" {
		t.Errorf("DeviceID = %q; want dev-fresh", sess.DeviceID)
	}

	if _, err = svc.SetPreferences("", nil); err != ErrNotFound {
		t.Errorf("SetPreferences(\"\") error = %v; want %v", err, ErrNotFound)
	}
}

func TestPersistFailureSurfaces(t *testing.T) {
	usr := user.User{ID: "u1", Name: "Student", Roles: []string{user.RoleStudent}, IsActive: true}
	svc, repo := newTestService(usr)

	deviceID := NewDeviceID()
	if _, err := svc.Login(usr, deviceID); err != nil {
		t.Fatalf("Login(): %v", err)
	}

	repo.saveErr = errors.New("connection lost")
	if _, err := svc.Logout(deviceID); err == nil {
		t.Error("Logout() swallowed the persist error")
	}
	if _, err := svc.SetPreferences(deviceID, map[string]string{"lang": "es"}); err == nil {
		t.Error("SetPreferences() swallowed the persist error")
	}
	if _, err := svc.Login(usr, deviceID); err == nil {
		t.Error("Login() swallowed the persist error")
	}
}
