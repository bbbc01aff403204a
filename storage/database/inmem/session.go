package inmemdb

import (
	"github.com/veta-academy/backend/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) GetSession(deviceID string) (session.Persisted, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[deviceID]; ok {
		return p, nil
	}
	return session.Persisted{}, session.ErrNotFound
}

func (repo *sessionRepository) SaveSession(p session.Persisted) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[p.DeviceID] = p
	return nil
}

func (repo *sessionRepository) DeleteSession(deviceID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, deviceID)
	return nil
}
