package inmemdb

import (
	"github.com/google/uuid"

	"github.com/veta-academy/backend/core/lead"
)

type leadRepository struct {
	db *leadTable
}

var _ lead.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *DB) lead.Repository {
	return &leadRepository{db: db.lead}
}

func (repo *leadRepository) CreateLead(l lead.Lead) (lead.Lead, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = uuid.New().String()
	repo.db.table[l.ID] = &l
	repo.db.seq = append(repo.db.seq, l.ID)
	return l, nil
}

func (repo *leadRepository) QueryAllLeads() ([]lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	leads := make([]lead.Lead, 0, len(repo.db.seq))
	for _, id := range repo.db.seq {
		if l, ok := repo.db.table[id]; ok {
			leads = append(leads, *l)
		}
	}
	return leads, nil
}

func (repo *leadRepository) GetLeadByID(id string) (lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.table[id]; ok {
		return *l, nil
	}
	return lead.Lead{}, lead.ErrNotFound
}

func (repo *leadRepository) DeleteLeadsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	repo.db.seq = dropIDs(repo.db.seq, ids)
	return nil
}
