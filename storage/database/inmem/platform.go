package inmemdb

import (
	"github.com/google/uuid"

	"github.com/veta-academy/backend/core/platform"
)

type platformRepository struct {
	areas  *areaTable
	config *configTable
}

var _ platform.Repository = (*platformRepository)(nil) // interface compliance check

func NewPlatformRepository(db *DB) platform.Repository {
	return &platformRepository{areas: db.area, config: db.config}
}

// query returns areas in insertion order. Callers must hold the lock.
func (repo *platformRepository) query() []platform.Area {
	areas := make([]platform.Area, 0, len(repo.areas.seq))
	for _, id := range repo.areas.seq {
		if a, ok := repo.areas.table[id]; ok {
			areas = append(areas, *a)
		}
	}
	return areas
}

func (repo *platformRepository) CheckAreaSlugUniqueness(slug string, excludedAreas ...platform.Area) error {
	repo.areas.RLock()
	defer repo.areas.RUnlock()

	excluded := make(map[string]bool, len(excludedAreas))
	for _, a := range excludedAreas {
		excluded[a.ID] = true
	}
	for _, a := range repo.query() {
		if a.Slug == slug && !excluded[a.ID] {
			return platform.ErrSlugExists
		}
	}
	return nil
}

func (repo *platformRepository) CreateArea(a platform.Area) (platform.Area, error) {
	repo.areas.Lock()
	defer repo.areas.Unlock()

	a.ID = uuid.New().String()
	repo.areas.table[a.ID] = &a
	repo.areas.seq = append(repo.areas.seq, a.ID)
	return a, nil
}

func (repo *platformRepository) QueryAllAreas() ([]platform.Area, error) {
	repo.areas.RLock()
	defer repo.areas.RUnlock()
	return repo.query(), nil
}

func (repo *platformRepository) GetAreaByID(id string) (platform.Area, error) {
	repo.areas.RLock()
	defer repo.areas.RUnlock()

	if a, ok := repo.areas.table[id]; ok {
		return *a, nil
	}
	return platform.Area{}, platform.ErrNotFound
}

func (repo *platformRepository) GetAreaBySlug(slug string) (platform.Area, error) {
	repo.areas.RLock()
	defer repo.areas.RUnlock()

	for _, a := range repo.query() {
		if a.Slug == slug {
			return a, nil
		}
	}
	return platform.Area{}, platform.ErrNotFound
}

func (repo *platformRepository) UpdateArea(a platform.Area, isActive *bool) (platform.Area, error) {
	repo.areas.Lock()
	defer repo.areas.Unlock()

	orig, ok := repo.areas.table[a.ID]
	if !ok {
		return platform.Area{}, platform.ErrNotFound
	}
	if isActive != nil {
		a.IsActive = *isActive
	} else {
		a.IsActive = orig.IsActive
	}
	a.CreatedAt = orig.CreatedAt
	repo.areas.table[a.ID] = &a
	return a, nil
}

func (repo *platformRepository) DeleteAreasByID(ids ...string) error {
	repo.areas.Lock()
	defer repo.areas.Unlock()

	for _, id := range ids {
		delete(repo.areas.table, id)
	}
	repo.areas.seq = dropIDs(repo.areas.seq, ids)
	return nil
}

func (repo *platformRepository) GetLoyaltyConfig() (platform.LoyaltyConfig, error) {
	repo.config.RLock()
	defer repo.config.RUnlock()

	if repo.config.loyalty == nil {
		return platform.LoyaltyConfig{}, platform.ErrConfigNotSet
	}
	return *repo.config.loyalty, nil
}

func (repo *platformRepository) SetLoyaltyConfig(lc platform.LoyaltyConfig) error {
	repo.config.Lock()
	defer repo.config.Unlock()

	repo.config.loyalty = &lc
	return nil
}

func (repo *platformRepository) GetGeneralConfig() (platform.GeneralConfig, error) {
	repo.config.RLock()
	defer repo.config.RUnlock()

	if repo.config.general == nil {
		return platform.GeneralConfig{}, platform.ErrConfigNotSet
	}
	return *repo.config.general, nil
}

func (repo *platformRepository) SetGeneralConfig(gc platform.GeneralConfig) error {
	repo.config.Lock()
	defer repo.config.Unlock()

	repo.config.general = &gc
	return nil
}

func (repo *platformRepository) GetWhatsAppConfig() (platform.WhatsAppConfig, error) {
	repo.config.RLock()
	defer repo.config.RUnlock()

	if repo.config.whatsapp == nil {
		return platform.WhatsAppConfig{}, platform.ErrConfigNotSet
	}
	return *repo.config.whatsapp, nil
}

func (repo *platformRepository) SetWhatsAppConfig(wc platform.WhatsAppConfig) error {
	repo.config.Lock()
	defer repo.config.Unlock()

	repo.config.whatsapp = &wc
	return nil
}
