package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/platform"
)

// platform_config keys
const (
	configKeyLoyalty  = "loyalty"
	configKeyGeneral  = "general"
	configKeyWhatsApp = "whatsapp"
)

type areaRow struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Color       string    `db:"color"`
	Icon        string    `db:"icon"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func newAreaRow(a platform.Area) areaRow {
	return areaRow(a)
}

func (row areaRow) area() platform.Area {
	return platform.Area(row)
}

type platformRepository struct {
	db *sqlx.DB
}

var _ platform.Repository = (*platformRepository)(nil) // interface compliance check

func NewPlatformRepository(db *sqlx.DB) platform.Repository {
	return &platformRepository{db: db}
}

func (repo *platformRepository) CheckAreaSlugUniqueness(slug string, excludedAreas ...platform.Area) error {
	query := `SELECT COUNT(*) FROM area WHERE slug = $1`
	args := []interface{}{slug}
	if len(excludedAreas) > 0 {
		ids := make([]string, len(excludedAreas))
		for i, a := range excludedAreas {
			ids[i] = a.ID
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}

	var count int
	if err := repo.db.Get(&count, query, args...); err != nil {
		return errors.Wrap(err, "checking area slug uniqueness")
	}
	if count > 0 {
		return platform.ErrSlugExists
	}
	return nil
}

func (repo *platformRepository) CreateArea(a platform.Area) (platform.Area, error) {
	a.ID = uuid.New().String()
	query := `
INSERT INTO area (id, slug, name, description, color, icon, is_active, created_at, updated_at)
VALUES (:id, :slug, :name, :description, :color, :icon, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(query, newAreaRow(a)); err != nil {
		return platform.Area{}, errors.Wrap(err, "creating area")
	}
	return a, nil
}

func (repo *platformRepository) QueryAllAreas() ([]platform.Area, error) {
	var rows []areaRow
	if err := repo.db.Select(&rows, `SELECT * FROM area ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying areas")
	}
	areas := make([]platform.Area, len(rows))
	for i, row := range rows {
		areas[i] = row.area()
	}
	return areas, nil
}

func (repo *platformRepository) getArea(query string, args ...interface{}) (platform.Area, error) {
	var row areaRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return platform.Area{}, platform.ErrNotFound
		}
		return platform.Area{}, errors.Wrap(err, "getting area")
	}
	return row.area(), nil
}

func (repo *platformRepository) GetAreaByID(id string) (platform.Area, error) {
	return repo.getArea(`SELECT * FROM area WHERE id = $1`, id)
}

func (repo *platformRepository) GetAreaBySlug(slug string) (platform.Area, error) {
	return repo.getArea(`SELECT * FROM area WHERE slug = $1`, slug)
}

func (repo *platformRepository) UpdateArea(a platform.Area, isActive *bool) (platform.Area, error) {
	orig, err := repo.GetAreaByID(a.ID)
	if err != nil {
		return platform.Area{}, err
	}
	if isActive != nil {
		a.IsActive = *isActive
	} else {
		a.IsActive = orig.IsActive
	}
	a.CreatedAt = orig.CreatedAt

	query := `
UPDATE area
SET slug = :slug, name = :name, description = :description, color = :color, icon = :icon,
    is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err := repo.db.NamedExec(query, newAreaRow(a)); err != nil {
		return platform.Area{}, errors.Wrap(err, "updating area")
	}
	return a, nil
}

func (repo *platformRepository) DeleteAreasByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM area WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting areas")
	}
	return nil
}

func (repo *platformRepository) getConfig(key string, dst interface{}) error {
	var raw []byte
	if err := repo.db.Get(&raw, `SELECT value FROM platform_config WHERE key = $1`, key); err != nil {
		if err == sql.ErrNoRows {
			return platform.ErrConfigNotSet
		}
		return errors.Wrapf(err, "getting %s config", key)
	}
	return errors.Wrapf(json.Unmarshal(raw, dst), "decoding %s config", key)
}

func (repo *platformRepository) setConfig(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s config", key)
	}
	query := `
INSERT INTO platform_config (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err = repo.db.Exec(query, key, raw); err != nil {
		return errors.Wrapf(err, "setting %s config", key)
	}
	return nil
}

func (repo *platformRepository) GetLoyaltyConfig() (platform.LoyaltyConfig, error) {
	var lc platform.LoyaltyConfig
	if err := repo.getConfig(configKeyLoyalty, &lc); err != nil {
		return platform.LoyaltyConfig{}, err
	}
	return lc, nil
}

func (repo *platformRepository) SetLoyaltyConfig(lc platform.LoyaltyConfig) error {
	return repo.setConfig(configKeyLoyalty, lc)
}

func (repo *platformRepository) GetGeneralConfig() (platform.GeneralConfig, error) {
	var gc platform.GeneralConfig
	if err := repo.getConfig(configKeyGeneral, &gc); err != nil {
		return platform.GeneralConfig{}, err
	}
	return gc, nil
}

func (repo *platformRepository) SetGeneralConfig(gc platform.GeneralConfig) error {
	return repo.setConfig(configKeyGeneral, gc)
}

func (repo *platformRepository) GetWhatsAppConfig() (platform.WhatsAppConfig, error) {
	var wc platform.WhatsAppConfig
	if err := repo.getConfig(configKeyWhatsApp, &wc); err != nil {
		return platform.WhatsAppConfig{}, err
	}
	return wc, nil
}

func (repo *platformRepository) SetWhatsAppConfig(wc platform.WhatsAppConfig) error {
	return repo.setConfig(configKeyWhatsApp, wc)
}
