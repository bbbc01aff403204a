package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/session"
)

type sessionRow struct {
	DeviceID         string         `db:"device_id"`
	UserID           sql.NullString `db:"user_id"`
	SelectedArea     string         `db:"selected_area"`
	Guest            bool           `db:"guest"`
	AccumulatedUsage int64          `db:"accumulated_usage"`
	Preferences      []byte         `db:"preferences"`
}

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) GetSession(deviceID string) (session.Persisted, error) {
	var row sessionRow
	if err := repo.db.Get(&row, `SELECT * FROM session WHERE device_id = $1`, deviceID); err != nil {
		if err == sql.ErrNoRows {
			return session.Persisted{}, session.ErrNotFound
		}
		return session.Persisted{}, errors.Wrap(err, "getting session")
	}

	p := session.Persisted{
		DeviceID:         row.DeviceID,
		UserID:           row.UserID.String,
		SelectedArea:     row.SelectedArea,
		Guest:            row.Guest,
		AccumulatedUsage: time.Duration(row.AccumulatedUsage),
	}
	if len(row.Preferences) > 0 {
		if err := json.Unmarshal(row.Preferences, &p.Preferences); err != nil {
			return session.Persisted{}, errors.Wrap(err, "decoding session preferences")
		}
	}
	return p, nil
}

func (repo *sessionRepository) SaveSession(p session.Persisted) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return errors.Wrap(err, "encoding session preferences")
	}
	row := sessionRow{
		DeviceID:         p.DeviceID,
		SelectedArea:     p.SelectedArea,
		Guest:            p.Guest,
		AccumulatedUsage: int64(p.AccumulatedUsage),
		Preferences:      prefs,
	}
	if p.UserID != "" {
		row.UserID = sql.NullString{String: p.UserID, Valid: true}
	}

	query := `
INSERT INTO session (device_id, user_id, selected_area, guest, accumulated_usage, preferences)
VALUES (:device_id, :user_id, :selected_area, :guest, :accumulated_usage, :preferences)
ON CONFLICT (device_id) DO UPDATE
SET user_id = EXCLUDED.user_id, selected_area = EXCLUDED.selected_area, guest = EXCLUDED.guest,
    accumulated_usage = EXCLUDED.accumulated_usage, preferences = EXCLUDED.preferences`
	if _, err = repo.db.NamedExec(query, row); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (repo *sessionRepository) DeleteSession(deviceID string) error {
	if _, err := repo.db.Exec(`DELETE FROM session WHERE device_id = $1`, deviceID); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
