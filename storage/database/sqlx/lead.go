package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/lead"
)

type leadRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Area      string    `db:"area"`
	CourseID  string    `db:"course_id"`
	Message   string    `db:"message"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

type leadRepository struct {
	db *sqlx.DB
}

var _ lead.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *sqlx.DB) lead.Repository {
	return &leadRepository{db: db}
}

func (repo *leadRepository) CreateLead(l lead.Lead) (lead.Lead, error) {
	l.ID = uuid.New().String()
	query := `
INSERT INTO lead (id, name, email, phone, area, course_id, message, source, created_at)
VALUES (:id, :name, :email, :phone, :area, :course_id, :message, :source, :created_at)`
	if _, err := repo.db.NamedExec(query, leadRow(l)); err != nil {
		return lead.Lead{}, errors.Wrap(err, "creating lead")
	}
	return l, nil
}

func (repo *leadRepository) QueryAllLeads() ([]lead.Lead, error) {
	var rows []leadRow
	if err := repo.db.Select(&rows, `SELECT * FROM lead ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying leads")
	}
	leads := make([]lead.Lead, len(rows))
	for i, row := range rows {
		leads[i] = lead.Lead(row)
	}
	return leads, nil
}

func (repo *leadRepository) GetLeadByID(id string) (lead.Lead, error) {
	var row leadRow
	if err := repo.db.Get(&row, `SELECT * FROM lead WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return lead.Lead{}, lead.ErrNotFound
		}
		return lead.Lead{}, errors.Wrap(err, "getting lead")
	}
	return lead.Lead(row), nil
}

func (repo *leadRepository) DeleteLeadsByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM lead WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting leads")
	}
	return nil
}
