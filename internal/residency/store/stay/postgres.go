package stay

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"daywise/internal/residency/models"
	id "daywise/pkg/domain"
)

// PostgresStayStore persists stays in PostgreSQL. Dates are stored as DATE
// columns; the Date value type converts at the boundary so no time-of-day or
// timezone state ever enters the engine.
//
// Schema:
//
//	CREATE TABLE stays (
//	    id         UUID PRIMARY KEY,
//	    subject_id UUID NOT NULL,
//	    territory  TEXT NOT NULL,
//	    entry_date DATE NOT NULL,
//	    exit_date  DATE,
//	    excluded   BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    CONSTRAINT stays_dates_ordered CHECK (exit_date IS NULL OR exit_date >= entry_date)
//	);
//	CREATE INDEX stays_subject_idx ON stays (subject_id, entry_date);
type PostgresStayStore struct {
	db *sql.DB
}

func NewPostgresStayStore(db *sql.DB) *PostgresStayStore {
	return &PostgresStayStore{db: db}
}

func (s *PostgresStayStore) Save(ctx context.Context, stay *models.Stay) error {
	if err := stay.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO stays (id, subject_id, territory, entry_date, exit_date, excluded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			territory  = EXCLUDED.territory,
			entry_date = EXCLUDED.entry_date,
			exit_date  = EXCLUDED.exit_date,
			excluded   = EXCLUDED.excluded
	`
	_, err := s.db.ExecContext(ctx, query,
		stay.ID.String(),
		stay.SubjectID.String(),
		stay.Territory,
		stay.EntryDate.Time(),
		nullableDate(stay.ExitDate),
		stay.Excluded,
		stay.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stay: %w", err)
	}
	return nil
}

func (s *PostgresStayStore) Get(ctx context.Context, stayID id.StayID) (*models.Stay, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, subject_id, territory, entry_date, exit_date, excluded, created_at
		FROM stays WHERE id = $1`, stayID.String())
	stay, err := scanStay(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stay: %w", err)
	}
	return stay, nil
}

func (s *PostgresStayStore) ListBySubject(ctx context.Context, subjectID id.SubjectID) ([]models.Stay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject_id, territory, entry_date, exit_date, excluded, created_at
		FROM stays WHERE subject_id = $1
		ORDER BY entry_date, id`, subjectID.String())
	if err != nil {
		return nil, fmt.Errorf("list stays: %w", err)
	}
	defer rows.Close()

	out := make([]models.Stay, 0)
	for rows.Next() {
		stay, err := scanStay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stay: %w", err)
		}
		out = append(out, *stay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stays: %w", err)
	}
	return out, nil
}

func (s *PostgresStayStore) Delete(ctx context.Context, stayID id.StayID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stays WHERE id = $1`, stayID.String())
	if err != nil {
		return fmt.Errorf("delete stay: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stay: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStayStore) ListSubjects(ctx context.Context) ([]id.SubjectID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT subject_id FROM stays ORDER BY subject_id`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	out := make([]id.SubjectID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subject, err := id.ParseSubjectID(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStay(row rowScanner) (*models.Stay, error) {
	var (
		rawID      string
		rawSubject string
		territory  string
		entry      time.Time
		exit       sql.NullTime
		excluded   bool
		createdAt  time.Time
	)
	if err := row.Scan(&rawID, &rawSubject, &territory, &entry, &exit, &excluded, &createdAt); err != nil {
		return nil, err
	}

	stayID, err := id.ParseStayID(rawID)
	if err != nil {
		return nil, err
	}
	subjectID, err := id.ParseSubjectID(rawSubject)
	if err != nil {
		return nil, err
	}

	stay := &models.Stay{
		ID:        stayID,
		SubjectID: subjectID,
		Territory: territory,
		EntryDate: id.DateOf(entry),
		Excluded:  excluded,
		CreatedAt: createdAt,
	}
	if exit.Valid {
		d := id.DateOf(exit.Time)
		stay.ExitDate = &d
	}
	return stay, nil
}

func nullableDate(d *id.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}
