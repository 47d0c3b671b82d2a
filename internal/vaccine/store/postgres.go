package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vaxadmin/internal/vaccine/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresVaccineStore persists catalog entries in PostgreSQL.
type PostgresVaccineStore struct {
	pool *pgxpool.Pool
}

func NewPostgresVaccineStore(pool *pgxpool.Pool) *PostgresVaccineStore {
	return &PostgresVaccineStore{pool: pool}
}

func (s *PostgresVaccineStore) Create(ctx context.Context, vaccine *models.Vaccine) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vaccines (id, name, manufacturer, doses_required, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		vaccine.ID.String(), vaccine.Name, vaccine.Manufacturer,
		vaccine.DosesRequired, vaccine.Description, vaccine.CreatedAt, vaccine.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create vaccine: %w", err)
	}
	return nil
}

func (s *PostgresVaccineStore) FindByID(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	return s.scanVaccine(s.pool.QueryRow(ctx, `
		SELECT id, name, manufacturer, doses_required, description, created_at, updated_at
		FROM vaccines WHERE id = $1`, vaccineID.String()))
}

func (s *PostgresVaccineStore) List(ctx context.Context) ([]*models.Vaccine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, manufacturer, doses_required, description, created_at, updated_at
		FROM vaccines ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	defer rows.Close()

	var vaccines []*models.Vaccine
	for rows.Next() {
		vaccine, err := s.scanVaccine(rows)
		if err != nil {
			return nil, err
		}
		vaccines = append(vaccines, vaccine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	return vaccines, nil
}

func (s *PostgresVaccineStore) Update(ctx context.Context, vaccine *models.Vaccine) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vaccines
		SET name = $2, manufacturer = $3, doses_required = $4, description = $5, updated_at = $6
		WHERE id = $1`,
		vaccine.ID.String(), vaccine.Name, vaccine.Manufacturer,
		vaccine.DosesRequired, vaccine.Description, vaccine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vaccine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresVaccineStore) Delete(ctx context.Context, vaccineID id.VaccineID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM vaccines WHERE id = $1`, vaccineID.String())
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresVaccineStore) scanVaccine(row pgx.Row) (*models.Vaccine, error) {
	var vaccine models.Vaccine
	err := row.Scan(&vaccine.ID, &vaccine.Name, &vaccine.Manufacturer,
		&vaccine.DosesRequired, &vaccine.Description, &vaccine.CreatedAt, &vaccine.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vaccine: %w", err)
	}
	return &vaccine, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
