package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vaxadmin/internal/facility/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresFacilityStore persists facilities in PostgreSQL.
type PostgresFacilityStore struct {
	pool *pgxpool.Pool
}

func NewPostgresFacilityStore(pool *pgxpool.Pool) *PostgresFacilityStore {
	return &PostgresFacilityStore{pool: pool}
}

func (s *PostgresFacilityStore) Create(ctx context.Context, facility *models.HealthFacility) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO health_facilities (id, name, city_id, address, admin_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		facility.ID.String(), facility.Name, facility.CityID.String(), facility.Address,
		nullableAdminID(facility.AdminID), facility.CreatedAt, facility.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

func (s *PostgresFacilityStore) FindByID(ctx context.Context, facilityID id.FacilityID) (*models.HealthFacility, error) {
	return s.scanFacility(s.pool.QueryRow(ctx, `
		SELECT id, name, city_id, address, admin_id, created_at, updated_at
		FROM health_facilities WHERE id = $1`, facilityID.String()))
}

func (s *PostgresFacilityStore) List(ctx context.Context, cityID id.CityID) ([]*models.HealthFacility, error) {
	query := `
		SELECT id, name, city_id, address, admin_id, created_at, updated_at
		FROM health_facilities`
	args := []any{}
	if !cityID.IsZero() {
		query += ` WHERE city_id = $1`
		args = append(args, cityID.String())
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer rows.Close()

	var facilities []*models.HealthFacility
	for rows.Next() {
		facility, err := s.scanFacility(rows)
		if err != nil {
			return nil, err
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return facilities, nil
}

func (s *PostgresFacilityStore) Update(ctx context.Context, facility *models.HealthFacility) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE health_facilities
		SET name = $2, city_id = $3, address = $4, admin_id = $5, updated_at = $6
		WHERE id = $1`,
		facility.ID.String(), facility.Name, facility.CityID.String(), facility.Address,
		nullableAdminID(facility.AdminID), facility.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresFacilityStore) Delete(ctx context.Context, facilityID id.FacilityID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM health_facilities WHERE id = $1`, facilityID.String())
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresFacilityStore) scanFacility(row pgx.Row) (*models.HealthFacility, error) {
	var facility models.HealthFacility
	var owner *uuid.UUID
	err := row.Scan(&facility.ID, &facility.Name, &facility.CityID, &facility.Address,
		&owner, &facility.CreatedAt, &facility.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find facility: %w", err)
	}
	if owner != nil {
		facility.AdminID = id.AdminID(*owner)
	}
	return &facility, nil
}

// PostgresDistributionStore persists the append-only distribution log.
type PostgresDistributionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDistributionStore(pool *pgxpool.Pool) *PostgresDistributionStore {
	return &PostgresDistributionStore{pool: pool}
}

func (s *PostgresDistributionStore) Create(ctx context.Context, distribution *models.Distribution) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vaccine_distributions (id, facility_id, vaccine_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		distribution.ID.String(), distribution.FacilityID.String(),
		distribution.VaccineID.String(), distribution.Quantity, distribution.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create distribution: %w", err)
	}
	return nil
}

func (s *PostgresDistributionStore) ListByFacility(ctx context.Context, facilityID id.FacilityID) ([]*models.Distribution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, facility_id, vaccine_id, quantity, created_at
		FROM vaccine_distributions WHERE facility_id = $1 ORDER BY created_at, id`,
		facilityID.String())
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	defer rows.Close()

	var distributions []*models.Distribution
	for rows.Next() {
		var distribution models.Distribution
		if err := rows.Scan(&distribution.ID, &distribution.FacilityID,
			&distribution.VaccineID, &distribution.Quantity, &distribution.CreatedAt); err != nil {
			return nil, fmt.Errorf("list distributions: %w", err)
		}
		distributions = append(distributions, &distribution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	return distributions, nil
}

func nullableAdminID(adminID id.AdminID) any {
	if adminID.IsZero() {
		return nil
	}
	return adminID.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
