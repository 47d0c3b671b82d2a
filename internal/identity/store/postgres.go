package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vaxadmin/internal/identity/models"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresAdminStore persists administrator accounts in PostgreSQL.
type PostgresAdminStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAdminStore(pool *pgxpool.Pool) *PostgresAdminStore {
	return &PostgresAdminStore{pool: pool}
}

func (s *PostgresAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, super_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		admin.ID.String(), admin.Username, admin.PasswordHash, admin.SuperAdmin, admin.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (s *PostgresAdminStore) FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error) {
	return s.scanAdmin(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, super_admin, created_at
		FROM admins WHERE id = $1`, adminID.String()))
}

func (s *PostgresAdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return s.scanAdmin(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, super_admin, created_at
		FROM admins WHERE lower(username) = lower($1)`, username))
}

func (s *PostgresAdminStore) scanAdmin(row pgx.Row) (*models.Admin, error) {
	var admin models.Admin
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.SuperAdmin, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}

// PostgresUserStore persists citizen accounts in PostgreSQL. The UNIQUE index
// on lower(nik) is what serializes concurrent registrations for the same nik.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) CreateIfAbsent(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, nik, name, phone_number, gender, date_of_birth, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID.String(), user.NIK.String(), user.Name, user.PhoneNumber,
		user.Gender, user.DateOfBirth, user.PasswordHash, user.Active, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, nik, name, phone_number, gender, date_of_birth, password_hash, active, created_at
		FROM users WHERE id = $1`, userID.String()))
}

func (s *PostgresUserStore) FindByNIK(ctx context.Context, nik id.NationalID) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, nik, name, phone_number, gender, date_of_birth, password_hash, active, created_at
		FROM users WHERE lower(nik) = lower($1)`, nik.String()))
}

func (s *PostgresUserStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, nik, name, phone_number, gender, date_of_birth, password_hash, active, created_at
		FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, userID id.UserID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.NIK, &user.Name, &user.PhoneNumber,
		&user.Gender, &user.DateOfBirth, &user.PasswordHash, &user.Active, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
