package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert inserts the principal or refreshes its display name.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, display_name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name
	`, r.tables.Users)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, user.ID, user.DisplayName, user.CreatedAt); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, display_name, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	db := GetExecutor(ctx, r.pool)
	var user models.User
	err := db.QueryRow(ctx, query, id).Scan(&user.ID, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
