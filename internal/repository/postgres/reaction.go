package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"boards/internal/domain"
	"boards/internal/domain/models"
	"boards/internal/domain/repositories"
)

// PostgresReactionRepository implements the ReactionRepository interface.
type PostgresReactionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(config *RepositoryConfig) repositories.ReactionRepository {
	return &PostgresReactionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a reaction. The UNIQUE(user_id, target_type, target_id)
// constraint backs the at-most-one invariant against racing requests.
func (r *PostgresReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, target_type, target_id, reaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Reactions)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		reaction.ID,
		reaction.UserID,
		reaction.TargetType,
		reaction.TargetID,
		reaction.ReactionType,
		reaction.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("reaction by %s on %s: %w", reaction.UserID, reaction.TargetID, domain.ErrConflict)
		}
		return fmt.Errorf("create reaction: %w", err)
	}

	return nil
}

// DeleteByUserAndTarget removes all reactions a user holds on a target.
// Removing zero rows is not an error.
func (r *PostgresReactionRepository) DeleteByUserAndTarget(ctx context.Context, userID string, targetType models.ReactionTarget, targetID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, r.tables.Reactions)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, userID, targetType, targetID); err != nil {
		return fmt.Errorf("delete user reactions: %w", err)
	}

	return nil
}

// DeleteByTarget removes every reaction on a target.
func (r *PostgresReactionRepository) DeleteByTarget(ctx context.Context, targetType models.ReactionTarget, targetID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE target_type = $1 AND target_id = $2
	`, r.tables.Reactions)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, targetType, targetID); err != nil {
		return fmt.Errorf("delete target reactions: %w", err)
	}

	return nil
}

// ListByTarget retrieves all reactions on a target.
func (r *PostgresReactionRepository) ListByTarget(ctx context.Context, targetType models.ReactionTarget, targetID string) ([]models.Reaction, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, target_type, target_id, reaction_type, created_at
		FROM %s
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at ASC
	`, r.tables.Reactions)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []models.Reaction
	for rows.Next() {
		var reaction models.Reaction
		err := rows.Scan(
			&reaction.ID,
			&reaction.UserID,
			&reaction.TargetType,
			&reaction.TargetID,
			&reaction.ReactionType,
			&reaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, reaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reactions: %w", err)
	}

	return reactions, nil
}
