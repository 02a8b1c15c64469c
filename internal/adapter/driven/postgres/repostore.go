package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoStore = (*RepoStore)(nil)

// RepoStore is the PostgreSQL implementation of the RepoStore port interface.
type RepoStore struct {
	db *sql.DB
}

// NewRepoStore creates a new RepoStore backed by the given DB.
func NewRepoStore(db *sql.DB) *RepoStore {
	return &RepoStore{db: db}
}

// Add inserts a new repository and returns its generated ID. Returns
// ErrRepoAlreadyExists if a repository with the same full_name exists.
func (r *RepoStore) Add(ctx context.Context, repo model.Repository) (int64, error) {
	const query = `
		INSERT INTO repositories (full_name, owner, name, default_branch, description, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	addedAt := repo.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		repo.FullName, repo.Owner, repo.Name, repo.DefaultBranch, repo.Description, addedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("add repository %s: %w", repo.FullName, driven.ErrRepoAlreadyExists)
		}
		return 0, fmt.Errorf("add repository %s: %w", repo.FullName, err)
	}

	return id, nil
}

// Remove deletes a repository by full name. Returns ErrRepoNotFound if the
// repository does not exist. Foreign key cascades delete its todo lists and
// executions.
func (r *RepoStore) Remove(ctx context.Context, fullName string) error {
	const query = `DELETE FROM repositories WHERE full_name = $1`

	result, err := r.db.ExecContext(ctx, query, fullName)
	if err != nil {
		return fmt.Errorf("remove repository %s: %w", fullName, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove repository %s: %w", fullName, driven.ErrRepoNotFound)
	}

	return nil
}

// GetByID retrieves a repository by its ID. Returns nil, nil if the
// repository does not exist.
func (r *RepoStore) GetByID(ctx context.Context, id int64) (*model.Repository, error) {
	const query = `
		SELECT id, full_name, owner, name, default_branch, description, added_at
		FROM repositories WHERE id = $1`

	repo, err := scanRepository(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get repository %d: %w", id, err)
	}

	return repo, nil
}

// GetByFullName retrieves a repository by its full name. Returns nil, nil if
// the repository does not exist.
func (r *RepoStore) GetByFullName(ctx context.Context, fullName string) (*model.Repository, error) {
	const query = `
		SELECT id, full_name, owner, name, default_branch, description, added_at
		FROM repositories WHERE full_name = $1`

	repo, err := scanRepository(r.db.QueryRowContext(ctx, query, fullName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get repository %s: %w", fullName, err)
	}

	return repo, nil
}

// ListAll returns all repositories ordered by full name.
func (r *RepoStore) ListAll(ctx context.Context) ([]model.Repository, error) {
	const query = `
		SELECT id, full_name, owner, name, default_branch, description, added_at
		FROM repositories ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	defer rows.Close()

	var repos []model.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		repos = append(repos, *repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repositories: %w", err)
	}

	return repos, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRepository(s scanner) (*model.Repository, error) {
	var repo model.Repository
	err := s.Scan(
		&repo.ID, &repo.FullName, &repo.Owner, &repo.Name,
		&repo.DefaultBranch, &repo.Description, &repo.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
