package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TodoStore = (*TodoStore)(nil)

// TodoStore is the PostgreSQL implementation of the TodoStore port interface.
type TodoStore struct {
	db *sql.DB
}

// NewTodoStore creates a new TodoStore backed by the given DB.
func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

// CreateList inserts a todo list row and returns its generated ID.
func (s *TodoStore) CreateList(ctx context.Context, list model.TodoList) (int64, error) {
	const query = `
		INSERT INTO todo_lists (repository_id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query, list.RepositoryID, list.UserID, list.Title, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create todo list for repository %d: %w", list.RepositoryID, err)
	}

	return id, nil
}

// InsertItems bulk-inserts items for a list in a single multi-row statement,
// preserving order via the position column.
func (s *TodoStore) InsertItems(ctx context.Context, listID int64, items []model.TodoItem) error {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO todo_items
			(list_id, position, title, description, priority, category, status,
			 estimated_hours, rationale, source, impact_score, urgency_score)
		VALUES `)

	const cols = 12
	args := make([]any, 0, len(items)*cols)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteString(")")

		status := item.Status
		if status == "" {
			status = model.TodoStatusPending
		}

		args = append(args,
			listID, i, item.Title, item.Description, item.Priority, item.Category,
			status, item.EstimatedHours, item.Rationale, item.Source,
			item.ImpactScore, item.UrgencyScore,
		)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert %d todo items for list %d: %w", len(items), listID, err)
	}

	return nil
}

// GetList returns a list with its items, or nil when it does not exist.
func (s *TodoStore) GetList(ctx context.Context, id int64) (*model.TodoList, error) {
	const query = `
		SELECT id, repository_id, user_id, title, created_at
		FROM todo_lists WHERE id = $1`

	list, err := scanTodoList(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo list %d: %w", id, err)
	}

	list.Items, err = s.listItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// GetLatestByRepository returns the most recently created list for a
// repository with its items, or nil when the repository has none.
func (s *TodoStore) GetLatestByRepository(ctx context.Context, repositoryID int64) (*model.TodoList, error) {
	const query = `
		SELECT id, repository_id, user_id, title, created_at
		FROM todo_lists WHERE repository_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	list, err := scanTodoList(s.db.QueryRowContext(ctx, query, repositoryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest todo list for repository %d: %w", repositoryID, err)
	}

	list.Items, err = s.listItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (s *TodoStore) listItems(ctx context.Context, listID int64) ([]model.TodoItem, error) {
	const query = `
		SELECT id, title, description, priority, category, status,
		       estimated_hours, rationale, source, impact_score, urgency_score
		FROM todo_items WHERE list_id = $1 ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("list items for todo list %d: %w", listID, err)
	}
	defer rows.Close()

	items := []model.TodoItem{}
	for rows.Next() {
		var item model.TodoItem
		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Priority, &item.Category,
			&item.Status, &item.EstimatedHours, &item.Rationale, &item.Source,
			&item.ImpactScore, &item.UrgencyScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo items: %w", err)
	}

	return items, nil
}

func scanTodoList(s scanner) (*model.TodoList, error) {
	var list model.TodoList
	err := s.Scan(&list.ID, &list.RepositoryID, &list.UserID, &list.Title, &list.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &list, nil
}
