package driven

import (
	"context"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// TodoStore defines the driven port for todo list persistence.
//
// CreateList and InsertItems are deliberately separate calls and are not
// wrapped in one transaction; an item insert failure after list creation
// surfaces to the caller and the list row is not rolled back.
type TodoStore interface {
	// CreateList inserts a todo list row and returns its generated ID.
	CreateList(ctx context.Context, list model.TodoList) (int64, error)

	// InsertItems bulk-inserts items for a list, preserving order.
	InsertItems(ctx context.Context, listID int64, items []model.TodoItem) error

	// GetList returns a list with its items, or nil when it does not exist.
	GetList(ctx context.Context, id int64) (*model.TodoList, error)

	// GetLatestByRepository returns the most recently created list for a
	// repository with its items, or nil when the repository has none.
	GetLatestByRepository(ctx context.Context, repositoryID int64) (*model.TodoList, error)
}
