package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentboard/agentboard/internal/domain/model"
	"github.com/agentboard/agentboard/internal/domain/port/driven"
)

// testDB opens the database named by AGENTBOARD_TEST_DATABASE_URL, runs
// migrations, and skips the test when the variable is unset. Each test works
// against uniquely named repositories so runs don't interfere.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("AGENTBOARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AGENTBOARD_TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	db, err := NewDB(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))

	return db
}

// addTestRepo inserts a uniquely named repository and registers cleanup.
func addTestRepo(t *testing.T, repos *RepoStore) (int64, string) {
	t.Helper()

	fullName := fmt.Sprintf("testorg/%s", uuid.NewString())
	id, err := repos.Add(context.Background(), model.Repository{
		FullName:      fullName,
		Owner:         "testorg",
		Name:          fullName[len("testorg/"):],
		DefaultBranch: "main",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repos.Remove(context.Background(), fullName)
	})

	return id, fullName
}

func TestRepoStore_AddGetRemove(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)
	ctx := context.Background()

	id, fullName := addTestRepo(t, repos)
	assert.Greater(t, id, int64(0))

	byID, err := repos.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, fullName, byID.FullName)
	assert.Equal(t, "main", byID.DefaultBranch)
	assert.False(t, byID.AddedAt.IsZero())

	byName, err := repos.GetByFullName(ctx, fullName)
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, id, byName.ID)

	all, err := repos.ListAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	require.NoError(t, repos.Remove(ctx, fullName))

	gone, err := repos.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRepoStore_AddDuplicate(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)
	ctx := context.Background()

	_, fullName := addTestRepo(t, repos)

	_, err := repos.Add(ctx, model.Repository{
		FullName: fullName,
		Owner:    "testorg",
		Name:     "dup",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, driven.ErrRepoAlreadyExists))
}

func TestRepoStore_RemoveMissing(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)

	err := repos.Remove(context.Background(), "testorg/does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, driven.ErrRepoNotFound))
}

func TestTodoStore_RoundTrip(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)
	todos := NewTodoStore(db)
	ctx := context.Background()

	repoID, _ := addTestRepo(t, repos)

	listID, err := todos.CreateList(ctx, model.TodoList{
		RepositoryID: repoID,
		UserID:       "user-1",
		Title:        "Generated tasks",
	})
	require.NoError(t, err)

	items := []model.TodoItem{
		{
			Title:          "Add regression tests",
			Description:    "Cover the parser edge cases",
			Priority:       model.PriorityHigh,
			Category:       "testing",
			EstimatedHours: 3,
			Rationale:      "Recent bugfix has no coverage",
			Source:         model.SourceLLM,
			ImpactScore:    8,
			UrgencyScore:   5,
		},
		{
			Title:    "Update dependencies",
			Priority: model.PriorityMedium,
			Category: "maintenance",
			Source:   model.SourceFallback,
		},
	}
	require.NoError(t, todos.InsertItems(ctx, listID, items))

	list, err := todos.GetList(ctx, listID)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, "Generated tasks", list.Title)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Add regression tests", list.Items[0].Title)
	assert.Equal(t, model.PriorityHigh, list.Items[0].Priority)
	assert.Equal(t, 8, list.Items[0].ImpactScore)
	assert.Equal(t, model.TodoStatusPending, list.Items[1].Status)

	latest, err := todos.GetLatestByRepository(ctx, repoID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, listID, latest.ID)
}

func TestTodoStore_GetLatestPicksNewest(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)
	todos := NewTodoStore(db)
	ctx := context.Background()

	repoID, _ := addTestRepo(t, repos)

	older, err := todos.CreateList(ctx, model.TodoList{
		RepositoryID: repoID,
		UserID:       "user-1",
		Title:        "older",
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)

	newer, err := todos.CreateList(ctx, model.TodoList{
		RepositoryID: repoID,
		UserID:       "user-1",
		Title:        "newer",
	})
	require.NoError(t, err)
	require.NotEqual(t, older, newer)

	latest, err := todos.GetLatestByRepository(ctx, repoID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer, latest.ID)
	assert.Empty(t, latest.Items)
}

func TestTodoStore_GetListMissing(t *testing.T) {
	db := testDB(t)
	todos := NewTodoStore(db)

	list, err := todos.GetList(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestExecutionStore_Lifecycle(t *testing.T) {
	db := testDB(t)
	repos := NewRepoStore(db)
	execs := NewExecutionStore(db)
	ctx := context.Background()

	repoID, _ := addTestRepo(t, repos)

	execID := uuid.NewString()
	require.NoError(t, execs.Insert(ctx, model.Execution{
		ID:           execID,
		RepositoryID: repoID,
		UserID:       "user-1",
		Status:       model.ExecutionRunning,
	}))

	running, err := execs.GetByID(ctx, execID)
	require.NoError(t, err)
	require.NotNil(t, running)
	assert.Equal(t, model.ExecutionRunning, running.Status)
	assert.True(t, running.FinishedAt.IsZero())

	output, _ := json.Marshal(map[string]any{"commits": 12})
	require.NoError(t, execs.InsertStep(ctx, model.StepRecord{
		ExecutionID: execID,
		Seq:         1,
		Phase:       model.PhaseStart,
	}))
	require.NoError(t, execs.InsertStep(ctx, model.StepRecord{
		ExecutionID: execID,
		Seq:         2,
		Phase:       model.PhaseFetchRepository,
		Output:      output,
	}))

	require.NoError(t, execs.Finish(ctx, execID, model.ExecutionCompleted, "", 9, 4))

	done, err := execs.GetByID(ctx, execID)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, model.ExecutionCompleted, done.Status)
	assert.Equal(t, 9, done.StepCount)
	assert.Equal(t, 4, done.TodosGenerated)
	assert.False(t, done.FinishedAt.IsZero())

	steps, err := execs.ListSteps(ctx, execID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, model.PhaseStart, steps[0].Phase)
	assert.Equal(t, 2, steps[1].Seq)
	assert.JSONEq(t, `{"commits": 12}`, string(steps[1].Output))
}

func TestExecutionStore_GetMissing(t *testing.T) {
	db := testDB(t)
	execs := NewExecutionStore(db)

	exec, err := execs.GetByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, exec)
}
