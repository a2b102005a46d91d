package services

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"taskboard/app/models"
)

func newTestService(t *testing.T) *TaskService {
	t.Helper()
	f, err := os.CreateTemp("", "taskboard-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	svc := NewTaskService(db, "sqlite")
	if err := svc.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return svc
}

func TestCreateTask_AppearsInPendingList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "Task 1", "desc")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("CreateTask returned zero ID")
	}
	if created.Completed {
		t.Error("new task should not be completed")
	}

	tasks, err := svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].ID != created.ID || tasks[0].Title != "Task 1" || tasks[0].Description != "desc" {
		t.Errorf("listed task = %+v, want the created one", tasks[0])
	}
}

func TestCreateTask_TrimsTitle(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateTask(context.Background(), "  padded  ", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.Title != "padded" {
		t.Errorf("Title = %q, want %q", created.Title, "padded")
	}
}

func TestCreateTask_PaddingDoesNotCountAgainstLimit(t *testing.T) {
	svc := newTestService(t)

	// Whitespace padding pushes the raw input past the cap, but only the
	// trimmed title is stored, so this must be accepted.
	title := "  " + strings.Repeat("a", models.MaxTitleLen) + "  "
	created, err := svc.CreateTask(context.Background(), title, "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if len(created.Title) != models.MaxTitleLen {
		t.Errorf("len(Title) = %d, want %d", len(created.Title), models.MaxTitleLen)
	}
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateTask(ctx, title, "desc")
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("CreateTask(%q) error = %v, want ValidationError", title, err)
		}
	}

	// Rejected creates must not persist rows.
	tasks, err := svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tasks))
	}
}

func TestCreateTask_OverlongFieldsRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	long := make([]byte, models.MaxTitleLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.CreateTask(ctx, string(long), ""); err == nil {
		t.Error("expected error for overlong title")
	}

	longDesc := make([]byte, models.MaxDescriptionLen+1)
	for i := range longDesc {
		longDesc[i] = 'a'
	}
	if _, err := svc.CreateTask(ctx, "ok", string(longDesc)); err == nil {
		t.Error("expected error for overlong description")
	}
}

func TestListPending_ExcludesCompletedAndHonorsLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		task, err := svc.CreateTask(ctx, title, "")
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		ids = append(ids, task.ID)
	}

	if _, err := svc.CompleteTask(ctx, ids[0]); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	tasks, err := svc.ListPending(ctx, 2)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Completed {
			t.Errorf("pending list contains completed task %d", task.ID)
		}
		if task.ID == ids[0] {
			t.Errorf("pending list contains completed task %d", task.ID)
		}
	}
}

func TestListPending_NewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		task, err := svc.CreateTask(ctx, title, "")
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		ids = append(ids, task.ID)
	}

	tasks, err := svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	for i, want := range []int64{ids[2], ids[1], ids[0]} {
		if tasks[i].ID != want {
			t.Errorf("tasks[%d].ID = %d, want %d", i, tasks[i].ID, want)
		}
	}
}

func TestListPending_DefaultLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < DefaultListLimit+3; i++ {
		if _, err := svc.CreateTask(ctx, "task", ""); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	tasks, err := svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != DefaultListLimit {
		t.Errorf("len(tasks) = %d, want %d", len(tasks), DefaultListLimit)
	}
}

func TestCompleteTask_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "ToComplete", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	done, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !done.Completed {
		t.Error("task not marked completed")
	}

	// Completing again is a no-op success.
	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Errorf("second CompleteTask: %v", err)
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CompleteTask(context.Background(), 999999)
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("error = %v, want ErrTaskNotFound", err)
	}
}

func TestBuyMilkScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "Buy milk", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Completed {
		t.Fatalf("tasks = %+v, want one pending Buy milk", tasks)
	}

	if _, err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	tasks, err = svc.ListPending(ctx, 0)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tasks))
	}
}
