package storage

import (
	"testing"

	"github.com/example/task-tracker/domain/task"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := OpenAndMigrate(Options{Path: ":memory:"})
	if err != nil {
		t.Fatalf("OpenAndMigrate() error = %v", err)
	}
	defer Close(db)

	for _, table := range []any{&task.User{}, &task.TaskList{}, &task.Task{}} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table for %T was not created", table)
		}
	}

	if err := Ping(db); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPing_Nil(t *testing.T) {
	if err := Ping(nil); err == nil {
		t.Error("Ping(nil) expected error")
	}
}

func TestDSN(t *testing.T) {
	if got := dsn(":memory:"); got != ":memory:" {
		t.Errorf("dsn(:memory:) = %q", got)
	}
	if got := dsn("tracker.db"); got != "tracker.db?_busy_timeout=5000" {
		t.Errorf("dsn(tracker.db) = %q", got)
	}
}
