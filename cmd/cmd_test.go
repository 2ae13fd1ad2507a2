package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/storage"
)

// runCLI executes the root command with args in an empty working directory
// and returns its combined output.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("TASKTRACKER_CONFIG", "")
	t.Setenv("DB_PATH", dbPath)
	configPath = ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := runCLI(t, filepath.Join(t.TempDir(), "t.db"), "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"serve", "migrate", "users", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %q", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, filepath.Join(t.TempDir(), "t.db"), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "tasktracker version "+Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestMigrateCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	out, err := runCLI(t, dbPath, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("migrate output = %q", out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestUsersSetActiveCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	db, err := storage.OpenAndMigrate(storage.Options{Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	user := &task.User{Email: "cli@example.com", PasswordHash: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	storage.Close(db)

	out, err := runCLI(t, dbPath, "users", "set-active", "1", "false")
	if err != nil {
		t.Fatalf("set-active: %v", err)
	}
	if !strings.Contains(out, "User 1 active=false") {
		t.Errorf("set-active output = %q", out)
	}

	db, err = storage.Open(storage.Options{Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close(db)
	var got task.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.IsActive {
		t.Error("user is still active")
	}
}

func TestUsersSetActiveCmd_Errors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	tests := []struct {
		name string
		args []string
	}{
		{"bad id", []string{"users", "set-active", "abc", "true"}},
		{"bad flag", []string{"users", "set-active", "1", "maybe"}},
		{"unknown user", []string{"users", "set-active", "99", "true"}},
		{"missing args", []string{"users", "set-active", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, dbPath, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
