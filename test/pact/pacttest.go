//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "menu-builder-api"
	ConsumerName = "menu-portal"

	StateMenuSeeded   = "menu with nasi goreng and es teh"
	StateCartWithItem = "cart pact-session holds one nasi goreng"
)

const (
	OperatorID    = "pact-operator"
	SessionID     = "pact-session"
	ContactNumber = "081234567890"

	ExistingItemID = "nasi-goreng"
	SecondItemID   = "es-teh"
	MissingItemID  = "ghost-item"
)

// ExampleItems provides stable catalog rows for pact interactions, in display order.
func ExampleItems() []map[string]any {
	return []map[string]any{
		{"id": ExistingItemID, "name": "Nasi Goreng", "price": int64(25000), "category": "Mains"},
		{"id": SecondItemID, "name": "Es Teh", "price": int64(5000), "category": "Drinks"},
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the menu portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
