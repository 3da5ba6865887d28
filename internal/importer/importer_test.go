package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/database"
	"canteen-menu-planner/internal/llm"
)

type mockTextGenerator struct {
	response    string
	lastPrompt  string
	shouldError bool
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.shouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.response}, nil
}

func newTestProfiles(t *testing.T) *account.Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "importer_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := account.NewRepository(db.SQL)
	profile := &account.Profile{
		AccountID:     "acct",
		HotDishCount:  8,
		ColdDishCount: 3,
		Pools:         [][]string{{"old"}, {"old"}, {"old"}, {"old"}},
	}
	if err := repo.Save(context.Background(), profile); err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}
	return repo
}

func TestImportMenuPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`
		<html>
			<head><script>tracker()</script></head>
			<body>
				<h1>Golden Wok Catering — Week 12</h1>
				<ul><li>Braised pork belly</li><li>Cucumber salad</li></ul>
				<footer>Call us</footer>
			</body>
		</html>`))
	}))
	defer ts.Close()

	profiles := newTestProfiles(t)
	gen := &mockTextGenerator{response: `{"dishes": ["Braised pork belly", "Cucumber salad"]}`}
	imp := NewImporter(profiles, gen)

	dishes, err := imp.ImportMenuPage(context.Background(), "acct", 2, ts.URL)
	if err != nil {
		t.Fatalf("ImportMenuPage failed: %v", err)
	}
	if len(dishes) != 2 {
		t.Fatalf("Expected 2 dishes, got %d", len(dishes))
	}

	// The cleaned page text reaches the prompt, the noise does not.
	if !strings.Contains(gen.lastPrompt, "Braised pork belly") {
		t.Error("Expected page content in the extraction prompt")
	}
	if strings.Contains(gen.lastPrompt, "tracker()") {
		t.Error("Expected script content to be stripped before prompting")
	}

	profile, err := profiles.Get(context.Background(), "acct")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile.Pools[2][0] != "Braised pork belly" {
		t.Errorf("Expected pool 2 to be replaced, got %v", profile.Pools[2])
	}
	if profile.Pools[0][0] != "old" {
		t.Errorf("Expected other pools untouched, got %v", profile.Pools[0])
	}
}

func TestImportMenuPageNoDishes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>Nothing here</body></html>"))
	}))
	defer ts.Close()

	profiles := newTestProfiles(t)
	gen := &mockTextGenerator{response: `{"dishes": []}`}
	imp := NewImporter(profiles, gen)

	if _, err := imp.ImportMenuPage(context.Background(), "acct", 0, ts.URL); err == nil {
		t.Fatal("Expected an error when no dishes are extracted, got nil")
	}
}

func TestImportMenuPageFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	profiles := newTestProfiles(t)
	imp := NewImporter(profiles, &mockTextGenerator{})

	if _, err := imp.ImportMenuPage(context.Background(), "acct", 0, ts.URL); err == nil {
		t.Fatal("Expected an error for a failing fetch, got nil")
	}
}
