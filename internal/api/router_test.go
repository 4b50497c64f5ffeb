package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
)

// Acceptance-style tests driving the whole stack through the router, the
// way a client SDK would.

type routerEnv struct {
	mux *http.ServeMux
	dir string
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	dir := t.TempDir()

	db, err := repository.InitDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	blobs, err := storage.NewFileStore(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("init blob store: %v", err)
	}

	return &routerEnv{mux: SetupRouter(db, blobs, nil), dir: dir}
}

func (e *routerEnv) do(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	r := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)

	decoded := make(map[string]interface{})
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func (e *routerEnv) createDataset(t *testing.T) string {
	t.Helper()

	w, resp := e.do(t, "POST", "/projects", map[string]string{"name": "proj"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201 got %d (%s)", w.Code, w.Body)
	}
	projectID := resp["project"].(map[string]interface{})["id"].(string)

	w, resp = e.do(t, "POST", "/projects/"+projectID+"/datasets", map[string]string{"name": "data"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create dataset: expected 201 got %d (%s)", w.Code, w.Body)
	}
	return resp["dataset"].(map[string]interface{})["id"].(string)
}

func (e *routerEnv) uploadItems(t *testing.T, datasetID string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("item-%03d.jpg", i)
		local := filepath.Join(e.dir, name)
		if err := os.WriteFile(local, []byte(name), 0o644); err != nil {
			t.Fatalf("write local file: %v", err)
		}

		w, _ := e.do(t, "POST", "/datasets/"+datasetID+"/items", map[string]string{"local_path": local})
		if w.Code != http.StatusCreated {
			t.Fatalf("upload %s: expected 201 got %d (%s)", name, w.Code, w.Body)
		}
	}
}

func TestConsensusTaskOverHTTP(t *testing.T) {
	env := newRouterEnv(t)
	datasetID := env.createDataset(t)
	env.uploadItems(t, datasetID, 10)

	w, resp := env.do(t, "POST", "/datasets/"+datasetID+"/tasks", map[string]interface{}{
		"name":      "consensus",
		"assignees": []string{"a1", "a2", "a3"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201 got %d (%s)", w.Code, w.Body)
	}

	task := resp["task"].(map[string]interface{})
	if got := task["assignment_count"].(float64); got != 30 {
		t.Fatalf("expected 30 assignments got %v", got)
	}
	if got := task["type"].(string); got != "annotation" {
		t.Fatalf("expected type annotation got %q", got)
	}

	taskID := task["id"].(string)
	w, resp = env.do(t, "GET", "/tasks/"+taskID+"/assignments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list assignments: expected 200 got %d", w.Code)
	}
	if got := len(resp["assignments"].([]interface{})); got != 30 {
		t.Fatalf("expected 30 assignments got %d", got)
	}
}

func TestCreateTaskRejectedBySchema(t *testing.T) {
	env := newRouterEnv(t)
	datasetID := env.createDataset(t)
	env.uploadItems(t, datasetID, 1)

	// Percentage above the schema maximum never reaches the service.
	w, _ := env.do(t, "POST", "/datasets/"+datasetID+"/tasks", map[string]interface{}{
		"name":                 "bad",
		"assignees":            []string{"a1"},
		"consensus_percentage": 150,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}

	// Missing name is rejected too.
	w, _ = env.do(t, "POST", "/datasets/"+datasetID+"/tasks", map[string]interface{}{
		"assignees": []string{"a1"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestUploadErrorsOverHTTP(t *testing.T) {
	env := newRouterEnv(t)
	datasetID := env.createDataset(t)

	w, _ := env.do(t, "POST", "/datasets/"+datasetID+"/items", map[string]string{
		"local_path": filepath.Join(env.dir, "missing.jpg"),
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing local file: expected 404 got %d", w.Code)
	}

	local := filepath.Join(env.dir, "real.jpg")
	if err := os.WriteFile(local, []byte("x"), 0o644); err != nil {
		t.Fatalf("write local file: %v", err)
	}
	w, _ = env.do(t, "POST", "/datasets/"+datasetID+"/items", map[string]string{
		"local_path":  local,
		"remote_path": "not-rooted",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("malformed remote path: expected 500 got %d", w.Code)
	}
}

func TestGetUnknownTask(t *testing.T) {
	env := newRouterEnv(t)

	w, _ := env.do(t, "GET", "/tasks/no-such-task", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestPackageVersionsOverHTTP(t *testing.T) {
	env := newRouterEnv(t)
	datasetID := env.createDataset(t)

	pkgDir := filepath.Join(env.dir, "pkg")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "main.py"), []byte("pass"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, resp := env.do(t, "GET", "/packages/http-pkg/versions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list versions: expected 200 got %d", w.Code)
	}
	if got := len(resp["versions"].([]interface{})); got != 0 {
		t.Fatalf("expected 0 versions got %d", got)
	}

	for want := 1; want <= 2; want++ {
		w, _ = env.do(t, "POST", "/datasets/"+datasetID+"/packages", map[string]string{
			"directory": pkgDir,
			"name":      "http-pkg",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("pack: expected 201 got %d (%s)", w.Code, w.Body)
		}

		w, resp = env.do(t, "GET", "/packages/http-pkg/versions", nil)
		if got := len(resp["versions"].([]interface{})); got != want {
			t.Fatalf("expected %d versions got %d", want, got)
		}
	}
}
