package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/annohub/annotation-platform/internal/models"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir      string
	items    *ItemService
	packages *PackageService
	projects *ProjectService
	tasks    *TaskService

	itemRepo *repository.ItemRepository
	taskRepo *repository.TaskRepository

	project models.Project
	dataset models.Dataset
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()

	db, err := repository.InitDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blobs, err := storage.NewFileStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	projectRepo := repository.NewProjectRepository(db)
	datasetRepo := repository.NewDatasetRepository(db)
	itemRepo := repository.NewItemRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	env := &testEnv{
		dir:      dir,
		items:    NewItemService(itemRepo, datasetRepo, blobs),
		packages: NewPackageService(packageRepo, datasetRepo, blobs),
		projects: NewProjectService(projectRepo, datasetRepo, itemRepo, blobs),
		tasks:    NewTaskService(taskRepo, itemRepo, datasetRepo, nil),
		itemRepo: itemRepo,
		taskRepo: taskRepo,
	}

	env.project, err = env.projects.CreateProject("test-project")
	require.NoError(t, err)
	env.dataset, err = env.projects.CreateDataset(env.project.ID, "test-dataset")
	require.NoError(t, err)

	return env
}

// writeLocalFile drops a file with the given content into the test dir and
// returns its path.
func (e *testEnv) writeLocalFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// uploadItems uploads n generated files into the env dataset.
func (e *testEnv) uploadItems(t *testing.T, n int) []models.Item {
	t.Helper()
	items := make([]models.Item, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("item-%03d.jpg", i)
		local := e.writeLocalFile(t, name, []byte("content-"+name))
		item, err := e.items.Upload(UploadRequest{
			DatasetID: e.dataset.ID,
			LocalPath: local,
		})
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}
