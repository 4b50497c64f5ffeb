package api

import (
	"database/sql"
	"net/http"

	"github.com/annohub/annotation-platform/internal/api/handlers"
	"github.com/annohub/annotation-platform/internal/client"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/service"
	"github.com/annohub/annotation-platform/internal/storage"
)

func SetupRouter(db *sql.DB, blobs storage.Store, notifier client.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	projectRepo := repository.NewProjectRepository(db)
	datasetRepo := repository.NewDatasetRepository(db)
	itemRepo := repository.NewItemRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	projectService := service.NewProjectService(projectRepo, datasetRepo, itemRepo, blobs)
	itemService := service.NewItemService(itemRepo, datasetRepo, blobs)
	packageService := service.NewPackageService(packageRepo, datasetRepo, blobs)
	taskService := service.NewTaskService(taskRepo, itemRepo, datasetRepo, notifier)

	projectHandler := handlers.NewProjectHandler(projectService)
	itemHandler := handlers.NewItemHandler(itemService)
	packageHandler := handlers.NewPackageHandler(packageService)
	taskHandler := handlers.NewTaskHandler(taskService)

	mux.HandleFunc("POST /projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /projects", projectHandler.ListProjects)
	mux.HandleFunc("GET /projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("DELETE /projects/{id}", projectHandler.DeleteProject)
	mux.HandleFunc("POST /projects/{id}/datasets", projectHandler.CreateDataset)
	mux.HandleFunc("GET /projects/{id}/datasets", projectHandler.ListDatasets)
	mux.HandleFunc("DELETE /datasets/{id}", projectHandler.DeleteDataset)

	mux.HandleFunc("POST /datasets/{id}/items", itemHandler.UploadItem)
	mux.HandleFunc("GET /datasets/{id}/items", itemHandler.ListItems)
	mux.HandleFunc("GET /items/{id}", itemHandler.GetItem)
	mux.HandleFunc("GET /items/{id}/content", itemHandler.GetItemContent)
	mux.HandleFunc("DELETE /items/{id}", itemHandler.DeleteItem)

	mux.HandleFunc("POST /datasets/{id}/packages", packageHandler.Pack)
	mux.HandleFunc("GET /packages/{name}/versions", packageHandler.ListVersions)

	mux.HandleFunc("POST /datasets/{id}/tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /datasets/{id}/tasks", taskHandler.ListTasks)
	mux.HandleFunc("GET /tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("GET /tasks/{id}/assignments", taskHandler.ListAssignments)

	return mux
}
