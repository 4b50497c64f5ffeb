package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/annohub/annotation-platform/internal/service"
)

type CreateProjectRequestBody struct {
	Name string `json:"name"`
}

type CreateDatasetRequestBody struct {
	Name string `json:"name"`
}

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var reqBody CreateProjectRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	project, err := h.projectService.CreateProject(reqBody.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"project": project,
	})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	project, err := h.projectService.GetProject(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"project": project,
	})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetProjects()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
	})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.projectService.DeleteProject(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

func (h *ProjectHandler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var reqBody CreateDatasetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	dataset, err := h.projectService.CreateDataset(projectID, reqBody.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"dataset": dataset,
	})
}

func (h *ProjectHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	datasets, err := h.projectService.GetDatasets(projectID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": datasets,
	})
}

func (h *ProjectHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.projectService.DeleteDataset(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
