package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/annohub/annotation-platform/internal/service"
)

type CreateTaskRequestBody struct {
	Name                string   `json:"name"`
	DueDate             string   `json:"due_date"`
	Assignees           []string `json:"assignees"`
	ConsensusPercentage int      `json:"consensus_percentage"`
	ConsensusAssignees  []string `json:"consensus_assignees"`
	ItemIDs             []string `json:"item_ids"`
}

type TaskHandler struct {
	taskService *service.TaskService
	validator   *TaskSpecValidator
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   NewTaskSpecValidator(),
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Error trying to read the body: " + err.Error(),
		})
		return
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	if err := h.validator.Validate(doc); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	var reqBody CreateTaskRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	req := service.CreateConsensusTaskRequest{
		DatasetID:           datasetID,
		Name:                reqBody.Name,
		Assignees:           reqBody.Assignees,
		ConsensusPercentage: reqBody.ConsensusPercentage,
		ConsensusAssignees:  reqBody.ConsensusAssignees,
		ItemIDs:             reqBody.ItemIDs,
	}

	if reqBody.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, reqBody.DueDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid due_date: " + err.Error(),
			})
			return
		}
		req.DueDate = &dueDate
	}

	task, err := h.taskService.CreateConsensusTask(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"task": task,
	})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("id")

	tasks, err := h.taskService.GetTasks(datasetID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

func (h *TaskHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	assignments, err := h.taskService.GetAssignments(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
	})
}
