package service

import (
	"fmt"
	"time"

	"github.com/annohub/annotation-platform/internal/client"
	"github.com/annohub/annotation-platform/internal/logger"
	"github.com/annohub/annotation-platform/internal/models"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo    *repository.TaskRepository
	itemRepo    *repository.ItemRepository
	datasetRepo *repository.DatasetRepository
	notifier    client.Notifier
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	itemRepo *repository.ItemRepository,
	datasetRepo *repository.DatasetRepository,
	notifier client.Notifier,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		itemRepo:    itemRepo,
		datasetRepo: datasetRepo,
		notifier:    notifier,
	}
}

type CreateConsensusTaskRequest struct {
	DatasetID string
	Name      string
	DueDate   *time.Time

	// Candidate annotators for the task.
	Assignees []string

	// ConsensusPercentage 0 means "auto" and resolves to 100.
	ConsensusPercentage int

	// ConsensusAssignees empty means "auto" and resolves to all Assignees.
	ConsensusAssignees []string

	// ItemIDs empty means every item in the dataset.
	ItemIDs []string
}

// assigneesPerItem computes how many distinct assignees each item gets:
// ceil(percentage/100 × total), clamped to [1, total].
func assigneesPerItem(percentage, total int) int {
	k := (percentage*total + 99) / 100
	if k < 1 {
		k = 1
	}
	if k > total {
		k = total
	}
	return k
}

// planAssignments builds the (item, assignee) pairs for a consensus task.
// Each item gets k distinct assignees picked round-robin from the consensus
// set, offset by the item index so load spreads evenly. Total pairs is
// always len(items) × k.
func planAssignments(taskID string, items []models.Item, assignees []string, k int) []models.Assignment {
	assignments := make([]models.Assignment, 0, len(items)*k)
	for i, item := range items {
		for j := 0; j < k; j++ {
			assignments = append(assignments, models.Assignment{
				ID:         uuid.NewString(),
				TaskID:     taskID,
				ItemID:     item.ID,
				AssigneeID: assignees[(i+j)%len(assignees)],
				Status:     models.TaskStatusOpen,
			})
		}
	}
	return assignments
}

func (s *TaskService) CreateConsensusTask(req CreateConsensusTaskRequest) (models.Task, error) {
	if _, err := s.datasetRepo.Get(req.DatasetID); err != nil {
		return models.Task{}, err
	}

	consensusAssignees := req.ConsensusAssignees
	if len(consensusAssignees) == 0 {
		consensusAssignees = req.Assignees
	}
	if len(consensusAssignees) == 0 {
		return models.Task{}, fmt.Errorf("consensus assignees must not be empty: %w", models.ErrInvalidArgument)
	}

	percentage := req.ConsensusPercentage
	if percentage == 0 {
		percentage = 100
	}
	if percentage < 1 || percentage > 100 {
		return models.Task{}, fmt.Errorf("consensus percentage %d out of range [1,100]: %w",
			req.ConsensusPercentage, models.ErrInvalidArgument)
	}

	items, err := s.resolveItems(req.DatasetID, req.ItemIDs)
	if err != nil {
		return models.Task{}, err
	}
	if len(items) == 0 {
		return models.Task{}, fmt.Errorf("no items to assign: %w", models.ErrInvalidArgument)
	}

	k := assigneesPerItem(percentage, len(consensusAssignees))

	task := models.Task{
		ID:                  uuid.NewString(),
		DatasetID:           req.DatasetID,
		Name:                req.Name,
		Type:                models.TaskTypeAnnotation,
		Status:              models.TaskStatusOpen,
		DueDate:             req.DueDate,
		ConsensusPercentage: percentage,
		ConsensusAssignees:  consensusAssignees,
		ItemCount:           len(items),
		AssignmentCount:     len(items) * k,
	}

	assignments := planAssignments(task.ID, items, consensusAssignees, k)

	if err := s.taskRepo.Create(&task, assignments); err != nil {
		return models.Task{}, err
	}

	logger.Info("consensus task created",
		logger.FieldKV("task_id", task.ID),
		logger.FieldKV("items", task.ItemCount),
		logger.FieldKV("assignments", task.AssignmentCount),
		logger.FieldKV("assignees_per_item", k),
	)

	if s.notifier != nil {
		event := client.TaskEvent{
			TaskID:          task.ID,
			DatasetID:       task.DatasetID,
			Type:            task.Type,
			ItemCount:       task.ItemCount,
			AssignmentCount: task.AssignmentCount,
			DueDate:         task.DueDate,
		}
		if err := s.notifier.TaskCreated(event); err != nil {
			// Webhook delivery is best effort, the task itself is committed.
			logger.Error("task webhook failed", err, logger.FieldKV("task_id", task.ID))
		}
	}

	return task, nil
}

func (s *TaskService) resolveItems(datasetID string, itemIDs []string) ([]models.Item, error) {
	if len(itemIDs) == 0 {
		return s.itemRepo.ListByDataset(datasetID)
	}

	items := make([]models.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := s.itemRepo.Get(id)
		if err != nil {
			return nil, err
		}
		if item.DatasetID != datasetID {
			return nil, fmt.Errorf("item %s does not belong to dataset %s: %w",
				id, datasetID, models.ErrInvalidArgument)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *TaskService) GetTask(id string) (models.Task, error) {
	task, err := s.taskRepo.Get(id)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetTasks(datasetID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByDataset(datasetID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetAssignments(taskID string) ([]models.Assignment, error) {
	if _, err := s.taskRepo.Get(taskID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListAssignments(taskID)
}
