package models

import "time"

const TaskTypeAnnotation = "annotation"

const (
	TaskStatusOpen      = "open"
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID                  string     `json:"id"`
	DatasetID           string     `json:"dataset_id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	DueDate             *time.Time `json:"due_date,omitempty"`
	ConsensusPercentage int        `json:"consensus_percentage"`
	ConsensusAssignees  []string   `json:"consensus_assignees"`
	ItemCount           int        `json:"item_count"`
	AssignmentCount     int        `json:"assignment_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Assignment links one item to one assignee inside a task. Consensus tasks
// carry several assignments per item.
type Assignment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	ItemID     string    `json:"item_id"`
	AssigneeID string    `json:"assignee_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
