package client

import "time"

// TaskEvent is the payload posted to the configured webhook when a task
// is created.
type TaskEvent struct {
	TaskID          string     `json:"task_id"`
	DatasetID       string     `json:"dataset_id"`
	Type            string     `json:"type"`
	ItemCount       int        `json:"item_count"`
	AssignmentCount int        `json:"assignment_count"`
	DueDate         *time.Time `json:"due_date,omitempty"`
}

type Notifier interface {
	TaskCreated(event TaskEvent) error
}
