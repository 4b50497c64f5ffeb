package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task and all of its assignments in one transaction,
// so a task is never visible without its assignment plan.
func (r *TaskRepository) Create(task *models.Task, assignments []models.Assignment) error {
	assignees, err := json.Marshal(task.ConsensusAssignees)
	if err != nil {
		return fmt.Errorf("marshal consensus assignees: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin task transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
	INSERT INTO tasks (id, dataset_id, name, type, status, due_date,
	                   consensus_percentage, consensus_assignees, item_count, assignment_count)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.DatasetID,
		task.Name,
		task.Type,
		task.Status,
		task.DueDate,
		task.ConsensusPercentage,
		string(assignees),
		task.ItemCount,
		task.AssignmentCount,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO assignments (id, task_id, item_id, assignee_id, status)
        VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.ID, a.TaskID, a.ItemID, a.AssigneeID, a.Status); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TaskRepository) Get(id string) (models.Task, error) {
	query := `
		SELECT id, dataset_id, name, type, status, due_date,
		       consensus_percentage, consensus_assignees, item_count, assignment_count, created_at
		FROM tasks WHERE id = ?
	`
	return r.scanTask(r.db.QueryRow(query, id), id)
}

func (r *TaskRepository) scanTask(row *sql.Row, id string) (models.Task, error) {
	var t models.Task
	var assignees sql.NullString

	err := row.Scan(
		&t.ID,
		&t.DatasetID,
		&t.Name,
		&t.Type,
		&t.Status,
		&t.DueDate,
		&t.ConsensusPercentage,
		&assignees,
		&t.ItemCount,
		&t.AssignmentCount,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}

	if assignees.Valid && assignees.String != "" {
		if err := json.Unmarshal([]byte(assignees.String), &t.ConsensusAssignees); err != nil {
			return models.Task{}, fmt.Errorf("unmarshal consensus assignees: %w", err)
		}
	}

	return t, nil
}

func (r *TaskRepository) ListByDataset(datasetID string) ([]models.Task, error) {
	query := `
		SELECT id, dataset_id, name, type, status, due_date,
		       consensus_percentage, consensus_assignees, item_count, assignment_count, created_at
		FROM tasks WHERE dataset_id = ? ORDER BY created_at
	`

	rows, err := r.db.Query(query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var assignees sql.NullString
		err := rows.Scan(
			&t.ID,
			&t.DatasetID,
			&t.Name,
			&t.Type,
			&t.Status,
			&t.DueDate,
			&t.ConsensusPercentage,
			&assignees,
			&t.ItemCount,
			&t.AssignmentCount,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if assignees.Valid && assignees.String != "" {
			if err := json.Unmarshal([]byte(assignees.String), &t.ConsensusAssignees); err != nil {
				return nil, fmt.Errorf("unmarshal consensus assignees: %w", err)
			}
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) ListAssignments(taskID string) ([]models.Assignment, error) {
	query := `
		SELECT id, task_id, item_id, assignee_id, status, created_at
		FROM assignments WHERE task_id = ? ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.ItemID, &a.AssigneeID, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
