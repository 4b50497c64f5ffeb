package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
)

type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(dataset *models.Dataset) error {
	query := `
	INSERT INTO datasets (id, project_id, name)
        VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, dataset.ID, dataset.ProjectID, dataset.Name)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	return nil
}

func (r *DatasetRepository) Get(id string) (models.Dataset, error) {
	query := `SELECT id, project_id, name, created_at FROM datasets WHERE id = ?`

	var d models.Dataset
	err := r.db.QueryRow(query, id).Scan(&d.ID, &d.ProjectID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Dataset{}, fmt.Errorf("dataset %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Dataset{}, fmt.Errorf("get dataset: %w", err)
	}

	return d, nil
}

func (r *DatasetRepository) GetByName(projectID, name string) (models.Dataset, error) {
	query := `SELECT id, project_id, name, created_at FROM datasets WHERE project_id = ? AND name = ?`

	var d models.Dataset
	err := r.db.QueryRow(query, projectID, name).Scan(&d.ID, &d.ProjectID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Dataset{}, fmt.Errorf("dataset %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.Dataset{}, fmt.Errorf("get dataset by name: %w", err)
	}

	return d, nil
}

func (r *DatasetRepository) ListByProject(projectID string) ([]models.Dataset, error) {
	query := `SELECT id, project_id, name, created_at FROM datasets WHERE project_id = ? ORDER BY created_at`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.Dataset
	for rows.Next() {
		var d models.Dataset
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}

	return datasets, rows.Err()
}

func (r *DatasetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("dataset %s: %w", id, models.ErrNotFound)
	}

	return nil
}
