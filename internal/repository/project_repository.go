package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
	INSERT INTO projects (id, name)
        VALUES (?, ?)
	`

	_, err := r.db.Exec(query, project.ID, project.Name)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) Get(id string) (models.Project, error) {
	query := `SELECT id, name, created_at FROM projects WHERE id = ?`

	var p models.Project
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}

	return p, nil
}

func (r *ProjectRepository) GetByName(name string) (models.Project, error) {
	query := `SELECT id, name, created_at FROM projects WHERE name = ?`

	var p models.Project
	err := r.db.QueryRow(query, name).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project by name: %w", err)
	}

	return p, nil
}

func (r *ProjectRepository) List() ([]models.Project, error) {
	query := `SELECT id, name, created_at FROM projects ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}

	return nil
}
