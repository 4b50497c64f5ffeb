package service

import (
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	datasetRepo *repository.DatasetRepository
	itemRepo    *repository.ItemRepository
	blobs       storage.Store
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	datasetRepo *repository.DatasetRepository,
	itemRepo *repository.ItemRepository,
	blobs storage.Store,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		datasetRepo: datasetRepo,
		itemRepo:    itemRepo,
		blobs:       blobs,
	}
}

func (s *ProjectService) CreateProject(name string) (models.Project, error) {
	if name == "" {
		return models.Project{}, fmt.Errorf("project name must not be empty: %w", models.ErrInvalidArgument)
	}

	project := models.Project{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.projectRepo.Create(&project); err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (s *ProjectService) GetProject(id string) (models.Project, error) {
	return s.projectRepo.Get(id)
}

func (s *ProjectService) GetProjects() ([]models.Project, error) {
	return s.projectRepo.List()
}

func (s *ProjectService) DeleteProject(id string) error {
	datasets, err := s.datasetRepo.ListByProject(id)
	if err != nil {
		return err
	}
	for _, d := range datasets {
		if err := s.DeleteDataset(d.ID); err != nil {
			return fmt.Errorf("delete dataset %s: %w", d.ID, err)
		}
	}
	return s.projectRepo.Delete(id)
}

func (s *ProjectService) CreateDataset(projectID, name string) (models.Dataset, error) {
	if name == "" {
		return models.Dataset{}, fmt.Errorf("dataset name must not be empty: %w", models.ErrInvalidArgument)
	}

	if _, err := s.projectRepo.Get(projectID); err != nil {
		return models.Dataset{}, err
	}

	dataset := models.Dataset{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
	}
	if err := s.datasetRepo.Create(&dataset); err != nil {
		return models.Dataset{}, err
	}

	return dataset, nil
}

func (s *ProjectService) GetDatasets(projectID string) ([]models.Dataset, error) {
	if _, err := s.projectRepo.Get(projectID); err != nil {
		return nil, err
	}
	return s.datasetRepo.ListByProject(projectID)
}

// DeleteDataset removes the dataset together with its items and their
// stored content.
func (s *ProjectService) DeleteDataset(id string) error {
	items, err := s.itemRepo.ListByDataset(id)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.itemRepo.Delete(item.ID); err != nil {
			return fmt.Errorf("delete item %s: %w", item.ID, err)
		}
		if err := s.blobs.Delete(itemBlobKey(item.ID)); err != nil {
			return err
		}
	}
	return s.datasetRepo.Delete(id)
}
