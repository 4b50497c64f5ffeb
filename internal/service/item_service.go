package service

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/annohub/annotation-platform/internal/logger"
	"github.com/annohub/annotation-platform/internal/models"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type ItemService struct {
	itemRepo    *repository.ItemRepository
	datasetRepo *repository.DatasetRepository
	blobs       storage.Store
}

func NewItemService(
	itemRepo *repository.ItemRepository,
	datasetRepo *repository.DatasetRepository,
	blobs storage.Store,
) *ItemService {
	return &ItemService{
		itemRepo:    itemRepo,
		datasetRepo: datasetRepo,
		blobs:       blobs,
	}
}

type UploadRequest struct {
	DatasetID string

	// LocalPath is the file to upload. Missing file fails with ErrNotFound.
	LocalPath string

	// RemotePath is the destination folder, rooted at the dataset.
	// Empty means "/". A path that is not rooted or escapes the root
	// fails with ErrInternalServer.
	RemotePath string

	// RemoteName overrides the file name on the platform. Empty keeps
	// the local base name.
	RemoteName string

	// Mode is overwrite or merge; empty means overwrite.
	Mode string
}

func validateRemotePath(remotePath string) error {
	if !strings.HasPrefix(remotePath, "/") {
		return fmt.Errorf("remote path %q is not rooted: %w", remotePath, models.ErrInternalServer)
	}
	if strings.Contains(remotePath, "\\") {
		return fmt.Errorf("remote path %q contains backslash: %w", remotePath, models.ErrInternalServer)
	}
	for _, part := range strings.Split(remotePath, "/") {
		if part == ".." {
			return fmt.Errorf("remote path %q escapes the dataset root: %w", remotePath, models.ErrInternalServer)
		}
	}
	return nil
}

func itemBlobKey(itemID string) string {
	return "items/" + itemID
}

func (s *ItemService) Upload(req UploadRequest) (models.Item, error) {
	if _, err := s.datasetRepo.Get(req.DatasetID); err != nil {
		return models.Item{}, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.UploadModeOverwrite
	}
	if mode != models.UploadModeOverwrite && mode != models.UploadModeMerge {
		return models.Item{}, fmt.Errorf("unknown upload mode %q: %w", req.Mode, models.ErrInvalidArgument)
	}

	remotePath := req.RemotePath
	if remotePath == "" {
		remotePath = "/"
	}
	if err := validateRemotePath(remotePath); err != nil {
		return models.Item{}, err
	}

	remoteName := req.RemoteName
	if remoteName == "" {
		remoteName = filepath.Base(req.LocalPath)
	}
	filename := path.Join(remotePath, remoteName)

	if _, err := os.Stat(req.LocalPath); err != nil {
		if os.IsNotExist(err) {
			return models.Item{}, fmt.Errorf("local file %q: %w", req.LocalPath, models.ErrNotFound)
		}
		return models.Item{}, fmt.Errorf("stat local file: %w", err)
	}

	existing, err := s.itemRepo.GetByRemotePath(req.DatasetID, filename)
	switch {
	case err == nil && mode == models.UploadModeMerge:
		return s.merge(existing)
	case err == nil:
		return s.overwrite(existing, req.LocalPath)
	case errors.Is(err, models.ErrNotFound):
		// No item at that remote path yet, both modes create it.
		return s.create(req.DatasetID, filename, remoteName, req.LocalPath)
	default:
		return models.Item{}, err
	}
}

func (s *ItemService) create(datasetID, filename, name, localPath string) (models.Item, error) {
	item := models.Item{
		ID:        uuid.NewString(),
		DatasetID: datasetID,
		Name:      name,
		Filename:  filename,
		Mimetype:  detectMimetype(name),
		Metadata:  map[string]interface{}{"system": map[string]interface{}{}},
	}

	size, err := s.putContent(item.ID, localPath)
	if err != nil {
		return models.Item{}, err
	}
	item.Size = size

	if err := s.itemRepo.Create(&item); err != nil {
		s.blobs.Delete(itemBlobKey(item.ID))
		return models.Item{}, err
	}

	logger.Info("item uploaded",
		logger.FieldKV("item_id", item.ID),
		logger.FieldKV("filename", item.Filename),
		logger.FieldKV("size", humanize.Bytes(uint64(item.Size))),
	)

	return item, nil
}

func (s *ItemService) overwrite(item models.Item, localPath string) (models.Item, error) {
	size, err := s.putContent(item.ID, localPath)
	if err != nil {
		return models.Item{}, err
	}

	item.Size = size
	item.Mimetype = detectMimetype(item.Name)
	if err := s.itemRepo.UpdateContent(item.ID, item.Mimetype, item.Size); err != nil {
		return models.Item{}, err
	}

	// Overwrite replaces metadata too, so a merge flag from an earlier
	// upload does not survive.
	item.Metadata = map[string]interface{}{"system": map[string]interface{}{}}
	if err := s.itemRepo.UpdateMetadata(item.ID, item.Metadata); err != nil {
		return models.Item{}, err
	}

	logger.Info("item overwritten",
		logger.FieldKV("item_id", item.ID),
		logger.FieldKV("size", humanize.Bytes(uint64(item.Size))),
	)

	return item, nil
}

// merge keeps the existing content and marks the item as merged under the
// system metadata, so callers can tell a merged item apart.
func (s *ItemService) merge(item models.Item) (models.Item, error) {
	item.System()["merged"] = true
	if err := s.itemRepo.UpdateMetadata(item.ID, item.Metadata); err != nil {
		return models.Item{}, err
	}

	logger.Info("item merged", logger.FieldKV("item_id", item.ID))

	return item, nil
}

func (s *ItemService) putContent(itemID, localPath string) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	size, err := s.blobs.Put(itemBlobKey(itemID), f)
	if err != nil {
		return 0, fmt.Errorf("store item content: %w", err)
	}
	return size, nil
}

func (s *ItemService) Get(id string) (models.Item, error) {
	return s.itemRepo.Get(id)
}

// Fetch returns the stored content of an item.
func (s *ItemService) Fetch(id string) ([]byte, error) {
	item, err := s.itemRepo.Get(id)
	if err != nil {
		return nil, err
	}

	rc, err := s.blobs.Get(itemBlobKey(item.ID))
	if err != nil {
		return nil, fmt.Errorf("item content %s: %w", id, models.ErrNotFound)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (s *ItemService) List(datasetID string) ([]models.Item, error) {
	if _, err := s.datasetRepo.Get(datasetID); err != nil {
		return nil, err
	}
	return s.itemRepo.ListByDataset(datasetID)
}

func (s *ItemService) Delete(id string) error {
	if err := s.itemRepo.Delete(id); err != nil {
		return err
	}
	return s.blobs.Delete(itemBlobKey(id))
}

func detectMimetype(name string) string {
	mimetype := mime.TypeByExtension(path.Ext(name))
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	return mimetype
}
