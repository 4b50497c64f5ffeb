package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/annohub/annotation-platform/internal/logger"
	"github.com/annohub/annotation-platform/internal/models"
	"github.com/annohub/annotation-platform/internal/repository"
	"github.com/annohub/annotation-platform/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type PackageService struct {
	packageRepo *repository.PackageRepository
	datasetRepo *repository.DatasetRepository
	blobs       storage.Store
}

func NewPackageService(
	packageRepo *repository.PackageRepository,
	datasetRepo *repository.DatasetRepository,
	blobs storage.Store,
) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
		datasetRepo: datasetRepo,
		blobs:       blobs,
	}
}

// Pack archives a local directory as the next version of the named package.
// The first pack creates the package with version 1; every pack after that
// appends exactly one version.
func (s *PackageService) Pack(datasetID, directory, name string) (models.PackageVersion, error) {
	if _, err := s.datasetRepo.Get(datasetID); err != nil {
		return models.PackageVersion{}, err
	}

	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return models.PackageVersion{}, fmt.Errorf("directory %q: %w", directory, models.ErrNotFound)
		}
		return models.PackageVersion{}, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return models.PackageVersion{}, fmt.Errorf("%q is not a directory: %w", directory, models.ErrInvalidArgument)
	}

	pkg, err := s.packageRepo.GetByName(name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkg = models.Package{
			ID:        uuid.NewString(),
			DatasetID: datasetID,
			Name:      name,
		}
		if err := s.packageRepo.Create(&pkg); err != nil {
			return models.PackageVersion{}, err
		}
	case err != nil:
		return models.PackageVersion{}, err
	case pkg.DatasetID != datasetID:
		// Package names are global, a name packed under one dataset
		// cannot be reused by another.
		return models.PackageVersion{}, fmt.Errorf("package %q belongs to dataset %s: %w",
			name, pkg.DatasetID, models.ErrInvalidArgument)
	}

	versionNumber, err := s.packageRepo.NextVersion(pkg.ID)
	if err != nil {
		return models.PackageVersion{}, err
	}

	archive, err := zipDirectory(directory)
	if err != nil {
		return models.PackageVersion{}, fmt.Errorf("pack %q: %w", directory, err)
	}

	blobKey := fmt.Sprintf("packages/%s/v%d.zip", pkg.ID, versionNumber)
	size, err := s.blobs.Put(blobKey, bytes.NewReader(archive))
	if err != nil {
		return models.PackageVersion{}, fmt.Errorf("store package archive: %w", err)
	}

	version := models.PackageVersion{
		ID:        uuid.NewString(),
		PackageID: pkg.ID,
		Version:   versionNumber,
		Size:      size,
		BlobKey:   blobKey,
	}
	if err := s.packageRepo.CreateVersion(&version); err != nil {
		s.blobs.Delete(blobKey)
		return models.PackageVersion{}, err
	}

	logger.Info("package packed",
		logger.FieldKV("package", name),
		logger.FieldKV("version", version.Version),
		logger.FieldKV("size", humanize.Bytes(uint64(version.Size))),
	)

	return version, nil
}

// ListVersions returns all versions of the named package in ascending
// order. A package that was never packed has no versions.
func (s *PackageService) ListVersions(name string) ([]models.PackageVersion, error) {
	pkg, err := s.packageRepo.GetByName(name)
	if errors.Is(err, models.ErrNotFound) {
		return []models.PackageVersion{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.packageRepo.ListVersions(pkg.ID)
}

// Unpack extracts a stored package version into a local directory.
func (s *PackageService) Unpack(name string, versionNumber int, dest string) error {
	pkg, err := s.packageRepo.GetByName(name)
	if err != nil {
		return err
	}

	version, err := s.packageRepo.GetVersion(pkg.ID, versionNumber)
	if err != nil {
		return err
	}

	rc, err := s.blobs.Get(version.BlobKey)
	if err != nil {
		return fmt.Errorf("package archive %s: %w", version.BlobKey, models.ErrNotFound)
	}
	defer rc.Close()

	archive, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read package archive: %w", err)
	}

	return unzipInto(archive, dest)
}

func zipDirectory(directory string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	root := filepath.Clean(directory)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func unzipInto(archive []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open package archive: %w", err)
	}

	for _, f := range zr.File {
		// Reject entries that would land outside dest.
		if strings.Contains(f.Name, "..") {
			return fmt.Errorf("archive entry %q escapes destination: %w", f.Name, models.ErrInternalServer)
		}

		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}

		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return err
		}
	}

	return nil
}
