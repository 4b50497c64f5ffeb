package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
)

type PackageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(pkg *models.Package) error {
	query := `
	INSERT INTO packages (id, dataset_id, name)
        VALUES (?, ?, ?)
	`

	_, err := r.db.Exec(query, pkg.ID, pkg.DatasetID, pkg.Name)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}

	return nil
}

func (r *PackageRepository) GetByName(name string) (models.Package, error) {
	query := `SELECT id, dataset_id, name, created_at FROM packages WHERE name = ?`

	var p models.Package
	err := r.db.QueryRow(query, name).Scan(&p.ID, &p.DatasetID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Package{}, fmt.Errorf("package %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return models.Package{}, fmt.Errorf("get package: %w", err)
	}

	return p, nil
}

func (r *PackageRepository) CreateVersion(version *models.PackageVersion) error {
	query := `
	INSERT INTO package_versions (id, package_id, version, size, blob_key)
        VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		version.ID,
		version.PackageID,
		version.Version,
		version.Size,
		version.BlobKey,
	)
	if err != nil {
		return fmt.Errorf("create package version: %w", err)
	}

	return nil
}

// NextVersion returns the version number the next pack of this package
// should get. Versions are sequential starting at 1.
func (r *PackageRepository) NextVersion(packageID string) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM package_versions WHERE package_id = ?`

	var latest int
	if err := r.db.QueryRow(query, packageID).Scan(&latest); err != nil {
		return 0, fmt.Errorf("next package version: %w", err)
	}

	return latest + 1, nil
}

func (r *PackageRepository) GetVersion(packageID string, version int) (models.PackageVersion, error) {
	query := `
		SELECT id, package_id, version, size, blob_key, created_at
		FROM package_versions WHERE package_id = ? AND version = ?
	`

	var v models.PackageVersion
	err := r.db.QueryRow(query, packageID, version).Scan(
		&v.ID, &v.PackageID, &v.Version, &v.Size, &v.BlobKey, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PackageVersion{}, fmt.Errorf("version %d: %w", version, models.ErrNotFound)
	}
	if err != nil {
		return models.PackageVersion{}, fmt.Errorf("get package version: %w", err)
	}

	return v, nil
}

func (r *PackageRepository) ListVersions(packageID string) ([]models.PackageVersion, error) {
	query := `
		SELECT id, package_id, version, size, blob_key, created_at
		FROM package_versions WHERE package_id = ? ORDER BY version
	`

	rows, err := r.db.Query(query, packageID)
	if err != nil {
		return nil, fmt.Errorf("list package versions: %w", err)
	}
	defer rows.Close()

	var versions []models.PackageVersion
	for rows.Next() {
		var v models.PackageVersion
		if err := rows.Scan(&v.ID, &v.PackageID, &v.Version, &v.Size, &v.BlobKey, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}
