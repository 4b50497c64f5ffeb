package models

import "time"

type Package struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"dataset_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type PackageVersion struct {
	ID        string    `json:"id"`
	PackageID string    `json:"package_id"`
	Version   int       `json:"version"`
	Size      int64     `json:"size"`
	BlobKey   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
