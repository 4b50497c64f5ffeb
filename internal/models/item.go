package models

import "time"

// Upload modes. Overwrite replaces the content and metadata of an item that
// already exists at the remote path; merge keeps the existing content and
// merges metadata, marking the item as merged under metadata.system.
const (
	UploadModeOverwrite = "overwrite"
	UploadModeMerge     = "merge"
)

type Item struct {
	ID        string                 `json:"id"`
	DatasetID string                 `json:"dataset_id"`
	Name      string                 `json:"name"`
	Filename  string                 `json:"filename"`
	Mimetype  string                 `json:"mimetype"`
	Size      int64                  `json:"size"`
	Annotated bool                   `json:"annotated"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// System returns the system section of the item metadata, creating it
// if needed.
func (i *Item) System() map[string]interface{} {
	if i.Metadata == nil {
		i.Metadata = make(map[string]interface{})
	}
	system, ok := i.Metadata["system"].(map[string]interface{})
	if !ok {
		system = make(map[string]interface{})
		i.Metadata["system"] = system
	}
	return system
}

// Merged reports whether the item was the target of a merge-mode upload.
func (i *Item) Merged() bool {
	system, ok := i.Metadata["system"].(map[string]interface{})
	if !ok {
		return false
	}
	merged, _ := system["merged"].(bool)
	return merged
}
