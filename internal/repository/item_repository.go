package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annohub/annotation-platform/internal/models"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(item *models.Item) error {
	metadata, err := marshalMetadata(item.Metadata)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO items (id, dataset_id, name, filename, mimetype, size, annotated, metadata)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		item.ID,
		item.DatasetID,
		item.Name,
		item.Filename,
		item.Mimetype,
		item.Size,
		item.Annotated,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

func (r *ItemRepository) Get(id string) (models.Item, error) {
	query := `
		SELECT id, dataset_id, name, filename, mimetype, size, annotated, metadata, created_at
		FROM items WHERE id = ?
	`
	return r.scanItem(r.db.QueryRow(query, id), fmt.Sprintf("item %s", id))
}

func (r *ItemRepository) GetByRemotePath(datasetID, filename string) (models.Item, error) {
	query := `
		SELECT id, dataset_id, name, filename, mimetype, size, annotated, metadata, created_at
		FROM items WHERE dataset_id = ? AND filename = ?
	`
	return r.scanItem(r.db.QueryRow(query, datasetID, filename), fmt.Sprintf("item %s", filename))
}

func (r *ItemRepository) scanItem(row *sql.Row, what string) (models.Item, error) {
	var i models.Item
	var metadata sql.NullString

	err := row.Scan(
		&i.ID,
		&i.DatasetID,
		&i.Name,
		&i.Filename,
		&i.Mimetype,
		&i.Size,
		&i.Annotated,
		&metadata,
		&i.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}

	if i.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return models.Item{}, err
	}

	return i, nil
}

func (r *ItemRepository) ListByDataset(datasetID string) ([]models.Item, error) {
	query := `
		SELECT id, dataset_id, name, filename, mimetype, size, annotated, metadata, created_at
		FROM items WHERE dataset_id = ? ORDER BY filename
	`

	rows, err := r.db.Query(query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		var metadata sql.NullString
		err := rows.Scan(
			&i.ID,
			&i.DatasetID,
			&i.Name,
			&i.Filename,
			&i.Mimetype,
			&i.Size,
			&i.Annotated,
			&metadata,
			&i.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if i.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

func (r *ItemRepository) UpdateContent(id, mimetype string, size int64) error {
	query := `UPDATE items SET mimetype = ?, size = ? WHERE id = ?`
	_, err := r.db.Exec(query, mimetype, size, id)
	return err
}

func (r *ItemRepository) UpdateMetadata(id string, metadata map[string]interface{}) error {
	encoded, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	query := `UPDATE items SET metadata = ? WHERE id = ?`
	_, err = r.db.Exec(query, encoded, id)
	return err
}

func (r *ItemRepository) UpdateAnnotated(id string, annotated bool) error {
	query := `UPDATE items SET annotated = ? WHERE id = ?`
	_, err := r.db.Exec(query, annotated, id)
	return err
}

func (r *ItemRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}

	return nil
}

func marshalMetadata(metadata map[string]interface{}) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal item metadata: %w", err)
	}
	return string(encoded), nil
}

func unmarshalMetadata(raw sql.NullString) (map[string]interface{}, error) {
	metadata := make(map[string]interface{})
	if !raw.Valid || raw.String == "" {
		return metadata, nil
	}
	if err := json.Unmarshal([]byte(raw.String), &metadata); err != nil {
		return nil, fmt.Errorf("unmarshal item metadata: %w", err)
	}
	return metadata, nil
}
