package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/annohub/annotation-platform/internal/service"
)

type UploadItemRequestBody struct {
	LocalPath  string `json:"local_path"`
	RemotePath string `json:"remote_path"`
	RemoteName string `json:"remote_name"`
	Mode       string `json:"mode"`
}

type ItemHandler struct {
	itemService *service.ItemService
}

func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

func (h *ItemHandler) UploadItem(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("id")

	var reqBody UploadItemRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	item, err := h.itemService.Upload(service.UploadRequest{
		DatasetID:  datasetID,
		LocalPath:  reqBody.LocalPath,
		RemotePath: reqBody.RemotePath,
		RemoteName: reqBody.RemoteName,
		Mode:       reqBody.Mode,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"item": item,
	})
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.itemService.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
	})
}

func (h *ItemHandler) GetItemContent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.itemService.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}

	content, err := h.itemService.Fetch(id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", item.Mimetype)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("id")

	items, err := h.itemService.List(datasetID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.itemService.Delete(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
