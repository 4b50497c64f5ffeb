package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/annohub/annotation-platform/internal/service"
)

type PackRequestBody struct {
	Directory string `json:"directory"`
	Name      string `json:"name"`
}

type PackageHandler struct {
	packageService *service.PackageService
}

func NewPackageHandler(packageService *service.PackageService) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
	}
}

func (h *PackageHandler) Pack(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("id")

	var reqBody PackRequestBody
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	version, err := h.packageService.Pack(datasetID, reqBody.Directory, reqBody.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"version": version,
	})
}

func (h *PackageHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	versions, err := h.packageService.ListVersions(name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"versions": versions,
	})
}
