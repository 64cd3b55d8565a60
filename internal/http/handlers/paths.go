package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diabetes-app/internal/assets"
	"github.com/yungbote/diabetes-app/internal/decisionpath"
	"github.com/yungbote/diabetes-app/internal/http/response"
)

type PathHandler struct {
	assets *assets.Service
}

func NewPathHandler(svc *assets.Service) *PathHandler {
	return &PathHandler{assets: svc}
}

type leafResponse struct {
	Key         string   `json:"key"`
	Asset       string   `json:"asset"`
	AssetURL    string   `json:"asset_url"`
	Description string   `json:"description"`
	Conditions  []string `json:"conditions"`
}

// GET /api/v1/paths
func (h *PathHandler) List(c *gin.Context) {
	leaves := decisionpath.Leaves()
	out := make([]leafResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, leafResponse{
			Key:         l.Key.String(),
			Asset:       l.Asset,
			AssetURL:    AssetURL(l.Asset),
			Description: l.Description,
			Conditions:  l.Conditions,
		})
	}
	response.RespondOK(c, gin.H{
		"default_asset":     decisionpath.DefaultAsset,
		"default_asset_url": AssetURL(decisionpath.DefaultAsset),
		"paths":             out,
	})
}

// GET /assets/paths/:name
func (h *PathHandler) Asset(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if h.assets == nil || !decisionpath.KnownAsset(name) {
		response.RespondError(c, http.StatusNotFound, "not_found", assets.ErrNotFound)
		return
	}
	b, err := h.assets.Get(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", b)
}
