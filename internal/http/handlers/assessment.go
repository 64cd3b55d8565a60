package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/http/response"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/platform/apierr"
)

type AssessmentHandler struct {
	svc *assessment.Service
}

func NewAssessmentHandler(svc *assessment.Service) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

// createRequest accepts age as a JSON number or string; the categorical fields
// are matched case-insensitively.
type createRequest struct {
	Age              json.RawMessage `json:"age"`
	Gender           string          `json:"gender"`
	Polyuria         string          `json:"polyuria"`
	Polydipsia       string          `json:"polydipsia"`
	SuddenWeightLoss string          `json:"sudden_weight_loss"`
	Alopecia         string          `json:"alopecia"`
}

func (r createRequest) value(field string) string {
	switch field {
	case patient.FieldAge:
		raw := strings.TrimSpace(string(r.Age))
		if raw == "" || raw == "null" {
			return ""
		}
		var s string
		if err := json.Unmarshal(r.Age, &s); err == nil {
			return s
		}
		return raw
	case patient.FieldGender:
		return r.Gender
	case patient.FieldPolyuria:
		return r.Polyuria
	case patient.FieldPolydipsia:
		return r.Polydipsia
	case patient.FieldSuddenWeightLoss:
		return r.SuddenWeightLoss
	case patient.FieldAlopecia:
		return r.Alopecia
	}
	return ""
}

type resultResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     int       `json:"label"`
	Outcome   string    `json:"outcome"`
	PathKey   string    `json:"path_key,omitempty"`
	Asset     string    `json:"asset"`
	AssetURL  string    `json:"asset_url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(res *assessment.Result) resultResponse {
	return resultResponse{
		ID:        res.ID,
		Label:     res.Label,
		Outcome:   res.Outcome,
		PathKey:   res.PathKey,
		Asset:     res.Asset,
		AssetURL:  AssetURL(res.Asset),
		Caption:   res.Caption,
		CreatedAt: res.CreatedAt,
	}
}

// POST /api/v1/assessments
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req createRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "request_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}

	res, err := h.svc.AssessValues(c.Request.Context(), req.value)
	if err != nil {
		response.RespondAPIError(c, assessmentError(err))
		return
	}
	response.RespondCreated(c, toResponse(res))
}

// GET /api/v1/assessments/:id
func (h *AssessmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondAPIError(c, apierr.WithParam(http.StatusBadRequest, "invalid_id", "id", errors.New("id must be a UUID")))
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, assessmentError(err))
		return
	}
	response.RespondOK(c, toResponse(res))
}

// GET /api/v1/assessments?limit=N
func (h *AssessmentHandler) List(c *gin.Context) {
	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			response.RespondAPIError(c, apierr.WithParam(http.StatusBadRequest, "invalid_limit", "limit", errors.New("limit must be between 1 and 100")))
			return
		}
		limit = n
	}
	rows, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		response.RespondAPIError(c, assessmentError(err))
		return
	}
	out := make([]resultResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toResponse(r))
	}
	response.RespondOK(c, gin.H{"assessments": out})
}

// GET /api/v1/stats
func (h *AssessmentHandler) Stats(c *gin.Context) {
	snap, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, snap)
}
