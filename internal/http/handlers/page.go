package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/web"
)

const (
	predictorUnavailable = "The model could not produce a prediction. Please try again."
	formTooLarge         = "The submitted form is too large."
	formUnreadable       = "The submitted form could not be read."
)

type PageHandler struct {
	svc       *assessment.Service
	presenter *web.Presenter
}

func NewPageHandler(svc *assessment.Service, presenter *web.Presenter) *PageHandler {
	return &PageHandler{svc: svc, presenter: presenter}
}

// GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, web.TemplateName, h.presenter.Default(web.FormValues{}, ""))
}

// POST /
func (h *PageHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.HTML(http.StatusRequestEntityTooLarge, web.TemplateName, h.presenter.Default(web.FormValues{}, formTooLarge))
			return
		}
		c.HTML(http.StatusBadRequest, web.TemplateName, h.presenter.Default(web.FormValues{}, formUnreadable))
		return
	}
	raw := web.FormValues{
		Age:              strings.TrimSpace(c.PostForm(patient.FieldAge)),
		Gender:           c.PostForm(patient.FieldGender),
		Polyuria:         c.PostForm(patient.FieldPolyuria),
		Polydipsia:       c.PostForm(patient.FieldPolydipsia),
		SuddenWeightLoss: c.PostForm(patient.FieldSuddenWeightLoss),
		Alopecia:         c.PostForm(patient.FieldAlopecia),
	}
	res, err := h.svc.AssessValues(c.Request.Context(), func(field string) string { return c.PostForm(field) })
	if err != nil {
		h.fail(c, raw, err)
		return
	}
	c.HTML(http.StatusOK, web.TemplateName, h.presenter.Result(res))
}

func (h *PageHandler) fail(c *gin.Context, values web.FormValues, err error) {
	switch {
	case errors.Is(err, patient.ErrIncomplete):
		c.HTML(http.StatusOK, web.TemplateName, h.presenter.Default(values, patient.IncompleteMessage))
	case errors.Is(err, patient.ErrInvalidField):
		c.HTML(http.StatusBadRequest, web.TemplateName, h.presenter.Default(values, err.Error()))
	case errors.Is(err, assessment.ErrPredictor):
		c.HTML(http.StatusBadGateway, web.TemplateName, h.presenter.Default(values, predictorUnavailable))
	default:
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, web.TemplateName, h.presenter.Default(values, predictorUnavailable))
	}
}
