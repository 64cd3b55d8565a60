package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/diabetes-app/internal/assessment"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/platform/apierr"
)

// assessmentError maps domain errors onto the HTTP error envelope.
func assessmentError(err error) error {
	var (
		fe *patient.FieldError
		ie *patient.IncompleteError
	)
	switch {
	case errors.As(err, &ie):
		return apierr.WithParam(http.StatusBadRequest, "incomplete_form", strings.Join(ie.Missing, ","), err)
	case errors.Is(err, patient.ErrIncomplete):
		return apierr.New(http.StatusBadRequest, "incomplete_form", err)
	case errors.As(err, &fe):
		return apierr.WithParam(http.StatusBadRequest, "invalid_field", fe.Field, err)
	case errors.Is(err, assessment.ErrPredictor):
		return apierr.New(http.StatusBadGateway, "predictor_error", assessment.ErrPredictor)
	case errors.Is(err, assessment.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, assessment.ErrStorageDisabled):
		return apierr.New(http.StatusNotImplemented, "storage_disabled", err)
	default:
		return err
	}
}
