// Package assessment runs one submission through the gate, encoder, predictor
// and path resolver, and records the outcome.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/yungbote/diabetes-app/internal/data/repos"
	"github.com/yungbote/diabetes-app/internal/decisionpath"
	"github.com/yungbote/diabetes-app/internal/domain"
	"github.com/yungbote/diabetes-app/internal/observability"
	"github.com/yungbote/diabetes-app/internal/patient"
	"github.com/yungbote/diabetes-app/internal/platform/ctxutil"
	"github.com/yungbote/diabetes-app/internal/platform/dbctx"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
	"github.com/yungbote/diabetes-app/internal/predictor"
	"github.com/yungbote/diabetes-app/internal/stats"
)

const Caption = "Decision Path Visualization"

var (
	ErrPredictor       = errors.New("prediction failed")
	ErrNotFound        = errors.New("assessment not found")
	ErrStorageDisabled = errors.New("assessment storage is disabled")
)

type Result struct {
	ID        uuid.UUID             `json:"id"`
	Label     int                   `json:"label"`
	Outcome   string                `json:"outcome"`
	PathKey   string                `json:"path_key,omitempty"`
	Asset     string                `json:"asset"`
	Caption   string                `json:"caption"`
	Input     patient.Input         `json:"-"`
	Features  patient.FeatureVector `json:"-"`
	CreatedAt time.Time             `json:"created_at"`
}

type Deps struct {
	Predictor predictor.Predictor
	Repo      repos.AssessmentRepo
	Stats     stats.Store
	Metrics   *observability.Metrics
	Log       *logger.Logger
	Engine    string
	Now       func() time.Time
}

type Service struct {
	predictor predictor.Predictor
	repo      repos.AssessmentRepo
	stats     stats.Store
	metrics   *observability.Metrics
	log       *logger.Logger
	engine    string
	now       func() time.Time
	tracer    trace.Tracer
}

func NewService(d Deps) (*Service, error) {
	if d.Predictor == nil {
		return nil, fmt.Errorf("assessment: predictor required")
	}
	if d.Log == nil {
		return nil, fmt.Errorf("assessment: logger required")
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		predictor: d.Predictor,
		repo:      d.Repo,
		stats:     d.Stats,
		metrics:   d.Metrics,
		log:       d.Log.With("service", "AssessmentService"),
		engine:    d.Engine,
		now:       now,
		tracer:    otel.Tracer("github.com/yungbote/diabetes-app/internal/assessment"),
	}, nil
}

// AssessValues parses raw field values and assesses them. Values that cannot be
// parsed are rejected and counted like gate failures.
func (s *Service) AssessValues(ctx context.Context, get func(field string) string) (*Result, error) {
	form, err := patient.ParseValues(get)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	return s.Assess(ctx, form)
}

func (s *Service) reject(err error) string {
	reason := "invalid_field"
	if errors.Is(err, patient.ErrIncomplete) {
		reason = "incomplete_form"
	}
	s.metrics.IncRejected(reason)
	return reason
}

// Assess validates form and, only when every field is present and valid, asks the
// predictor for a label. Validation errors are returned unchanged; predictor
// errors wrap ErrPredictor.
func (s *Service) Assess(ctx context.Context, form patient.Form) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.assess")
	defer span.End()

	in, err := form.Validate()
	if err != nil {
		reason := s.reject(err)
		span.SetAttributes(attribute.String("assessment.rejected", reason))
		return nil, err
	}

	features := patient.Encode(in)
	start := time.Now()
	label, err := s.predictor.Predict(ctx, features)
	s.metrics.ObservePredictor(err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "predict")
		s.log.Error("prediction failed", "engine", s.engine, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPredictor, err)
	}

	key, ok := decisionpath.Resolve(in)
	res := &Result{
		ID:        uuid.New(),
		Label:     int(label),
		Outcome:   label.Outcome(),
		Asset:     decisionpath.AssetFor(key, ok),
		Caption:   Caption,
		Input:     in,
		Features:  features,
		CreatedAt: s.now().UTC(),
	}
	if ok {
		res.PathKey = key.String()
	}

	span.SetAttributes(
		attribute.Int("assessment.label", res.Label),
		attribute.String("assessment.outcome", res.Outcome),
		attribute.String("assessment.path", res.PathKey),
	)
	s.metrics.IncAssessment(res.Outcome, res.PathKey)
	s.record(ctx, res)

	s.log.Info("assessment completed",
		"assessment_id", res.ID.String(),
		"outcome", res.Outcome,
		"path", res.PathKey,
	)
	return res, nil
}

// record persists res to the optional sinks. Failures are logged and counted,
// never returned.
func (s *Service) record(ctx context.Context, res *Result) {
	if s.repo != nil {
		feat, _ := json.Marshal(res.Features.Slice())
		row := &domain.Assessment{
			ID:               res.ID,
			Age:              res.Input.Age,
			Gender:           string(res.Input.Gender),
			Polyuria:         string(res.Input.Polyuria),
			Polydipsia:       string(res.Input.Polydipsia),
			SuddenWeightLoss: string(res.Input.SuddenWeightLoss),
			Alopecia:         string(res.Input.Alopecia),
			Features:         datatypes.JSON(feat),
			Label:            res.Label,
			Outcome:          res.Outcome,
			PathKey:          res.PathKey,
			Asset:            res.Asset,
			Engine:           s.engine,
			RequestID:        ctxutil.RequestID(ctx),
			CreatedAt:        res.CreatedAt,
		}
		if _, err := s.repo.Create(dbctx.Context{Ctx: ctx}, []*domain.Assessment{row}); err != nil {
			s.metrics.IncRecordError("db")
			s.log.Warn("failed to store assessment", "assessment_id", res.ID.String(), "error", err)
		}
	}
	if s.stats != nil {
		ev := stats.Event{Outcome: res.Outcome, PathKey: res.PathKey, At: res.CreatedAt}
		if err := s.stats.Record(ctx, ev); err != nil {
			s.metrics.IncRecordError("stats")
			s.log.Warn("failed to record assessment stats", "error", err)
		}
	}
}

// Get loads a stored assessment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Result, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return resultFromRow(row)
}

// Recent lists the latest stored assessments, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Result, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	rows, err := s.repo.ListRecent(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	out := make([]*Result, 0, len(rows))
	for _, row := range rows {
		res, err := resultFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Stats reports aggregate counts from the statistics store, falling back to the
// assessment table when no store is configured.
func (s *Service) Stats(ctx context.Context) (stats.Snapshot, error) {
	if s.stats != nil {
		return s.stats.Snapshot(ctx)
	}
	snap := stats.Snapshot{ByOutcome: map[string]int64{}, ByPath: map[string]int64{}}
	if s.repo == nil {
		return snap, nil
	}
	c, err := s.repo.Counts(dbctx.Context{Ctx: ctx})
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("count assessments: %w", err)
	}
	snap.Total = c.Total
	snap.ByOutcome = c.ByOutcome
	for k, v := range c.ByPath {
		snap.ByPath[stats.NormalizePath(k)] += v
	}
	return snap, nil
}

func resultFromRow(row *domain.Assessment) (*Result, error) {
	form, err := patient.ParseValues(func(field string) string {
		switch field {
		case patient.FieldAge:
			return fmt.Sprint(row.Age)
		case patient.FieldGender:
			return row.Gender
		case patient.FieldPolyuria:
			return row.Polyuria
		case patient.FieldPolydipsia:
			return row.Polydipsia
		case patient.FieldSuddenWeightLoss:
			return row.SuddenWeightLoss
		case patient.FieldAlopecia:
			return row.Alopecia
		}
		return ""
	})
	if err != nil {
		return nil, fmt.Errorf("stored assessment %s: %w", row.ID, err)
	}
	in, err := form.Validate()
	if err != nil {
		return nil, fmt.Errorf("stored assessment %s: %w", row.ID, err)
	}
	return &Result{
		ID:        row.ID,
		Label:     row.Label,
		Outcome:   row.Outcome,
		PathKey:   row.PathKey,
		Asset:     row.Asset,
		Caption:   Caption,
		Input:     in,
		Features:  patient.Encode(in),
		CreatedAt: row.CreatedAt,
	}, nil
}
