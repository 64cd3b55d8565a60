package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/diabetes-app/internal/domain"
	"github.com/yungbote/diabetes-app/internal/platform/dbctx"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

// Counts aggregates recorded assessments.
type Counts struct {
	Total     int64
	ByOutcome map[string]int64
	ByPath    map[string]int64
}

type AssessmentRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Assessment) ([]*domain.Assessment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Assessment, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*domain.Assessment, error)
	Counts(dbc dbctx.Context) (Counts, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{
		db:  db,
		log: baseLog.With("repo", "AssessmentRepo"),
	}
}

func (r *assessmentRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *assessmentRepo) Create(dbc dbctx.Context, rows []*domain.Assessment) ([]*domain.Assessment, error) {
	if len(rows) == 0 {
		return []*domain.Assessment{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := r.tx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns (nil, nil) when no row matches.
func (r *assessmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Assessment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out domain.Assessment
	err := r.tx(dbc).Where("id = ?", id).Limit(1).Take(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *assessmentRepo) ListRecent(dbc dbctx.Context, limit int) ([]*domain.Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []*domain.Assessment
	if err := r.tx(dbc).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type groupRow struct {
	Bucket string
	N      int64
}

func (r *assessmentRepo) Counts(dbc dbctx.Context) (Counts, error) {
	out := Counts{ByOutcome: map[string]int64{}, ByPath: map[string]int64{}}

	var byOutcome []groupRow
	if err := r.tx(dbc).Model(&domain.Assessment{}).
		Select("outcome AS bucket, COUNT(*) AS n").
		Group("outcome").
		Scan(&byOutcome).Error; err != nil {
		return Counts{}, err
	}
	for _, row := range byOutcome {
		out.ByOutcome[row.Bucket] = row.N
		out.Total += row.N
	}

	var byPath []groupRow
	if err := r.tx(dbc).Model(&domain.Assessment{}).
		Select("path_key AS bucket, COUNT(*) AS n").
		Group("path_key").
		Scan(&byPath).Error; err != nil {
		return Counts{}, err
	}
	for _, row := range byPath {
		out.ByPath[row.Bucket] = row.N
	}
	return out, nil
}
