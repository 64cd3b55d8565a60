package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment is one recorded prediction. Clinical answers are stored as submitted
// so a result can be re-rendered; they are never written to logs.
type Assessment struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Age              int            `gorm:"column:age;not null" json:"age"`
	Gender           string         `gorm:"column:gender;not null" json:"gender"`
	Polyuria         string         `gorm:"column:polyuria;not null" json:"polyuria"`
	Polydipsia       string         `gorm:"column:polydipsia;not null" json:"polydipsia"`
	SuddenWeightLoss string         `gorm:"column:sudden_weight_loss;not null" json:"sudden_weight_loss"`
	Alopecia         string         `gorm:"column:alopecia;not null" json:"alopecia"`
	Features         datatypes.JSON `gorm:"column:features" json:"features"`
	Label            int            `gorm:"column:label;not null" json:"label"`
	Outcome          string         `gorm:"column:outcome;not null;index" json:"outcome"`
	PathKey          string         `gorm:"column:path_key;index" json:"path_key"`
	Asset            string         `gorm:"column:asset;not null" json:"asset"`
	Engine           string         `gorm:"column:engine" json:"engine,omitempty"`
	RequestID        string         `gorm:"column:request_id;index" json:"request_id,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Assessment) TableName() string { return "assessment" }
