package studyplan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyPlan is the persisted form of a generated plan. PlanData holds the
// day/topic body as a JSON array; CompletionPercentage is derived from it
// and only ever written together with it.
type StudyPlan struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:uuid;not null;index:idx_study_plan_user_created,priority:1" json:"user_id"`
	Subject              string         `gorm:"not null;column:subject" json:"subject"`
	Level                string         `gorm:"not null;column:level" json:"level"`
	Days                 int            `gorm:"not null;column:days" json:"days"`
	HoursPerDay          float64        `gorm:"not null;column:hours_per_day" json:"hours_per_day"`
	CompletionPercentage float64        `gorm:"not null;default:0;column:completion_percentage" json:"completion_percentage"`
	PlanData             datatypes.JSON `gorm:"column:plan_data;type:jsonb;not null" json:"plan_data"`

	CreatedAt time.Time `gorm:"not null;index:idx_study_plan_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }

func (p *StudyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
