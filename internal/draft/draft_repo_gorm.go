package draft

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payrun/internal/period"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRow struct {
	EmployeeID int64     `gorm:"primaryKey;autoIncrement:false"`
	Year       int       `gorm:"primaryKey;autoIncrement:false"`
	Month      int       `gorm:"primaryKey;autoIncrement:false"`
	OperatorID string    `gorm:"type:varchar(64);index"`
	Payload    []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (DraftRow) TableName() string {
	return "payroll_drafts"
}

type ActiveDraftRow struct {
	OperatorID string    `gorm:"primaryKey;type:varchar(64)"`
	EmployeeID int64     `gorm:"not null"`
	Year       int       `gorm:"not null"`
	Month      int       `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (ActiveDraftRow) TableName() string {
	return "payroll_draft_active"
}

// AutoMigrate creates the draft tables used by the Postgres store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&DraftRow{}, &ActiveDraftRow{})
}

type gormRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewGormRepository keeps drafts in Postgres. Rows older than ttl are ignored
// on read.
func NewGormRepository(db *gorm.DB, ttl time.Duration) Repository {
	return &gormRepository{db: db, ttl: ttl, now: time.Now}
}

func (r *gormRepository) Get(ctx context.Context, key period.Key) (Draft, error) {
	q := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ? AND month = ?", key.EmployeeID, key.Year, key.Month)
	if r.ttl > 0 {
		q = q.Where("updated_at > ?", r.now().Add(-r.ttl))
	}

	var row DraftRow
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}

	var d Draft
	if err := json.Unmarshal(row.Payload, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (r *gormRepository) Put(ctx context.Context, d Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}

	row := DraftRow{
		EmployeeID: d.Key.EmployeeID,
		Year:       d.Key.Year,
		Month:      d.Key.Month,
		OperatorID: d.OperatorID,
		Payload:    payload,
		UpdatedAt:  r.now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"operator_id", "payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *gormRepository) Delete(ctx context.Context, key period.Key) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ? AND month = ?", key.EmployeeID, key.Year, key.Month).
		Delete(&DraftRow{}).Error
}

func (r *gormRepository) Active(ctx context.Context, operatorID string) (*period.Key, error) {
	var row ActiveDraftRow
	err := r.db.WithContext(ctx).Where("operator_id = ?", operatorID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period.Key{EmployeeID: row.EmployeeID, Year: row.Year, Month: row.Month}, nil
}

func (r *gormRepository) SetActive(ctx context.Context, operatorID string, key period.Key) error {
	row := ActiveDraftRow{
		OperatorID: operatorID,
		EmployeeID: key.EmployeeID,
		Year:       key.Year,
		Month:      key.Month,
		UpdatedAt:  r.now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"employee_id", "year", "month", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *gormRepository) ClearActive(ctx context.Context, operatorID string) error {
	return r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Delete(&ActiveDraftRow{}).Error
}
