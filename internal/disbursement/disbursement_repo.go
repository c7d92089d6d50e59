package disbursement

import (
	"context"
	"database/sql"
	"errors"

	"go-payrun/internal/period"

	"gorm.io/gorm"
)

//go:generate mockgen -source=disbursement_repo.go -destination=mock/disbursement_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
	// Latest returns the most recent run for key, or nil.
	Latest(ctx context.Context, key period.Key) (*Run, error)
	FindByPayrollID(ctx context.Context, payrollID int64) (*Run, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// AutoMigrate creates the run ledger table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Run{})
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn runs statements on the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, run *Run) error {
	return mapRepositoryError(r.conn(ctx).Create(run).Error)
}

func (r *repository) Update(ctx context.Context, run *Run) error {
	return r.conn(ctx).Save(run).Error
}

func (r *repository) Latest(ctx context.Context, key period.Key) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Where("employee_id = ? AND year = ? AND month = ?", key.EmployeeID, key.Year, key.Month).
		Order("created_at DESC").
		Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindByPayrollID(ctx context.Context, payrollID int64) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Where("payroll_id = ?", payrollID).
		Order("created_at DESC").
		Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
