package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	Policies(ctx context.Context) ([]Policy, error)
	Inheritance(ctx context.Context) ([]Inheritance, error)
}

type PolicyRow struct {
	ID       uint   `gorm:"primaryKey"`
	Role     string `gorm:"type:varchar(32);not null;uniqueIndex:uq_payroll_role_permissions"`
	Resource string `gorm:"type:varchar(64);not null;uniqueIndex:uq_payroll_role_permissions"`
	Action   string `gorm:"type:varchar(32);not null;uniqueIndex:uq_payroll_role_permissions"`
}

func (PolicyRow) TableName() string {
	return "payroll_role_permissions"
}

type InheritanceRow struct {
	Role   string `gorm:"type:varchar(32);primaryKey"`
	Parent string `gorm:"type:varchar(32);primaryKey"`
}

func (InheritanceRow) TableName() string {
	return "payroll_role_inheritance"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&PolicyRow{}, &InheritanceRow{})
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Policies(ctx context.Context) ([]Policy, error) {
	var rows []PolicyRow
	if err := r.db.WithContext(ctx).Order("role, resource, action").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Policy, 0, len(rows))
	for _, row := range rows {
		out = append(out, Policy{Role: row.Role, Resource: row.Resource, Action: row.Action})
	}
	return out, nil
}

func (r *repository) Inheritance(ctx context.Context) ([]Inheritance, error) {
	var rows []InheritanceRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Inheritance, 0, len(rows))
	for _, row := range rows {
		out = append(out, Inheritance{Role: row.Role, Parent: row.Parent})
	}
	return out, nil
}
