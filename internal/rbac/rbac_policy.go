package rbac

import "go-payrun/internal/workflow"

const ResourcePayrollRun = "payroll_run"

const (
	ActionRead    = "read"
	ActionRun     = "run"
	ActionPreview = "preview"
	ActionConfirm = "confirm"
	ActionVoid    = "void"
	ActionEmail   = "email"
)

type Policy struct {
	Role     string
	Resource string
	Action   string
}

// Inheritance gives Role every permission of Parent.
type Inheritance struct {
	Role   string
	Parent string
}

// DefaultPolicies is the built-in permission set. Rows from the database are
// added on top of it.
func DefaultPolicies() ([]Policy, []Inheritance) {
	policies := []Policy{
		{workflow.RoleHR, ResourcePayrollRun, ActionRead},
		{workflow.RoleHR, ResourcePayrollRun, ActionRun},
		{workflow.RoleHR, ResourcePayrollRun, ActionPreview},
		{workflow.RoleHR, ResourcePayrollRun, ActionConfirm},
		{workflow.RoleHR, ResourcePayrollRun, ActionEmail},
		{workflow.RoleAdmin, ResourcePayrollRun, ActionVoid},
		{workflow.RoleAccountant, ResourcePayrollRun, ActionRead},
		{workflow.RoleAccountant, ResourcePayrollRun, ActionEmail},
	}
	inheritance := []Inheritance{
		{Role: workflow.RoleAdmin, Parent: workflow.RoleHR},
	}
	return policies, inheritance
}
