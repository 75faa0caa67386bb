package fixtures

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

func float64Ptr(f float64) *float64 { return &f }

// DefaultEmployees is the demo directory loaded into the in-memory store.
// The HR and Admin accounts have no salary and are skipped by payroll runs.
func DefaultEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "EMP-001", FullName: "Ayu Lestari", Role: employee.RoleEmployee, BaseSalary: float64Ptr(30000)},
		{ID: "EMP-002", FullName: "Budi Santoso", Role: employee.RoleEmployee, BaseSalary: float64Ptr(45000)},
		{ID: "EMP-003", FullName: "Citra Dewi", Role: employee.RoleEmployee, BaseSalary: float64Ptr(27500)},
		{ID: "EMP-004", FullName: "Dimas Pratama", Role: employee.RoleEmployee},
		{ID: "HR-001", FullName: "Eka Putri", Role: employee.RoleHR},
		{ID: "ADM-001", FullName: "Fajar Nugroho", Role: employee.RoleAdmin},
	}
}
