package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory is the closed set of expense kinds
type ExpenseCategory string

const (
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseElectricity ExpenseCategory = "Electricity"
	ExpenseWater       ExpenseCategory = "Water"
	ExpenseInternet    ExpenseCategory = "Internet"
	ExpenseCleaning    ExpenseCategory = "Cleaning"
	ExpenseSalary      ExpenseCategory = "Salary"
	ExpenseRepairs     ExpenseCategory = "Repairs"
	ExpenseSupplies    ExpenseCategory = "Supplies"
	ExpenseTaxes       ExpenseCategory = "Taxes"
	ExpenseOther       ExpenseCategory = "Other"
)

// ExpenseCategories lists every category in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseMaintenance, ExpenseElectricity, ExpenseWater, ExpenseInternet, ExpenseCleaning,
	ExpenseSalary, ExpenseRepairs, ExpenseSupplies, ExpenseTaxes, ExpenseOther,
}

// Valid reports whether c is a known category
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is money spent on a building
type Expense struct {
	ID          string
	BuildingID  string
	AdminID     string
	Category    ExpenseCategory
	Amount      decimal.Decimal
	Description string
	Month       int
	Year        int
	ExpenseDate time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseFilter narrows expense listings. Zero values mean "any".
type ExpenseFilter struct {
	BuildingIDs []string
	AdminID     string
	Month       int
	Year        int
	From        time.Time // inclusive, on ExpenseDate
	To          time.Time // exclusive, on ExpenseDate
}

// ExpenseRepository defines data access for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]*Expense, error)
	Delete(ctx context.Context, id string) error
}
