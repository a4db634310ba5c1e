package services

import (
	"context"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

type ExpenseService struct {
	Repo *repositories.ExpenseRepository
}

func NewExpenseService(repo *repositories.ExpenseRepository) *ExpenseService {
	return &ExpenseService{Repo: repo}
}

func (s *ExpenseService) RecordExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Amount <= 0 {
		return &ValidationError{Op: "record expense", Reason: "amount must be positive"}
	}
	if expense.Date.IsZero() {
		expense.Date = timeutil.Now()
	}
	return s.Repo.Create(ctx, expense)
}

func (s *ExpenseService) ListExpenses(ctx context.Context, from, to *time.Time) ([]*models.Expense, error) {
	return s.Repo.List(ctx, from, to)
}

func (s *ExpenseService) MonthlySummary(ctx context.Context, year int, month time.Month) ([]*models.ExpenseSummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, timeutil.IST)
	end := start.AddDate(0, 1, 0)
	return s.Repo.SummaryByCategory(ctx, start, end)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
