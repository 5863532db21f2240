package service

import (
	"fmt"
	"testing"
	"time"

	"nnact/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseAt(category string, amount float64, date time.Time) models.Expense {
	return models.Expense{
		Base:        models.Base{ID: models.NewID()},
		Category:    category,
		Amount:      models.RoundMoney(amount),
		ExpenseDate: date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)
	assert.Zero(t, a.TotalExpenses)
	assert.Zero(t, a.AverageExpense)
	assert.NotNil(t, a.CategoryBreakdown)
	assert.Empty(t, a.CategoryBreakdown)
	assert.NotNil(t, a.MonthlyTrends)
	assert.Empty(t, a.MonthlyTrends)
	assert.NotNil(t, a.TopExpenses)
	assert.Empty(t, a.TopExpenses)
}

func TestAnalyzeRoundsHalfUp(t *testing.T) {
	records := []models.Expense{
		expenseAt("Fuel", 10.005, day(2025, 1, 3)),
		expenseAt("Fuel", 20.004, day(2025, 1, 4)),
	}
	assert.Equal(t, 10.01, records[0].Amount)
	assert.Equal(t, 20.00, records[1].Amount)

	a := Analyze(records)
	require.Len(t, a.CategoryBreakdown, 1)
	assert.Equal(t, CategoryTotal{Category: "Fuel", Total: 30.01, Count: 2}, a.CategoryBreakdown[0])
	assert.Equal(t, 30.01, a.TotalExpenses)
	assert.Equal(t, 15.01, a.AverageExpense)
}

func TestAnalyzeBreakdownAndTrends(t *testing.T) {
	records := []models.Expense{
		expenseAt("Transport", 0.1, day(2025, 3, 1)),
		expenseAt("Fuel", 45.5, day(2025, 2, 28)),
		expenseAt("Data", 0.2, day(2025, 2, 10)),
		expenseAt("Fuel", 12.35, day(2025, 1, 31)),
		expenseAt("Transport", 0.7, day(2024, 12, 24)),
	}
	a := Analyze(records)

	assert.Equal(t, 58.85, a.TotalExpenses)
	assert.Equal(t, 11.77, a.AverageExpense)

	require.Len(t, a.CategoryBreakdown, 3)
	assert.Equal(t, "Fuel", a.CategoryBreakdown[0].Category)
	assert.Equal(t, 57.85, a.CategoryBreakdown[0].Total)
	assert.Equal(t, "Transport", a.CategoryBreakdown[1].Category)
	assert.Equal(t, 0.8, a.CategoryBreakdown[1].Total)
	assert.Equal(t, "Data", a.CategoryBreakdown[2].Category)

	months := make([]string, 0, len(a.MonthlyTrends))
	for _, m := range a.MonthlyTrends {
		months = append(months, m.Month)
	}
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02", "2025-03"}, months)
	assert.Equal(t, MonthlyTotal{Month: "2025-02", Total: 45.7, Count: 2}, a.MonthlyTrends[2])

	// 分类合计与月度合计都等于总额（精确到分）
	catSum, monthSum := decimal.Zero, decimal.Zero
	for _, c := range a.CategoryBreakdown {
		catSum = catSum.Add(decimal.NewFromFloat(c.Total))
	}
	for _, m := range a.MonthlyTrends {
		monthSum = monthSum.Add(decimal.NewFromFloat(m.Total))
	}
	total := decimal.NewFromFloat(a.TotalExpenses)
	assert.True(t, catSum.Equal(total), "category sum %s != total %s", catSum, total)
	assert.True(t, monthSum.Equal(total), "month sum %s != total %s", monthSum, total)
}

func TestAnalyzeTopExpenses(t *testing.T) {
	var records []models.Expense
	for i := 0; i < 15; i++ {
		records = append(records, expenseAt(fmt.Sprintf("C%d", i%3), float64(i%5)*10, day(2025, 1, i+1)))
	}
	a := Analyze(records)
	require.Len(t, a.TopExpenses, 10)
	for i := 1; i < len(a.TopExpenses); i++ {
		assert.GreaterOrEqual(t, a.TopExpenses[i-1].Amount, a.TopExpenses[i].Amount)
	}
	// 金额相同时保持输入顺序
	assert.Equal(t, records[4].ID, a.TopExpenses[0].ID)
	assert.Equal(t, records[9].ID, a.TopExpenses[1].ID)
	assert.Equal(t, records[14].ID, a.TopExpenses[2].ID)
}
