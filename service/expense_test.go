package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expenseNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newExpenseFixture() (*ExpenseService, *memExpenses) {
	repo := &memExpenses{newMemCRUD[models.Expense]()}
	return NewExpenseService(repo, testclock.NewClock(expenseNow)), repo
}

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }
func intPtr(i int) *int              { return &i }

func input(category string, amount float64) ExpenseInput {
	return ExpenseInput{Category: strPtr(category), Amount: floatPtr(amount)}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	return verr.Fields
}

func TestExpenseCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	e, err := svc.Create(ctx, ExpenseInput{
		Category:    strPtr("  Fuel "),
		Amount:      floatPtr(10.005),
		Description: strPtr("Generator diesel"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fuel", e.Category)
	assert.Equal(t, 10.01, e.Amount)
	assert.Equal(t, expenseNow, e.ExpenseDate)
	assert.True(t, models.ValidID(e.ID))
}

func TestExpenseValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newExpenseFixture()

	cases := []struct {
		name  string
		in    ExpenseInput
		field string
		msg   string
	}{
		{"negative", input("Fuel", -1), "amount", "Amount cannot be negative"},
		{"too large", input("Fuel", 1000000), "amount", "Amount cannot exceed 999,999.99"},
		{"rounds over max", input("Fuel", 999999.995), "amount", "Amount cannot exceed 999,999.99"},
		{"blank category", input("   ", 5), "category", "Category cannot be empty"},
		{"long category", input(strings.Repeat("x", 51), 5), "category", "Category cannot exceed 50 characters"},
		{"missing amount", ExpenseInput{Category: strPtr("Fuel")}, "amount", "Amount is required"},
		{"long description", ExpenseInput{Category: strPtr("Fuel"), Amount: floatPtr(1), Description: strPtr(strings.Repeat("d", 501))},
			"description", "Description cannot exceed 500 characters"},
		{"future date", ExpenseInput{Category: strPtr("Fuel"), Amount: floatPtr(1), ExpenseDate: timePtr(expenseNow.Add(time.Hour))},
			"expenseDate", "Expense date cannot be in the future"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.Equal(t, tc.msg, fieldErrors(t, err)[tc.field])
		})
	}
	assert.Equal(t, 0, repo.count())

	// 边界值可以通过
	e, err := svc.Create(ctx, input(strings.Repeat("x", 50), 999999.99))
	require.NoError(t, err)
	assert.Equal(t, 999999.99, e.Amount)
}

func TestExpenseUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	e, err := svc.Create(ctx, ExpenseInput{Category: strPtr("Data"), Amount: floatPtr(25), Description: strPtr("MTN bundle")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, ExpenseInput{Amount: floatPtr(30.125)})
	require.NoError(t, err)
	assert.Equal(t, 30.13, updated.Amount)
	assert.Equal(t, "Data", updated.Category)
	assert.Equal(t, "MTN bundle", updated.Description)

	_, err = svc.Update(ctx, e.ID, ExpenseInput{Category: strPtr("")})
	assert.Equal(t, "Category cannot be empty", fieldErrors(t, err)["category"])

	_, err = svc.Update(ctx, "bad-id", ExpenseInput{Amount: floatPtr(1)})
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Equal(t, "Expense with ID bad-id not found", err.Error())
}

func TestExpenseGetDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	e, err := svc.Create(ctx, input("Food", 12))
	require.NoError(t, err)
	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, e.ID), errors.NotFound))
	_, err = svc.Get(ctx, e.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func seedExpenses(t *testing.T, svc *ExpenseService, n int) []*models.Expense {
	t.Helper()
	out := make([]*models.Expense, 0, n)
	for i := 0; i < n; i++ {
		e, err := svc.Create(context.Background(), ExpenseInput{
			Category:    strPtr(fmt.Sprintf("Cat%d", i%3)),
			Amount:      floatPtr(float64(i + 1)),
			ExpenseDate: timePtr(expenseNow.AddDate(0, 0, -i)),
		})
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestExpenseFindAllPagination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()
	seedExpenses(t, svc, 25)

	page, err := svc.FindAll(ctx, ExpenseQuery{Page: intPtr(3), Limit: intPtr(10)})
	require.NoError(t, err)
	assert.Len(t, page.Expenses, 5)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)

	// 默认第一页、每页 10 条、按日期倒序
	first, err := svc.FindAll(ctx, ExpenseQuery{})
	require.NoError(t, err)
	require.Len(t, first.Expenses, 10)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)
	assert.Equal(t, expenseNow, first.Expenses[0].ExpenseDate)

	asc, err := svc.FindAll(ctx, ExpenseQuery{SortBy: "amount", SortOrder: "asc", Limit: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, []float64{asc.Expenses[0].Amount, asc.Expenses[1].Amount, asc.Expenses[2].Amount})

	filtered, err := svc.FindAll(ctx, ExpenseQuery{Filter: repository.ExpenseFilter{Category: "cat1", MinAmount: floatPtr(10)}})
	require.NoError(t, err)
	for _, e := range filtered.Expenses {
		assert.Equal(t, "Cat1", e.Category)
		assert.GreaterOrEqual(t, e.Amount, 10.0)
	}
}

func TestExpenseFindAllRejectsBadPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	_, err := svc.FindAll(ctx, ExpenseQuery{Page: intPtr(0)})
	assert.Contains(t, fieldErrors(t, err), "page")
	_, err = svc.FindAll(ctx, ExpenseQuery{Page: intPtr(math.MaxInt), Limit: intPtr(100)})
	assert.Equal(t, "Page must be at most 1000000", fieldErrors(t, err)["page"])
	_, err = svc.FindAll(ctx, ExpenseQuery{Limit: intPtr(101)})
	assert.Contains(t, fieldErrors(t, err), "limit")
	_, err = svc.FindAll(ctx, ExpenseQuery{SortBy: "description"})
	assert.Contains(t, fieldErrors(t, err), "sortBy")
	_, err = svc.FindAll(ctx, ExpenseQuery{SortOrder: "up"})
	assert.Contains(t, fieldErrors(t, err), "sortOrder")
}

func TestExpenseFindByDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{start, end, end.Add(time.Second), start.Add(-time.Second)} {
		_, err := svc.Create(ctx, ExpenseInput{Category: strPtr("Rent"), Amount: floatPtr(1), ExpenseDate: timePtr(d)})
		require.NoError(t, err)
	}

	got, err := svc.FindByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, end, got[0].ExpenseDate)
	assert.Equal(t, start, got[1].ExpenseDate)

	_, err = svc.FindByDateRange(ctx, end, start)
	assert.Contains(t, fieldErrors(t, err), "endDate")
}

func TestExpenseQueries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()

	_, err := svc.Create(ctx, ExpenseInput{Category: strPtr("Fuel"), Amount: floatPtr(10.005), Description: strPtr("Diesel for generator")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ExpenseInput{Category: strPtr("fuel station"), Amount: floatPtr(20.004)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ExpenseInput{Category: strPtr("Data"), Amount: floatPtr(5), Description: strPtr("Monthly bundle")})
	require.NoError(t, err)

	byCat, err := svc.FindByCategory(ctx, "FUEL")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	found, err := svc.Search(ctx, "generator")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fuel", found[0].Category)

	total, err := svc.Total(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 35.01, total)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Fuel", "fuel station", "Data"}, cats)
}

func TestExpenseAnalyticsMatchesTotal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenseFixture()
	seedExpenses(t, svc, 25)

	start := expenseNow.AddDate(0, 0, -9)
	a, err := svc.Analytics(ctx, &start, nil)
	require.NoError(t, err)
	total, err := svc.Total(ctx, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, total, a.TotalExpenses)
	assert.Equal(t, 55.0, a.TotalExpenses)

	future := expenseNow.AddDate(1, 0, 0)
	empty, err := svc.Analytics(ctx, &future, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalExpenses)
	assert.Zero(t, empty.AverageExpense)
	assert.Empty(t, empty.CategoryBreakdown)
	assert.Empty(t, empty.MonthlyTrends)
	assert.Empty(t, empty.TopExpenses)
}

func TestExpenseBulkCreate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newExpenseFixture()

	res, err := svc.BulkCreate(ctx, []ExpenseInput{input("Fuel", 10), input("Food", 5.555)})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 5.56, res.Created[1].Amount)

	// 任一记录不合法则整批拒绝
	_, err = svc.BulkCreate(ctx, []ExpenseInput{input("Fuel", 1), input("Fuel", -3)})
	assert.Equal(t, "Amount cannot be negative", fieldErrors(t, err)["expenses[1].amount"])
	assert.Equal(t, 2, repo.count())

	_, err = svc.BulkCreate(ctx, nil)
	assert.Contains(t, fieldErrors(t, err), "expenses")
}

func TestExpenseBulkCreateIsPerRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo := newExpenseFixture()
	repo.err = errors.New("write failed")

	res, err := svc.BulkCreate(ctx, []ExpenseInput{input("Fuel", 10), input("Food", 5)})
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[1].Index)
}

func TestExpenseBulkDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newExpenseFixture()
	seeded := seedExpenses(t, svc, 5)

	ids := make([]string, 0, 6)
	for _, e := range seeded {
		ids = append(ids, e.ID)
	}

	// 一个非法 ID 导致整个请求失败，不删除任何记录
	_, err := svc.BulkDelete(ctx, append(append([]string{}, ids...), "not-an-id"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotValid))
	assert.Equal(t, "Some expense IDs are invalid", err.Error())
	assert.Equal(t, 5, repo.count())

	n, err := svc.BulkDelete(ctx, append(ids[:3], models.NewID()))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 2, repo.count())
}
