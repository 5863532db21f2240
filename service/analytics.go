package service

import (
	"sort"

	"nnact/models"

	"github.com/shopspring/decimal"
)

// topExpenseLimit 分析结果中金额最高的记录数
const topExpenseLimit = 10

// CategoryTotal 分类汇总
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// MonthlyTotal 月度汇总，Month 格式为 YYYY-MM
type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ExpenseAnalytics 支出分析结果
type ExpenseAnalytics struct {
	TotalExpenses     float64          `json:"totalExpenses"`
	AverageExpense    float64          `json:"averageExpense"`
	CategoryBreakdown []CategoryTotal  `json:"categoryBreakdown"`
	MonthlyTrends     []MonthlyTotal   `json:"monthlyTrends"`
	TopExpenses       []models.Expense `json:"topExpenses"`
}

type bucket struct {
	total decimal.Decimal
	count int
}

// Analyze 单次遍历计算汇总。records 的顺序决定金额相同时 topExpenses 的先后
func Analyze(records []models.Expense) ExpenseAnalytics {
	total := decimal.Zero
	byCategory := make(map[string]*bucket)
	byMonth := make(map[string]*bucket)
	var categories, months []string

	for _, e := range records {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)

		c, ok := byCategory[e.Category]
		if !ok {
			c = &bucket{total: decimal.Zero}
			byCategory[e.Category] = c
			categories = append(categories, e.Category)
		}
		c.total = c.total.Add(amount)
		c.count++

		key := e.ExpenseDate.UTC().Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &bucket{total: decimal.Zero}
			byMonth[key] = m
			months = append(months, key)
		}
		m.total = m.total.Add(amount)
		m.count++
	}

	result := ExpenseAnalytics{
		CategoryBreakdown: make([]CategoryTotal, 0, len(categories)),
		MonthlyTrends:     make([]MonthlyTotal, 0, len(months)),
		TopExpenses:       topExpenses(records, topExpenseLimit),
	}
	if len(records) == 0 {
		return result
	}

	result.TotalExpenses = total.Round(2).InexactFloat64()
	result.AverageExpense = total.Div(decimal.NewFromInt(int64(len(records)))).Round(2).InexactFloat64()

	for _, name := range categories {
		b := byCategory[name]
		result.CategoryBreakdown = append(result.CategoryBreakdown, CategoryTotal{
			Category: name,
			Total:    b.total.Round(2).InexactFloat64(),
			Count:    b.count,
		})
	}
	sort.SliceStable(result.CategoryBreakdown, func(i, j int) bool {
		return result.CategoryBreakdown[i].Total > result.CategoryBreakdown[j].Total
	})

	sort.Strings(months)
	for _, key := range months {
		b := byMonth[key]
		result.MonthlyTrends = append(result.MonthlyTrends, MonthlyTotal{
			Month: key,
			Total: b.total.Round(2).InexactFloat64(),
			Count: b.count,
		})
	}
	return result
}

func topExpenses(records []models.Expense, limit int) []models.Expense {
	sorted := make([]models.Expense, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
