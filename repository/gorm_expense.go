package repository

import (
	"context"
	"strings"

	"nnact/models"

	"gorm.io/gorm"
)

var gormExpenseSortColumns = map[string]string{
	SortByAmount:      "amount",
	SortByExpenseDate: "expense_date",
	SortByCategory:    "category",
}

type gormExpenseRepository struct {
	*gormCRUD[models.Expense, *models.Expense]
}

func (r *gormExpenseRepository) Find(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	list := make([]models.Expense, 0)
	err := r.db.WithContext(ctx).
		Scopes(gormExpenseScope(filter)).
		Order("expense_date DESC").
		Find(&list).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return list, nil
}

func (r *gormExpenseRepository) FindPage(ctx context.Context, filter ExpenseFilter, page ExpensePage) ([]models.Expense, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Expense{}).Scopes(gormExpenseScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, translateGormError(err)
	}

	column, ok := gormExpenseSortColumns[page.SortBy]
	if !ok {
		column = "expense_date"
	}
	direction := " ASC"
	if page.Desc {
		direction = " DESC"
	}

	list := make([]models.Expense, 0, page.Limit)
	err := r.db.WithContext(ctx).
		Scopes(gormExpenseScope(filter)).
		Order(column + direction).
		Order("id").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, translateGormError(err)
	}
	return list, total, nil
}

func (r *gormExpenseRepository) Sum(ctx context.Context, filter ExpenseFilter) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Scopes(gormExpenseScope(filter)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translateGormError(err)
	}
	return models.RoundMoney(total), nil
}

func (r *gormExpenseRepository) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Distinct("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return categories, nil
}

func (r *gormExpenseRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	valid := validIDs(ids)
	if len(valid) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", valid).Delete(&models.Expense{})
	if res.Error != nil {
		return 0, translateGormError(res.Error)
	}
	return res.RowsAffected, nil
}

func gormExpenseScope(f ExpenseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != "" {
			db = db.Where("LOWER(category) LIKE ?", likeContains(f.Category))
		}
		if f.Description != "" {
			db = db.Where("LOWER(description) LIKE ?", likeContains(f.Description))
		}
		if f.MinAmount != nil {
			db = db.Where("amount >= ?", *f.MinAmount)
		}
		if f.MaxAmount != nil {
			db = db.Where("amount <= ?", *f.MaxAmount)
		}
		if f.StartDate != nil {
			db = db.Where("expense_date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("expense_date <= ?", *f.EndDate)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains 生成大小写不敏感的子串匹配模式，转义 LIKE 通配符
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
