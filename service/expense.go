package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"nnact/models"
	"nnact/repository"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultExpensePage  = 1
	defaultExpenseLimit = 10
	maxExpenseLimit     = 100
	maxExpensePage      = 1000000
	maxCategoryLength   = 50
	maxDescriptionLen   = 500
)

// ExpenseInput 创建或修改支出的参数，nil 字段表示未提供
type ExpenseInput struct {
	Category    *string    `json:"category"`
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	ExpenseDate *time.Time `json:"expenseDate"`
}

// ExpenseQuery 分页查询参数，nil 使用默认值
type ExpenseQuery struct {
	Filter    repository.ExpenseFilter
	Page      *int
	Limit     *int
	SortBy    string
	SortOrder string
}

// PaginatedExpenses 分页结果
type PaginatedExpenses struct {
	Expenses    []models.Expense `json:"expenses"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	HasNext     bool             `json:"hasNext"`
	HasPrevious bool             `json:"hasPrevious"`
}

// BulkFailure 批量创建中写入失败的记录
type BulkFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkCreateResult 批量创建结果，每条记录独立写入
type BulkCreateResult struct {
	Created []models.Expense `json:"created"`
	Failed  []BulkFailure    `json:"failed"`
}

// ExpenseService 支出
type ExpenseService struct {
	repo  repository.ExpenseRepository
	clock clock.Clock
}

// NewExpenseService 创建支出服务
func NewExpenseService(repo repository.ExpenseRepository, clk clock.Clock) *ExpenseService {
	return &ExpenseService{repo: repo, clock: clk}
}

// Create 创建支出，未提供日期时使用当前时间
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}
	expense := s.newExpense(in)
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, errors.Annotate(err, "create expense")
	}
	logrus.WithFields(logrus.Fields{
		"id":       expense.ID,
		"category": expense.Category,
		"amount":   expense.Amount,
	}).Info("expense created")
	return expense, nil
}

// Get 获取单条支出
func (s *ExpenseService) Get(ctx context.Context, id string) (*models.Expense, error) {
	return findRequired[models.Expense](ctx, s.repo, "Expense", id)
}

// Update 只修改提供了的字段
func (s *ExpenseService) Update(ctx context.Context, id string, in ExpenseInput) (*models.Expense, error) {
	expense, err := findRequired[models.Expense](ctx, s.repo, "Expense", id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	if in.Category != nil {
		expense.Category = strings.TrimSpace(*in.Category)
	}
	if in.Amount != nil {
		expense.Amount = models.RoundMoney(*in.Amount)
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.ExpenseDate != nil {
		expense.ExpenseDate = in.ExpenseDate.UTC()
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, lookupError(err, "Expense", id)
	}
	logrus.WithField("id", id).Info("expense updated")
	return expense, nil
}

// Delete 删除支出
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "Expense", id)
	}
	logrus.WithField("id", id).Info("expense deleted")
	return nil
}

// FindAll 过滤、排序并分页
func (s *ExpenseService) FindAll(ctx context.Context, q ExpenseQuery) (*PaginatedExpenses, error) {
	page, err := resolvePage(q)
	if err != nil {
		return nil, err
	}

	expenses, total, err := s.repo.FindPage(ctx, q.Filter, page)
	if err != nil {
		return nil, errors.Annotate(err, "find expenses")
	}

	totalPages := int(math.Ceil(float64(total) / float64(page.Limit)))
	return &PaginatedExpenses{
		Expenses:    expenses,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page.Page,
		HasNext:     page.Page < totalPages,
		HasPrevious: page.Page > 1,
	}, nil
}

func resolvePage(q ExpenseQuery) (repository.ExpensePage, error) {
	verr := &ValidationError{}
	page := repository.ExpensePage{
		Page:   defaultExpensePage,
		Limit:  defaultExpenseLimit,
		SortBy: repository.SortByExpenseDate,
		Desc:   true,
	}

	if q.Page != nil {
		switch {
		case *q.Page < 1:
			verr.add("page", "Page must be at least 1")
		case *q.Page > maxExpensePage:
			// 防止 (page-1)*limit 溢出
			verr.add("page", fmt.Sprintf("Page must be at most %d", maxExpensePage))
		}
		page.Page = *q.Page
	}
	if q.Limit != nil {
		if *q.Limit < 1 || *q.Limit > maxExpenseLimit {
			verr.add("limit", fmt.Sprintf("Limit must be between 1 and %d", maxExpenseLimit))
		}
		page.Limit = *q.Limit
	}
	switch q.SortBy {
	case "":
	case repository.SortByAmount, repository.SortByExpenseDate, repository.SortByCategory:
		page.SortBy = q.SortBy
	default:
		verr.add("sortBy", "sortBy must be one of amount, expenseDate, category")
	}
	switch q.SortOrder {
	case "", "desc":
	case "asc":
		page.Desc = false
	default:
		verr.add("sortOrder", "sortOrder must be asc or desc")
	}
	return page, verr.orNil()
}

// FindByCategory 分类名包含关键字（不区分大小写）
func (s *ExpenseService) FindByCategory(ctx context.Context, category string) ([]models.Expense, error) {
	expenses, err := s.repo.Find(ctx, repository.ExpenseFilter{Category: category})
	return expenses, errors.Trace(err)
}

// FindByDateRange 日期闭区间查询
func (s *ExpenseService) FindByDateRange(ctx context.Context, start, end time.Time) ([]models.Expense, error) {
	if end.Before(start) {
		return nil, &ValidationError{Fields: map[string]string{"endDate": "End date must not be before start date"}}
	}
	expenses, err := s.repo.Find(ctx, repository.ExpenseFilter{StartDate: &start, EndDate: &end})
	return expenses, errors.Trace(err)
}

// Total 指定区间内的支出总额，区间两端均可省略
func (s *ExpenseService) Total(ctx context.Context, start, end *time.Time) (float64, error) {
	total, err := s.repo.Sum(ctx, repository.ExpenseFilter{StartDate: start, EndDate: end})
	if err != nil {
		return 0, errors.Annotate(err, "sum expenses")
	}
	return total, nil
}

// Search 描述包含关键字（不区分大小写）
func (s *ExpenseService) Search(ctx context.Context, term string) ([]models.Expense, error) {
	expenses, err := s.repo.Find(ctx, repository.ExpenseFilter{Description: term})
	return expenses, errors.Trace(err)
}

// Categories 已使用的分类
func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	return categories, errors.Trace(err)
}

// Analytics 区间内的支出分析
func (s *ExpenseService) Analytics(ctx context.Context, start, end *time.Time) (*ExpenseAnalytics, error) {
	records, err := s.repo.Find(ctx, repository.ExpenseFilter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, errors.Annotate(err, "load expenses for analytics")
	}
	result := Analyze(records)
	return &result, nil
}

// Export 导出符合条件的全部记录
func (s *ExpenseService) Export(ctx context.Context, filter repository.ExpenseFilter) ([]models.Expense, error) {
	expenses, err := s.repo.Find(ctx, filter)
	return expenses, errors.Trace(err)
}

// BulkCreate 先校验全部记录，任一不合法则整体拒绝；写入时逐条独立
func (s *ExpenseService) BulkCreate(ctx context.Context, inputs []ExpenseInput) (*BulkCreateResult, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"expenses": "At least one expense is required"}}
	}
	for i, in := range inputs {
		if err := s.validateCreate(in); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, prefixFields(verr, fmt.Sprintf("expenses[%d].", i))
			}
			return nil, err
		}
	}

	result := &BulkCreateResult{
		Created: make([]models.Expense, 0, len(inputs)),
		Failed:  make([]BulkFailure, 0),
	}
	for i, in := range inputs {
		expense := s.newExpense(in)
		if err := s.repo.Create(ctx, expense); err != nil {
			logrus.WithError(err).WithField("index", i).Error("bulk expense insert failed")
			result.Failed = append(result.Failed, BulkFailure{Index: i, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, *expense)
	}
	logrus.WithFields(logrus.Fields{
		"created": len(result.Created),
		"failed":  len(result.Failed),
	}).Info("bulk created expenses")
	return result, nil
}

// BulkDelete 任一 ID 格式非法时不删除任何记录
func (s *ExpenseService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Fields: map[string]string{"ids": "At least one expense ID is required"}}
	}
	for _, id := range ids {
		if !models.ValidID(id) {
			return 0, errors.NewNotValid(nil, "Some expense IDs are invalid")
		}
	}
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, errors.Annotate(err, "bulk delete expenses")
	}
	logrus.WithField("deleted", n).Info("bulk deleted expenses")
	return n, nil
}

func (s *ExpenseService) newExpense(in ExpenseInput) *models.Expense {
	expense := &models.Expense{
		Category:    strings.TrimSpace(*in.Category),
		Amount:      models.RoundMoney(*in.Amount),
		ExpenseDate: s.clock.Now().UTC(),
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.ExpenseDate != nil {
		expense.ExpenseDate = in.ExpenseDate.UTC()
	}
	return expense
}

func (s *ExpenseService) validateCreate(in ExpenseInput) error {
	verr := &ValidationError{}
	if in.Category == nil {
		verr.add("category", "Category is required")
	}
	if in.Amount == nil {
		verr.add("amount", "Amount is required")
	}
	if err := s.validate(in); err != nil {
		var fields *ValidationError
		if errors.As(err, &fields) {
			for k, v := range fields.Fields {
				verr.add(k, v)
			}
		}
	}
	return verr.orNil()
}

// validate 校验已提供的字段
func (s *ExpenseService) validate(in ExpenseInput) error {
	verr := &ValidationError{}
	if in.Amount != nil {
		amount := *in.Amount
		switch {
		case math.IsNaN(amount) || math.IsInf(amount, 0):
			verr.add("amount", "Amount must be a number")
		case amount < 0:
			verr.add("amount", "Amount cannot be negative")
		case models.RoundMoney(amount) > models.MaxExpenseAmount:
			verr.add("amount", "Amount cannot exceed 999,999.99")
		}
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			verr.add("category", "Category cannot be empty")
		} else if utf8.RuneCountInString(category) > maxCategoryLength {
			verr.add("category", "Category cannot exceed 50 characters")
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		verr.add("description", "Description cannot exceed 500 characters")
	}
	if in.ExpenseDate != nil && in.ExpenseDate.After(s.clock.Now()) {
		verr.add("expenseDate", "Expense date cannot be in the future")
	}
	return verr.orNil()
}

func prefixFields(verr *ValidationError, prefix string) *ValidationError {
	out := &ValidationError{}
	for k, v := range verr.Fields {
		out.add(prefix+k, v)
	}
	return out
}
