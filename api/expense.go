package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nnact/repository"
	"nnact/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 支出处理器
type ExpenseHandler struct {
	svc *service.ExpenseService
}

// NewExpenseHandler 创建支出处理器
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// expenseRequest 请求体；amount 保留原始类型以便报告 "must be a number"
type expenseRequest struct {
	Category    *string     `json:"category"`
	Amount      interface{} `json:"amount"`
	Description *string     `json:"description"`
	ExpenseDate *string     `json:"expenseDate"`
}

// BulkCreateRequest 批量创建
type BulkCreateRequest struct {
	Expenses []expenseRequest `json:"expenses"`
}

// BulkDeleteRequest 批量删除
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// toInput 转换请求体，字段格式错误记录到 fields
func (r expenseRequest) toInput(prefix string, fields map[string]string) service.ExpenseInput {
	in := service.ExpenseInput{Category: r.Category, Description: r.Description}
	switch v := r.Amount.(type) {
	case nil:
	case float64:
		in.Amount = &v
	default:
		fields[prefix+"amount"] = "Amount must be a number"
	}
	if r.ExpenseDate != nil {
		t, err := parseDate(*r.ExpenseDate, false)
		if err != nil {
			fields[prefix+"expenseDate"] = "Expense date must be a valid ISO 8601 date"
		} else {
			in.ExpenseDate = &t
		}
	}
	return in
}

// parseDate 接受 RFC3339 或 YYYY-MM-DD；endOfDay 时纯日期取当天最后一刻
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// dateQuery 读取可选的日期查询参数
func dateQuery(c *gin.Context, key string, endOfDay bool, fields map[string]string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	t, err := parseDate(raw, endOfDay)
	if err != nil {
		fields[key] = key + " must be a valid ISO 8601 date"
		return nil
	}
	return &t
}

func intQuery(c *gin.Context, key string, fields map[string]string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = key + " must be an integer"
		return nil
	}
	return &n
}

func amountQuery(c *gin.Context, key string, fields map[string]string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[key] = key + " must be a number"
		return nil
	}
	if v < 0 {
		fields[key] = key + " cannot be negative"
		return nil
	}
	return &v
}

// parseFilter 列表和导出共用的过滤条件
func parseFilter(c *gin.Context, fields map[string]string) repository.ExpenseFilter {
	return repository.ExpenseFilter{
		Category:    strings.TrimSpace(c.Query("category")),
		Description: strings.TrimSpace(c.Query("description")),
		MinAmount:   amountQuery(c, "minAmount", fields),
		MaxAmount:   amountQuery(c, "maxAmount", fields),
		StartDate:   dateQuery(c, "startDate", false, fields),
		EndDate:     dateQuery(c, "endDate", true, fields),
	}
}

// Create 创建支出
// POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	fields := map[string]string{}
	in := req.toInput("", fields)
	if len(fields) > 0 {
		ValidationFailed(c, "Validation failed", fields)
		return
	}
	expense, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	Created(c, "Expense created successfully", expense)
}

// List 分页查询
// GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	fields := map[string]string{}
	q := service.ExpenseQuery{
		Filter:    parseFilter(c, fields),
		Page:      intQuery(c, "page", fields),
		Limit:     intQuery(c, "limit", fields),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if len(fields) > 0 {
		ValidationFailed(c, "Invalid query parameters", fields)
		return
	}
	result, err := h.svc.FindAll(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, result)
}

// Analytics 支出分析
// GET /expenses/analytics
func (h *ExpenseHandler) Analytics(c *gin.Context) {
	fields := map[string]string{}
	start := dateQuery(c, "startDate", false, fields)
	end := dateQuery(c, "endDate", true, fields)
	if len(fields) > 0 {
		ValidationFailed(c, "Invalid query parameters", fields)
		return
	}
	result, err := h.svc.Analytics(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, result)
}

// Categories 已使用的分类
// GET /expenses/categories
func (h *ExpenseHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, categories)
}

// Total 区间总额
// GET /expenses/total
func (h *ExpenseHandler) Total(c *gin.Context) {
	fields := map[string]string{}
	start := dateQuery(c, "startDate", false, fields)
	end := dateQuery(c, "endDate", true, fields)
	if len(fields) > 0 {
		ValidationFailed(c, "Invalid query parameters", fields)
		return
	}
	total, err := h.svc.Total(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, gin.H{"total": total})
}

// Search 按描述搜索
// GET /expenses/search?q=
func (h *ExpenseHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		ValidationFailed(c, "Search term is required", map[string]string{"q": "Search term is required"})
		return
	}
	expenses, err := h.svc.Search(c.Request.Context(), term)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, expenses)
}

// ByCategory 按分类查询
// GET /expenses/category/:category
func (h *ExpenseHandler) ByCategory(c *gin.Context) {
	expenses, err := h.svc.FindByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, expenses)
}

// DateRange 日期区间查询，两端必填
// GET /expenses/date-range
func (h *ExpenseHandler) DateRange(c *gin.Context) {
	fields := map[string]string{}
	start := dateQuery(c, "startDate", false, fields)
	end := dateQuery(c, "endDate", true, fields)
	if start == nil {
		if _, ok := fields["startDate"]; !ok {
			fields["startDate"] = "startDate is required"
		}
	}
	if end == nil {
		if _, ok := fields["endDate"]; !ok {
			fields["endDate"] = "endDate is required"
		}
	}
	if len(fields) > 0 {
		ValidationFailed(c, "Invalid query parameters", fields)
		return
	}
	expenses, err := h.svc.FindByDateRange(c.Request.Context(), *start, *end)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, expenses)
}

// Get 获取单条支出
// GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, expense)
}

// Update 修改支出，只更新提供了的字段
// PUT/PATCH /expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	fields := map[string]string{}
	in := req.toInput("", fields)
	if len(fields) > 0 {
		ValidationFailed(c, "Validation failed", fields)
		return
	}
	expense, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	SuccessWithMessage(c, "Expense updated successfully", expense)
}

// Delete 删除支出
// DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	SuccessWithMessage(c, fmt.Sprintf("Expense %s deleted successfully", id), nil)
}

// BulkCreate 批量创建
// POST /expenses/bulk
func (h *ExpenseHandler) BulkCreate(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	fields := map[string]string{}
	inputs := make([]service.ExpenseInput, 0, len(req.Expenses))
	for i, r := range req.Expenses {
		inputs = append(inputs, r.toInput(fmt.Sprintf("expenses[%d].", i), fields))
	}
	if len(fields) > 0 {
		ValidationFailed(c, "Validation failed", fields)
		return
	}
	result, err := h.svc.BulkCreate(c.Request.Context(), inputs)
	if err != nil {
		writeError(c, err)
		return
	}
	Created(c, fmt.Sprintf("%d expenses created", len(result.Created)), result)
}

// BulkDelete 批量删除
// DELETE /expenses/bulk
func (h *ExpenseHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	deleted, err := h.svc.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	SuccessWithMessage(c, fmt.Sprintf("%d expenses deleted", deleted), gin.H{"deletedCount": deleted})
}
