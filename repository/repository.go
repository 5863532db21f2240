package repository

import (
	"context"
	"time"

	"nnact/models"

	"github.com/juju/errors"
)

var (
	// ErrNotFound 记录不存在，或 ID 格式非法
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一索引
	ErrDuplicate = errors.New("duplicate key")
)

// CRUD 单实体的通用读写
type CRUD[T any] interface {
	Create(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	// FindByIDs 忽略不存在或格式非法的 ID
	FindByIDs(ctx context.Context, ids []string) ([]T, error)
	FindAll(ctx context.Context) ([]T, error)
	// Update 整体覆盖已存在的记录，保留 ID 和创建时间
	Update(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id string) error
}

type (
	ClientRepository     = CRUD[models.Client]
	TechnicianRepository = CRUD[models.Technician]
	PartRepository       = CRUD[models.Part]
	PaymentRepository    = CRUD[models.Payment]
	FeedbackRepository   = CRUD[models.Feedback]
	ProjectRepository    = CRUD[models.Project]
)

// ServiceRecordRepository 服务工单
type ServiceRecordRepository interface {
	CRUD[models.ServiceRecord]
	// LatestServiceNumber 返回形如 prefix-NNNN 的最大单号，没有时返回空串
	LatestServiceNumber(ctx context.Context, prefix string) (string, error)
	// ServiceTypes 返回已使用过的服务类型（去重）
	ServiceTypes(ctx context.Context) ([]string, error)
}

// ServiceRequestRepository 服务预约
type ServiceRequestRepository interface {
	CRUD[models.ServiceRequest]
	FindByPreferredDate(ctx context.Context, date string) ([]models.ServiceRequest, error)
}

// UserRepository 用户
type UserRepository interface {
	CRUD[models.User]
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
}

// ExpenseFilter 支出查询条件，零值字段不参与过滤
type ExpenseFilter struct {
	Category    string
	Description string
	MinAmount   *float64
	MaxAmount   *float64
	StartDate   *time.Time
	EndDate     *time.Time
}

const (
	SortByAmount      = "amount"
	SortByExpenseDate = "expenseDate"
	SortByCategory    = "category"
)

// ExpensePage 分页和排序
type ExpensePage struct {
	Page   int
	Limit  int
	SortBy string
	Desc   bool
}

// ExpenseRepository 支出
type ExpenseRepository interface {
	CRUD[models.Expense]
	// Find 按 expenseDate 倒序返回全部匹配记录
	Find(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	FindPage(ctx context.Context, filter ExpenseFilter, page ExpensePage) ([]models.Expense, int64, error)
	Sum(ctx context.Context, filter ExpenseFilter) (float64, error)
	Categories(ctx context.Context) ([]string, error)
	// DeleteMany 删除给定 ID 的记录，返回实际删除的数量
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// Repositories 所有仓储的集合，在进程启动时按配置选择存储实现
type Repositories struct {
	Clients         ClientRepository
	Technicians     TechnicianRepository
	Services        ServiceRecordRepository
	Parts           PartRepository
	Payments        PaymentRepository
	Feedback        FeedbackRepository
	Projects        ProjectRepository
	ServiceRequests ServiceRequestRepository
	Expenses        ExpenseRepository
	Users           UserRepository
}
