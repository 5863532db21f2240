package repository

import (
	"context"
	"regexp"
	"time"

	"nnact/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// NewGormRepositories 基于 gorm (MySQL) 构建全部仓储
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Clients:         newGormCRUD[models.Client](db, "created_at DESC"),
		Technicians:     newGormCRUD[models.Technician](db, "created_at DESC"),
		Services:        &gormServiceRecordRepository{newGormCRUD[models.ServiceRecord](db, "created_at DESC")},
		Parts:           newGormCRUD[models.Part](db, "created_at DESC"),
		Payments:        newGormCRUD[models.Payment](db, "paid_at DESC"),
		Feedback:        newGormCRUD[models.Feedback](db, "feedback_date DESC"),
		Projects:        newGormCRUD[models.Project](db, "created_at DESC"),
		ServiceRequests: &gormServiceRequestRepository{newGormCRUD[models.ServiceRequest](db, "created_at DESC")},
		Expenses:        &gormExpenseRepository{newGormCRUD[models.Expense](db, "expense_date DESC")},
		Users:           &gormUserRepository{newGormCRUD[models.User](db, "created_at DESC")},
	}
}

type gormCRUD[T any, PT interface {
	*T
	models.Document
}] struct {
	db    *gorm.DB
	order string
}

func newGormCRUD[T any, PT interface {
	*T
	models.Document
}](db *gorm.DB, order string) *gormCRUD[T, PT] {
	return &gormCRUD[T, PT]{db: db, order: order}
}

func (r *gormCRUD[T, PT]) Create(ctx context.Context, doc *T) error {
	// ID 和时间戳一律由服务端生成，忽略请求体中的值
	meta := PT(doc).Meta()
	meta.ID = models.NewID()
	meta.CreatedAt, meta.UpdatedAt = time.Time{}, time.Time{}
	return translateGormError(r.db.WithContext(ctx).Create(doc).Error)
}

func (r *gormCRUD[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	if !models.ValidID(id) {
		return nil, ErrNotFound
	}
	var doc T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &doc, nil
}

func (r *gormCRUD[T, PT]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	docs := make([]T, 0, len(ids))
	valid := validIDs(ids)
	if len(valid) == 0 {
		return docs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&docs).Error; err != nil {
		return nil, translateGormError(err)
	}
	return docs, nil
}

func (r *gormCRUD[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	docs := make([]T, 0)
	if err := r.db.WithContext(ctx).Order(r.order).Find(&docs).Error; err != nil {
		return nil, translateGormError(err)
	}
	return docs, nil
}

func (r *gormCRUD[T, PT]) Update(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	if !models.ValidID(meta.ID) {
		return ErrNotFound
	}
	// Select("*") 让零值字段（如 false、0）也被写回
	res := r.db.WithContext(ctx).Model(doc).Select("*").Omit("id", "created_at").Updates(doc)
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCRUD[T, PT]) Delete(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormServiceRecordRepository struct {
	*gormCRUD[models.ServiceRecord, *models.ServiceRecord]
}

func (r *gormServiceRecordRepository) LatestServiceNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.ServiceRecord{}).
		Where("service_number REGEXP ?", serviceNumberPattern(prefix)).
		Order("service_number DESC").
		Limit(1).
		Pluck("service_number", &numbers).Error
	if err != nil {
		return "", translateGormError(err)
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *gormServiceRecordRepository) ServiceTypes(ctx context.Context) ([]string, error) {
	types := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.ServiceRecord{}).
		Distinct("service_type").
		Pluck("service_type", &types).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return types, nil
}

type gormServiceRequestRepository struct {
	*gormCRUD[models.ServiceRequest, *models.ServiceRequest]
}

func (r *gormServiceRequestRepository) FindByPreferredDate(ctx context.Context, date string) ([]models.ServiceRequest, error) {
	list := make([]models.ServiceRequest, 0)
	err := r.db.WithContext(ctx).Where("preferred_date = ?", date).Order("created_at").Find(&list).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return list, nil
}

type gormUserRepository struct {
	*gormCRUD[models.User, *models.User]
}

func (r *gormUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

func translateGormError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return errors.Trace(err)
}

func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if models.ValidID(id) {
			valid = append(valid, id)
		}
	}
	return valid
}

// serviceNumberPattern 匹配 prefix-NNNN，两种存储共用
func serviceNumberPattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix) + "-[0-9]{4}$"
}
