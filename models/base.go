package models

import (
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

// MaxExpenseAmount 单笔支出上限
const MaxExpenseAmount = 999999.99

// Base 所有记录共有的字段，ID 为 xid 字符串，MySQL 和 MongoDB 通用
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;size:20" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Meta 返回公共字段，供仓储层泛型使用
func (b *Base) Meta() *Base {
	return b
}

// Document 可持久化的记录
type Document interface {
	Meta() *Base
}

// NewID 生成新的记录 ID
func NewID() string {
	return xid.New().String()
}

// ValidID 判断 ID 格式是否合法
func ValidID(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

// RoundMoney 金额保留两位小数，四舍五入（10.005 -> 10.01）
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
