package models

import "time"

// Expense 支出记录
type Expense struct {
	Base        `bson:",inline"`
	Category    string    `json:"category" gorm:"size:50;index;not null" bson:"category"`
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2);not null" bson:"amount"`
	Description string    `json:"description,omitempty" gorm:"size:500" bson:"description,omitempty"`
	ExpenseDate time.Time `json:"expenseDate" gorm:"index;not null" bson:"expenseDate"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
