package models

import "time"

// Payment 收款记录
type Payment struct {
	Base          `bson:",inline"`
	PaymentMethod string    `json:"paymentMethod" gorm:"size:50;not null" bson:"paymentMethod" binding:"required"`
	Amount        float64   `json:"amount" gorm:"type:decimal(12,2);not null" bson:"amount" binding:"gte=0"`
	Notes         string    `json:"notes" gorm:"type:text" bson:"notes"`
	PaidAt        time.Time `json:"paidAt" gorm:"index" bson:"paidAt"`
	ClientID      string    `json:"clientId" gorm:"size:20;index;not null" bson:"clientId" binding:"required"`
	ServiceID     string    `json:"serviceId" gorm:"size:20;index;not null" bson:"serviceId" binding:"required"`

	Client  *Client        `json:"client,omitempty" gorm:"-" bson:"-" binding:"-"`
	Service *ServiceRecord `json:"service,omitempty" gorm:"-" bson:"-" binding:"-"`
}

// TableName 设置表名
func (Payment) TableName() string {
	return "payments"
}
