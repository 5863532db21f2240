package models

const (
	ClientStatusActive   = "Active"
	ClientStatusInactive = "Inactive"
)

// Client 客户
type Client struct {
	Base              `bson:",inline"`
	FirstName         string `json:"firstName" gorm:"size:100;not null" bson:"firstName" binding:"required"`
	LastName          string `json:"lastName" gorm:"size:100" bson:"lastName"`
	Email             string `json:"email" gorm:"size:191;uniqueIndex;not null" bson:"email" binding:"required,email"`
	Phone             string `json:"phone" gorm:"size:30;not null" bson:"phone" binding:"required"`
	Address           string `json:"address" gorm:"size:255" bson:"address"`
	City              string `json:"city" gorm:"size:100" bson:"city"`
	Region            string `json:"region" gorm:"size:100" bson:"region"`
	Notes             string `json:"notes" gorm:"type:text" bson:"notes"`
	Status            string `json:"status" gorm:"size:20" bson:"status" binding:"omitempty,oneof=Active Inactive"`
	IsInWhatsappGroup bool   `json:"isInWhatsappGroup" bson:"isInWhatsappGroup"`
	IsRepeatCustomer  bool   `json:"isRepeatCustomer" bson:"isRepeatCustomer"`
}

// TableName 设置表名
func (Client) TableName() string {
	return "clients"
}
