package models

import "time"

// Feedback 客户评价
type Feedback struct {
	Base         `bson:",inline"`
	Rating       int       `json:"rating" bson:"rating" binding:"required,min=1,max=5"`
	Comment      string    `json:"comment" gorm:"type:text" bson:"comment"`
	Referral     bool      `json:"referral" bson:"referral"`
	FeedbackDate time.Time `json:"feedbackDate" gorm:"index" bson:"feedbackDate"`
	ClientID     string    `json:"clientId" gorm:"size:20;index;not null" bson:"clientId" binding:"required"`
	ServiceID    string    `json:"serviceId" gorm:"size:20;index;not null" bson:"serviceId" binding:"required"`

	Client  *Client        `json:"client,omitempty" gorm:"-" bson:"-" binding:"-"`
	Service *ServiceRecord `json:"service,omitempty" gorm:"-" bson:"-" binding:"-"`
}

// TableName 设置表名
func (Feedback) TableName() string {
	return "feedback"
}
