package models

const (
	RequestStatusPending    = "pending"
	RequestStatusInProgress = "in-progress"
	RequestStatusCompleted  = "completed"
	RequestStatusCancelled  = "cancelled"
)

// ServiceRequest 官网提交的上门服务预约
type ServiceRequest struct {
	Base          `bson:",inline"`
	CustomerName  string `json:"customerName" gorm:"size:150;not null" bson:"customerName" binding:"required"`
	ServiceType   string `json:"serviceType" gorm:"size:100;not null" bson:"serviceType" binding:"required"`
	Description   string `json:"description" gorm:"type:text" bson:"description" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" gorm:"size:30;not null" bson:"phoneNumber" binding:"required"`
	Email         string `json:"email" gorm:"size:191;not null" bson:"email" binding:"required,email"`
	Urgency       string `json:"urgency" gorm:"size:10" bson:"urgency" binding:"required,oneof=low medium high"`
	PreferredDate string `json:"preferredDate" gorm:"size:10;index" bson:"preferredDate" binding:"required,isodate"`
	PreferredTime string `json:"preferredTime" gorm:"size:5" bson:"preferredTime" binding:"required,hhmm"`
	Address       string `json:"address" gorm:"size:255;not null" bson:"address" binding:"required"`
	Status        string `json:"status" gorm:"size:20;index" bson:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
	ScheduledDate string `json:"scheduledDate,omitempty" gorm:"size:10" bson:"scheduledDate,omitempty" binding:"omitempty,isodate"`
	ScheduledTime string `json:"scheduledTime,omitempty" gorm:"size:5" bson:"scheduledTime,omitempty" binding:"omitempty,hhmm"`
}

// TableName 设置表名
func (ServiceRequest) TableName() string {
	return "service_requests"
}
