package models

const (
	ServiceStatusScheduled  = "Scheduled"
	ServiceStatusInProgress = "In Progress"
	ServiceStatusCompleted  = "Completed"
	ServiceStatusCancelled  = "Cancelled"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ServiceRecord 服务工单，对外路由为 /services
type ServiceRecord struct {
	Base          `bson:",inline"`
	ServiceNumber string  `json:"serviceNumber" gorm:"size:20;uniqueIndex;not null" bson:"serviceNumber"`
	ServiceType   string  `json:"serviceType" gorm:"size:100;index;not null" bson:"serviceType" binding:"required"`
	Description   string  `json:"description" gorm:"type:text" bson:"description" binding:"required"`
	ScheduledDate string  `json:"scheduledDate" gorm:"size:10;not null" bson:"scheduledDate" binding:"required,isodate"`
	ScheduledTime string  `json:"scheduledTime" gorm:"size:5;not null" bson:"scheduledTime" binding:"required,hhmm"`
	Priority      string  `json:"priority" gorm:"size:10" bson:"priority" binding:"omitempty,oneof=Low Medium High"`
	Status        string  `json:"status" gorm:"size:20;index" bson:"status" binding:"omitempty,oneof=Scheduled 'In Progress' Completed Cancelled"`
	EstimatedCost float64 `json:"estimatedCost" gorm:"type:decimal(12,2)" bson:"estimatedCost" binding:"gte=0"`
	Notes         string  `json:"notes" gorm:"type:text" bson:"notes"`
	ClientID      string  `json:"clientId" gorm:"size:20;index;not null" bson:"clientId" binding:"required"`
	TechnicianID  string  `json:"technicianId,omitempty" gorm:"size:20;index" bson:"technicianId,omitempty"`
	ProjectID     string  `json:"projectId,omitempty" gorm:"size:20;index" bson:"projectId,omitempty"`

	Client             *Client     `json:"client,omitempty" gorm:"-" bson:"-" binding:"-"`
	AssignedTechnician *Technician `json:"assignedTechnician,omitempty" gorm:"-" bson:"-" binding:"-"`
	Project            *Project    `json:"project,omitempty" gorm:"-" bson:"-" binding:"-"`
}

// TableName 设置表名
func (ServiceRecord) TableName() string {
	return "services"
}
