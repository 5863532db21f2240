package models

import "time"

const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// Project 工程项目，可包含多个服务工单
type Project struct {
	Base             `bson:",inline"`
	Title            string     `json:"title" gorm:"size:200;not null" bson:"title" binding:"required"`
	Description      string     `json:"description" gorm:"type:text" bson:"description"`
	Status           string     `json:"status" gorm:"size:20;index" bson:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	StartDate        *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Budget           float64    `json:"budget" gorm:"type:decimal(14,2)" bson:"budget" binding:"gte=0"`
	AmountSpent      float64    `json:"amountSpent" gorm:"type:decimal(14,2)" bson:"amountSpent" binding:"gte=0"`
	ClientID         string     `json:"clientId,omitempty" gorm:"size:20;index" bson:"clientId,omitempty"`
	LeadTechnicianID string     `json:"leadTechnicianId,omitempty" gorm:"size:20;index" bson:"leadTechnicianId,omitempty"`
	ServiceIDs       []string   `json:"serviceIds" gorm:"serializer:json" bson:"serviceIds"`

	Client         *Client         `json:"client,omitempty" gorm:"-" bson:"-" binding:"-"`
	LeadTechnician *Technician     `json:"leadTechnician,omitempty" gorm:"-" bson:"-" binding:"-"`
	Services       []ServiceRecord `json:"services,omitempty" gorm:"-" bson:"-" binding:"-"`
}

// TableName 设置表名
func (Project) TableName() string {
	return "projects"
}
