package models

// TechnicianStatusAvailable 技术员默认状态
const TechnicianStatusAvailable = "Available"

// Technician 技术员
type Technician struct {
	Base           `bson:",inline"`
	FirstName      string   `json:"firstName" gorm:"size:100;not null" bson:"firstName" binding:"required"`
	LastName       string   `json:"lastName" gorm:"size:100;not null" bson:"lastName" binding:"required"`
	Email          string   `json:"email" gorm:"size:191;uniqueIndex;not null" bson:"email" binding:"required,email"`
	Phone          string   `json:"phone" gorm:"size:30;not null" bson:"phone" binding:"required"`
	Address        string   `json:"address" gorm:"size:255" bson:"address"`
	City           string   `json:"city" gorm:"size:100" bson:"city"`
	Region         string   `json:"region" gorm:"size:100" bson:"region"`
	Specialties    []string `json:"specialties" gorm:"serializer:json" bson:"specialties"`
	Location       string   `json:"location" gorm:"size:100" bson:"location"`
	MonthlyRate    string   `json:"monthlyRate" gorm:"size:50" bson:"monthlyRate"`
	Experience     string   `json:"experience" gorm:"size:100" bson:"experience"`
	Role           string   `json:"role" gorm:"size:100;not null" bson:"role" binding:"required"`
	Certifications string   `json:"certifications" gorm:"size:255" bson:"certifications"`
	Status         string   `json:"status" gorm:"size:30" bson:"status"`
	Notes          string   `json:"notes" gorm:"type:text" bson:"notes"`
}

// TableName 设置表名
func (Technician) TableName() string {
	return "technicians"
}
