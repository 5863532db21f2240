package models

// Part 配件库存
type Part struct {
	Base             `bson:",inline"`
	Name             string  `json:"name" gorm:"size:150;not null" bson:"name" binding:"required"`
	Quantity         int     `json:"quantity" bson:"quantity" binding:"gte=0"`
	UnitCost         float64 `json:"unitCost" gorm:"type:decimal(12,2)" bson:"unitCost" binding:"gte=0"`
	TotalCost        float64 `json:"totalCost" gorm:"type:decimal(12,2)" bson:"totalCost" binding:"gte=0"`
	SupplierInfo     string  `json:"supplierInfo" gorm:"size:255" bson:"supplierInfo"`
	UsedForServiceID string  `json:"usedForServiceId,omitempty" gorm:"size:20;index" bson:"usedForServiceId,omitempty"`

	UsedForService *ServiceRecord `json:"usedForService,omitempty" gorm:"-" bson:"-" binding:"-"`
}

// TableName 设置表名
func (Part) TableName() string {
	return "parts"
}
