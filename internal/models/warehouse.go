package models

type Warehouse struct {
	ID       uint    `gorm:"column:warehouse_id;primaryKey" json:"WarehouseID"`
	Name     string  `gorm:"column:wa_name;size:100;not null" json:"waName"`
	Location *string `gorm:"column:wa_location;size:255" json:"waLocation"`
}

func (Warehouse) TableName() string {
	return "warehouse"
}
