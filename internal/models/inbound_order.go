package models

// InboundOrder: supplier delivery received by a staff member. Owns its
// detail lines; deleting the order deletes them.
type InboundOrder struct {
	InboundID  uint `gorm:"column:inbound_id;primaryKey" json:"InboundID"`
	Date       Date `gorm:"column:io_date;index;not null" json:"ioDate"`
	SupplierID uint `gorm:"column:supplier_id;index;not null" json:"SupplierID"`
	StaffID    uint `gorm:"column:staff_id;index;not null" json:"StaffID"`

	Supplier *Supplier      `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
	Staff    *Staff         `gorm:"foreignKey:StaffID;constraint:OnDelete:RESTRICT" json:"staff,omitempty"`
	Details  []InboundDetail `gorm:"foreignKey:InboundID;references:InboundID;constraint:OnDelete:CASCADE" json:"details"`
}

func (InboundOrder) TableName() string {
	return "inboundorder"
}

// InboundDetail: one product line of an inbound order, keyed by
// (InboundID, ProductID).
type InboundDetail struct {
	InboundID   uint `gorm:"column:inbound_id;primaryKey;autoIncrement:false" json:"InboundID"`
	ProductID   uint `gorm:"column:product_id;primaryKey;autoIncrement:false" json:"ProductID"`
	Quantity    int  `gorm:"column:id_quantity;not null" json:"idQuantity"`
	WarehouseID uint `gorm:"column:warehouse_id;index;not null" json:"WarehouseID"`

	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:RESTRICT" json:"warehouse,omitempty"`
}

func (InboundDetail) TableName() string {
	return "inbounddetail"
}
