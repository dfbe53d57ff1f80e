package models

// Requisition: stock withdrawn by a staff member for a stated reason.
type Requisition struct {
	ReqID   uint   `gorm:"column:req_id;primaryKey" json:"ReqID"`
	Date    Date   `gorm:"column:re_date;index;not null" json:"reDate"`
	Reason  string `gorm:"column:re_reason;size:255;not null" json:"reReason"`
	StaffID uint   `gorm:"column:staff_id;index;not null" json:"StaffID"`

	Staff   *Staff      `gorm:"foreignKey:StaffID;constraint:OnDelete:RESTRICT" json:"staff,omitempty"`
	Details []ReqDetail `gorm:"foreignKey:ReqID;references:ReqID;constraint:OnDelete:CASCADE" json:"details"`
}

func (Requisition) TableName() string {
	return "requisition"
}

// ReqDetail: one product line of a requisition, keyed by (ReqID, ProductID).
type ReqDetail struct {
	ReqID       uint `gorm:"column:req_id;primaryKey;autoIncrement:false" json:"ReqID"`
	ProductID   uint `gorm:"column:product_id;primaryKey;autoIncrement:false" json:"ProductID"`
	Quantity    int  `gorm:"column:rd_quantity;not null" json:"rdQuantity"`
	WarehouseID uint `gorm:"column:warehouse_id;index;not null" json:"WarehouseID"`

	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:RESTRICT" json:"warehouse,omitempty"`
}

func (ReqDetail) TableName() string {
	return "reqdetail"
}
