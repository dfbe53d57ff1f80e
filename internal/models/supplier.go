package models

type Supplier struct {
	ID      uint   `gorm:"column:supplier_id;primaryKey" json:"SupplierID"`
	Name    string `gorm:"column:su_name;size:200;not null" json:"suName"`
	Phone   string `gorm:"column:su_phone;size:50;not null" json:"suPhone"`
	Address string `gorm:"column:su_address;size:255;not null" json:"suAddress"`
}

func (Supplier) TableName() string {
	return "supplier"
}
