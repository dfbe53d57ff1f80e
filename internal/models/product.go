package models

type Product struct {
	ID       uint    `gorm:"column:product_id;primaryKey" json:"ProductID"`
	Name     string  `gorm:"column:pr_name;size:100;not null" json:"prName"`
	Spec     *string `gorm:"column:pr_spec;size:255" json:"prSpec"`
	Category string  `gorm:"column:pr_category;size:100;not null" json:"prCategory"`
}

func (Product) TableName() string {
	return "product"
}
