package models

type Staff struct {
	ID   uint   `gorm:"column:staff_id;primaryKey" json:"StaffID"`
	Name string `gorm:"column:st_name;size:100;not null" json:"stName"`
	Dept string `gorm:"column:st_dept;size:100;not null" json:"stDept"`
}

func (Staff) TableName() string {
	return "staff"
}
