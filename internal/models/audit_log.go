package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// e.g. "product", "inbound_order"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Before/after snapshots as JSON ("null" when absent)
	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&Product{},
		&Supplier{},
		&Warehouse{},
		&Staff{},
		&InboundOrder{},
		&InboundDetail{},
		&Requisition{},
		&ReqDetail{},
		&AuditLog{},
	}
}
