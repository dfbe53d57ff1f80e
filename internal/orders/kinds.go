package orders

import (
	"strings"

	"wms-backend/internal/apperr"
	"wms-backend/internal/models"

	"gorm.io/gorm"
)

type (
	InboundManager     = Manager[models.InboundOrder, models.InboundDetail]
	RequisitionManager = Manager[models.Requisition, models.ReqDetail]
)

var InboundKind = Kind[models.InboundOrder, models.InboundDetail]{
	Name:          "Order",
	AuditType:     "inbound_order",
	IDColumn:      "inbound_id",
	OwnerColumn:   "inbound_id",
	DateColumn:    "io_date",
	DateParam:     "io_date",
	QuantityField: "idQuantity",
	SearchExprs:   []string{"CAST(inbound_id AS TEXT)", "CAST(supplier_id AS TEXT)"},
	Expand:        []string{"Supplier", "Staff", "Details.Product", "Details.Warehouse"},

	HeaderID:    func(h *models.InboundOrder) uint { return h.InboundID },
	SetHeaderID: func(h *models.InboundOrder, id uint) { h.InboundID = id },
	Lines:       func(h *models.InboundOrder) []models.InboundDetail { return h.Details },
	SetLines:    func(h *models.InboundOrder, lines []models.InboundDetail) { h.Details = lines },
	BindLine:    func(l *models.InboundDetail, id uint) { l.InboundID = id },
	LineFields: func(l *models.InboundDetail) Line {
		return Line{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			Product:     l.Product,
			Warehouse:   l.Warehouse,
		}
	},
	ValidateHeader: func(h *models.InboundOrder) error {
		if h.Date.IsZero() {
			return apperr.Invalid("ioDate", "field required")
		}
		if h.SupplierID == 0 {
			return apperr.Invalid("SupplierID", "must be greater than 0")
		}
		if h.StaffID == 0 {
			return apperr.Invalid("StaffID", "must be greater than 0")
		}
		return nil
	},
	HeaderRefs: func(h *models.InboundOrder) []Ref {
		return []Ref{
			{Name: "Supplier", Model: &models.Supplier{}, Column: "supplier_id", ID: h.SupplierID},
			{Name: "Staff", Model: &models.Staff{}, Column: "staff_id", ID: h.StaffID},
		}
	},
	UpdateValues: func(h *models.InboundOrder) map[string]interface{} {
		return map[string]interface{}{
			"io_date":     h.Date,
			"supplier_id": h.SupplierID,
			"staff_id":    h.StaffID,
		}
	},

	SheetName:     "Inbound",
	ExportColumns: []string{"InboundID", "ioDate", "SupplierID", "Supplier"},
	ExportRow: func(h *models.InboundOrder) []interface{} {
		supplier := ""
		if h.Supplier != nil {
			supplier = h.Supplier.Name
		}
		return []interface{}{h.InboundID, h.Date.String(), h.SupplierID, supplier}
	},
}

var RequisitionKind = Kind[models.Requisition, models.ReqDetail]{
	Name:          "Requisition",
	AuditType:     "requisition",
	IDColumn:      "req_id",
	OwnerColumn:   "req_id",
	DateColumn:    "re_date",
	DateParam:     "re_date",
	QuantityField: "rdQuantity",
	SearchExprs:   []string{"CAST(req_id AS TEXT)", "re_reason"},
	Expand:        []string{"Staff", "Details.Product", "Details.Warehouse"},

	HeaderID:    func(h *models.Requisition) uint { return h.ReqID },
	SetHeaderID: func(h *models.Requisition, id uint) { h.ReqID = id },
	Lines:       func(h *models.Requisition) []models.ReqDetail { return h.Details },
	SetLines:    func(h *models.Requisition, lines []models.ReqDetail) { h.Details = lines },
	BindLine:    func(l *models.ReqDetail, id uint) { l.ReqID = id },
	LineFields: func(l *models.ReqDetail) Line {
		return Line{
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			Product:     l.Product,
			Warehouse:   l.Warehouse,
		}
	},
	ValidateHeader: func(h *models.Requisition) error {
		if h.Date.IsZero() {
			return apperr.Invalid("reDate", "field required")
		}
		if strings.TrimSpace(h.Reason) == "" {
			return apperr.Invalid("reReason", "field required")
		}
		if h.StaffID == 0 {
			return apperr.Invalid("StaffID", "must be greater than 0")
		}
		return nil
	},
	HeaderRefs: func(h *models.Requisition) []Ref {
		return []Ref{
			{Name: "Staff", Model: &models.Staff{}, Column: "staff_id", ID: h.StaffID},
		}
	},
	UpdateValues: func(h *models.Requisition) map[string]interface{} {
		return map[string]interface{}{
			"re_date":   h.Date,
			"re_reason": h.Reason,
			"staff_id":  h.StaffID,
		}
	},

	SheetName:     "Requisitions",
	ExportColumns: []string{"ReqID", "reDate", "reReason", "StaffID"},
	ExportRow: func(h *models.Requisition) []interface{} {
		return []interface{}{h.ReqID, h.Date.String(), h.Reason, h.StaffID}
	},
}

func NewInbound(db *gorm.DB) *InboundManager {
	return NewManager(db, InboundKind)
}

func NewRequisitions(db *gorm.DB) *RequisitionManager {
	return NewManager(db, RequisitionKind)
}
