package catalog

import (
	"strings"

	"wms-backend/internal/apperr"
	"wms-backend/internal/models"
	"wms-backend/internal/patch"

	"gorm.io/gorm"
)

var (
	ProductEntity = Entity[models.Product]{
		Name:          "Product",
		AuditType:     "product",
		IDColumn:      "product_id",
		SearchColumns: []string{"pr_name", "pr_category"},
		References: []Reference{
			{Table: "inbounddetail", Column: "product_id", Label: "inbound order details"},
			{Table: "reqdetail", Column: "product_id", Label: "requisition details"},
		},
		ID:    func(p *models.Product) uint { return p.ID },
		Label: func(p *models.Product) string { return p.Name },
	}

	SupplierEntity = Entity[models.Supplier]{
		Name:          "Supplier",
		AuditType:     "supplier",
		IDColumn:      "supplier_id",
		SearchColumns: []string{"su_name"},
		References: []Reference{
			{Table: "inboundorder", Column: "supplier_id", Label: "inbound orders"},
		},
		ID:    func(s *models.Supplier) uint { return s.ID },
		Label: func(s *models.Supplier) string { return s.Name },
	}

	WarehouseEntity = Entity[models.Warehouse]{
		Name:          "Warehouse",
		AuditType:     "warehouse",
		IDColumn:      "warehouse_id",
		SearchColumns: []string{"wa_name", "wa_location"},
		References: []Reference{
			{Table: "inbounddetail", Column: "warehouse_id", Label: "inbound order details"},
			{Table: "reqdetail", Column: "warehouse_id", Label: "requisition details"},
		},
		ID:    func(w *models.Warehouse) uint { return w.ID },
		Label: func(w *models.Warehouse) string { return w.Name },
	}

	StaffEntity = Entity[models.Staff]{
		Name:          "Staff",
		AuditType:     "staff",
		IDColumn:      "staff_id",
		SearchColumns: []string{"st_name", "st_dept"},
		References: []Reference{
			{Table: "inboundorder", Column: "staff_id", Label: "inbound orders"},
			{Table: "requisition", Column: "staff_id", Label: "requisitions"},
		},
		ID:    func(s *models.Staff) uint { return s.ID },
		Label: func(s *models.Staff) string { return s.Name },
	}
)

func NewProducts(db *gorm.DB) *Repository[models.Product] {
	return NewRepository(db, ProductEntity)
}

func NewSuppliers(db *gorm.DB) *Repository[models.Supplier] {
	return NewRepository(db, SupplierEntity)
}

func NewWarehouses(db *gorm.DB) *Repository[models.Warehouse] {
	return NewRepository(db, WarehouseEntity)
}

func NewStaff(db *gorm.DB) *Repository[models.Staff] {
	return NewRepository(db, StaffEntity)
}

// Input decodes a request body. Record builds a full record for create;
// Changes lists only the columns present in the body for update. Id fields
// are not part of any input, so they can never be changed.
type Input[T any] interface {
	Record() (*T, error)
	Changes() (map[string]interface{}, error)
}

type ProductInput struct {
	Name     patch.Field[string] `json:"prName"`
	Spec     patch.Field[string] `json:"prSpec"`
	Category patch.Field[string] `json:"prCategory"`
}

func (in ProductInput) Record() (*models.Product, error) {
	name, err := required("prName", in.Name)
	if err != nil {
		return nil, err
	}
	category, err := required("prCategory", in.Category)
	if err != nil {
		return nil, err
	}
	return &models.Product{Name: name, Spec: optional(in.Spec), Category: category}, nil
}

func (in ProductInput) Changes() (map[string]interface{}, error) {
	ch := changeSet{}
	ch.required("pr_name", "prName", in.Name)
	ch.optional("pr_spec", in.Spec)
	ch.required("pr_category", "prCategory", in.Category)
	return ch.result()
}

type SupplierInput struct {
	Name    patch.Field[string] `json:"suName"`
	Phone   patch.Field[string] `json:"suPhone"`
	Address patch.Field[string] `json:"suAddress"`
}

func (in SupplierInput) Record() (*models.Supplier, error) {
	name, err := required("suName", in.Name)
	if err != nil {
		return nil, err
	}
	phone, err := required("suPhone", in.Phone)
	if err != nil {
		return nil, err
	}
	address, err := required("suAddress", in.Address)
	if err != nil {
		return nil, err
	}
	return &models.Supplier{Name: name, Phone: phone, Address: address}, nil
}

func (in SupplierInput) Changes() (map[string]interface{}, error) {
	ch := changeSet{}
	ch.required("su_name", "suName", in.Name)
	ch.required("su_phone", "suPhone", in.Phone)
	ch.required("su_address", "suAddress", in.Address)
	return ch.result()
}

type WarehouseInput struct {
	Name     patch.Field[string] `json:"waName"`
	Location patch.Field[string] `json:"waLocation"`
}

func (in WarehouseInput) Record() (*models.Warehouse, error) {
	name, err := required("waName", in.Name)
	if err != nil {
		return nil, err
	}
	return &models.Warehouse{Name: name, Location: optional(in.Location)}, nil
}

func (in WarehouseInput) Changes() (map[string]interface{}, error) {
	ch := changeSet{}
	ch.required("wa_name", "waName", in.Name)
	ch.optional("wa_location", in.Location)
	return ch.result()
}

type StaffInput struct {
	Name patch.Field[string] `json:"stName"`
	Dept patch.Field[string] `json:"stDept"`
}

func (in StaffInput) Record() (*models.Staff, error) {
	name, err := required("stName", in.Name)
	if err != nil {
		return nil, err
	}
	dept, err := required("stDept", in.Dept)
	if err != nil {
		return nil, err
	}
	return &models.Staff{Name: name, Dept: dept}, nil
}

func (in StaffInput) Changes() (map[string]interface{}, error) {
	ch := changeSet{}
	ch.required("st_name", "stName", in.Name)
	ch.required("st_dept", "stDept", in.Dept)
	return ch.result()
}

func required(field string, f patch.Field[string]) (string, error) {
	if !f.Set || f.Null {
		return "", apperr.Invalid(field, "field required")
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return "", apperr.Invalid(field, "must not be empty")
	}
	return v, nil
}

func optional(f patch.Field[string]) *string {
	if !f.Set {
		return nil
	}
	return f.Ptr()
}

// changeSet collects present fields, keeping the first validation error.
type changeSet struct {
	values map[string]interface{}
	err    error
}

func (c *changeSet) set(column string, v interface{}) {
	if c.values == nil {
		c.values = map[string]interface{}{}
	}
	c.values[column] = v
}

func (c *changeSet) required(column, field string, f patch.Field[string]) {
	if !f.Set || c.err != nil {
		return
	}
	v, err := required(field, f)
	if err != nil {
		c.err = err
		return
	}
	c.set(column, v)
}

func (c *changeSet) optional(column string, f patch.Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		c.set(column, nil)
		return
	}
	c.set(column, f.Value)
}

func (c *changeSet) result() (map[string]interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.values, nil
}
