package orders_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wms-backend/internal/apperr"
	"wms-backend/internal/database/dbtest"
	"wms-backend/internal/models"
	"wms-backend/internal/orders"
	"wms-backend/internal/query"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const seededInboundID = 2023120101

func newInbound(lines ...models.InboundDetail) *models.InboundOrder {
	return &models.InboundOrder{
		Date:       models.NewDate(2024, time.January, 15),
		SupplierID: 2,
		StaffID:    1,
		Details:    lines,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count %T: %v", model, err)
	}
	return n
}

func TestManager_CreateAndGet(t *testing.T) {
	db := dbtest.Seeded(t)
	m := orders.NewInbound(db)
	ctx := context.Background()

	created, err := m.Create(ctx, newInbound(
		models.InboundDetail{ProductID: 3, Quantity: 5, WarehouseID: 102},
		models.InboundDetail{ProductID: 1, Quantity: 7, WarehouseID: 101},
	))
	if err != nil {
		t.Fatalf("Failed to create inbound order: %v", err)
	}
	if created.InboundID <= seededInboundID {
		t.Errorf("Expected id greater than %d, got %d", seededInboundID, created.InboundID)
	}
	if created.Details[0].ProductID != 3 || created.Details[0].InboundID != created.InboundID {
		t.Errorf("Expected lines in insertion order tagged with the new id, got %+v", created.Details)
	}

	got, err := m.Get(ctx, created.InboundID, false)
	if err != nil {
		t.Fatalf("Failed to get inbound order: %v", err)
	}
	if got.Date.String() != "2024-01-15" || got.SupplierID != 2 || got.StaffID != 1 {
		t.Errorf("Unexpected header: %+v", got)
	}
	if len(got.Details) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(got.Details))
	}
	if got.Details[0].ProductID != 1 || got.Details[1].ProductID != 3 {
		t.Errorf("Expected lines ordered by product id, got %d then %d", got.Details[0].ProductID, got.Details[1].ProductID)
	}
	if got.Details[1].Quantity != 5 || got.Details[1].WarehouseID != 102 {
		t.Errorf("Unexpected line: %+v", got.Details[1])
	}
	if got.Supplier != nil || got.Details[0].Product != nil {
		t.Error("Expected related records only with expand")
	}
}

func TestManager_GetExpand(t *testing.T) {
	m := orders.NewInbound(dbtest.Seeded(t))

	got, err := m.Get(context.Background(), seededInboundID, true)
	if err != nil {
		t.Fatalf("Failed to get inbound order: %v", err)
	}
	if got.Supplier == nil || got.Supplier.Name != "A公司" {
		t.Errorf("Expected supplier A公司, got %+v", got.Supplier)
	}
	if got.Staff == nil || got.Staff.ID != 2 {
		t.Errorf("Expected staff 2, got %+v", got.Staff)
	}
	for _, d := range got.Details {
		if d.Product == nil || d.Warehouse == nil {
			t.Fatalf("Expected product and warehouse on line %+v", d)
		}
	}
	if got.Details[0].Warehouse.Name != "一號倉" {
		t.Errorf("Expected warehouse 一號倉, got %s", got.Details[0].Warehouse.Name)
	}
}

func TestManager_CreateValidation(t *testing.T) {
	db := dbtest.Seeded(t)
	m := orders.NewInbound(db)

	cases := map[string]*models.InboundOrder{
		"duplicate product": newInbound(
			models.InboundDetail{ProductID: 1, Quantity: 1, WarehouseID: 101},
			models.InboundDetail{ProductID: 1, Quantity: 2, WarehouseID: 102},
		),
		"zero quantity": newInbound(models.InboundDetail{ProductID: 1, Quantity: 0, WarehouseID: 101}),
		"missing warehouse": newInbound(models.InboundDetail{ProductID: 1, Quantity: 3}),
		"missing date":      {SupplierID: 1, StaffID: 1},
		"missing staff":     {Date: models.NewDate(2024, 1, 1), SupplierID: 1},
	}
	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Create(context.Background(), order)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}

	if n := countRows(t, db, &models.InboundOrder{}, ""); n != 1 {
		t.Errorf("Expected only the seeded order, got %d", n)
	}
}

func TestManager_CreateMissingReferenceRollsBack(t *testing.T) {
	db := dbtest.Seeded(t)
	m := orders.NewInbound(db)
	ctx := context.Background()

	order := newInbound(
		models.InboundDetail{ProductID: 1, Quantity: 1, WarehouseID: 101},
		models.InboundDetail{ProductID: 99, Quantity: 1, WarehouseID: 101},
	)
	_, err := m.Create(ctx, order)
	var ref *apperr.ReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("Expected ReferenceError, got %v", err)
	}
	if err.Error() != "Product 99 does not exist" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	bad := newInbound(models.InboundDetail{ProductID: 1, Quantity: 1, WarehouseID: 101})
	bad.StaffID = 42
	if _, err := m.Create(ctx, bad); !errors.As(err, &ref) {
		t.Errorf("Expected ReferenceError for unknown staff, got %v", err)
	}

	if n := countRows(t, db, &models.InboundOrder{}, ""); n != 1 {
		t.Errorf("Expected no new headers after failed create, got %d", n)
	}
	if n := countRows(t, db, &models.InboundDetail{}, ""); n != 2 {
		t.Errorf("Expected no new lines after failed create, got %d", n)
	}
	if n := countRows(t, db, &models.AuditLog{}, ""); n != 0 {
		t.Errorf("Expected no audit logs after failed create, got %d", n)
	}
}

func TestManager_UpdateReplacesLines(t *testing.T) {
	db := dbtest.Seeded(t)
	m := orders.NewInbound(db)
	ctx := context.Background()

	replacement := newInbound(models.InboundDetail{ProductID: 3, Quantity: 9, WarehouseID: 103})
	updated, err := m.Update(ctx, seededInboundID, replacement)
	if err != nil {
		t.Fatalf("Failed to update inbound order: %v", err)
	}
	if updated.InboundID != seededInboundID {
		t.Errorf("Expected id %d, got %d", seededInboundID, updated.InboundID)
	}

	got, err := m.Get(ctx, seededInboundID, false)
	if err != nil {
		t.Fatalf("Failed to get inbound order: %v", err)
	}
	if got.SupplierID != 2 || got.StaffID != 1 || got.Date.String() != "2024-01-15" {
		t.Errorf("Expected header fields overwritten, got %+v", got)
	}
	if len(got.Details) != 1 || got.Details[0].ProductID != 3 || got.Details[0].Quantity != 9 {
		t.Errorf("Expected exactly the replacement line, got %+v", got.Details)
	}
	if n := countRows(t, db, &models.InboundDetail{}, "inbound_id = ?", seededInboundID); n != 1 {
		t.Errorf("Expected 1 stored line, got %d", n)
	}
}

func TestManager_UpdateMissing(t *testing.T) {
	m := orders.NewRequisitions(dbtest.Seeded(t))

	_, err := m.Update(context.Background(), 777, &models.Requisition{
		Date:    models.NewDate(2024, 2, 1),
		Reason:  "repairs",
		StaffID: 1,
	})
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if err.Error() != "Requisition not found" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestManager_DeleteCascades(t *testing.T) {
	db := dbtest.Seeded(t)
	m := orders.NewInbound(db)
	ctx := context.Background()

	if err := m.Delete(ctx, seededInboundID); err != nil {
		t.Fatalf("Failed to delete inbound order: %v", err)
	}

	_, err := m.Get(ctx, seededInboundID, false)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}
	if n := countRows(t, db, &models.InboundDetail{}, "inbound_id = ?", seededInboundID); n != 0 {
		t.Errorf("Expected no orphan lines, got %d", n)
	}
	if err := m.Delete(ctx, seededInboundID); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError deleting twice, got %v", err)
	}
	if n := countRows(t, db, &models.AuditLog{}, "action = ?", models.AuditActionDelete); n != 1 {
		t.Errorf("Expected 1 delete audit log, got %d", n)
	}
}

func TestManager_ListPaging(t *testing.T) {
	m := orders.NewRequisitions(dbtest.Seeded(t))
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		_, err := m.Create(ctx, &models.Requisition{
			Date:    models.NewDate(2024, 3, 1+i%2),
			Reason:  fmt.Sprintf("Line maintenance %02d", i),
			StaffID: 3,
			Details: []models.ReqDetail{{ProductID: uint(1 + i%3), Quantity: i, WarehouseID: 102}},
		})
		if err != nil {
			t.Fatalf("Failed to create requisition %d: %v", i, err)
		}
	}

	first, err := m.List(ctx, query.Filter{Page: query.Page{Skip: 0, Limit: 10}})
	if err != nil {
		t.Fatalf("Failed to list requisitions: %v", err)
	}
	second, err := m.List(ctx, query.Filter{Page: query.Page{Skip: 10, Limit: 10}})
	if err != nil {
		t.Fatalf("Failed to list requisitions: %v", err)
	}
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("Expected two pages of 10, got %d and %d", len(first), len(second))
	}

	seen := map[uint]bool{}
	prev := first[0].ReqID + 1
	for _, r := range append(first, second...) {
		if seen[r.ReqID] {
			t.Errorf("Requisition %d appears on both pages", r.ReqID)
		}
		seen[r.ReqID] = true
		if r.ReqID >= prev {
			t.Errorf("Expected descending ids, got %d after %d", r.ReqID, prev)
		}
		prev = r.ReqID
		if len(r.Details) != 1 {
			t.Errorf("Expected lines loaded for requisition %d, got %d", r.ReqID, len(r.Details))
		}
	}

	all, err := m.List(ctx, query.Filter{Page: query.Page{Limit: 0}})
	if err != nil {
		t.Fatalf("Failed to list requisitions: %v", err)
	}
	if len(all) != 25 {
		t.Errorf("Expected 25 requisitions without limit, got %d", len(all))
	}
}

func TestManager_ListFilters(t *testing.T) {
	m := orders.NewRequisitions(dbtest.Seeded(t))
	ctx := context.Background()

	inputs := []*models.Requisition{
		{Date: models.NewDate(2024, 5, 1), Reason: "Office supplies", StaffID: 1},
		{Date: models.NewDate(2024, 5, 2), Reason: "Factory repair", StaffID: 2},
		{Date: models.NewDate(2024, 5, 2), Reason: "100% refund_batch", StaffID: 2},
	}
	for _, r := range inputs {
		if _, err := m.Create(ctx, r); err != nil {
			t.Fatalf("Failed to create requisition: %v", err)
		}
	}

	day := models.NewDate(2024, 5, 2)
	byDate, err := m.List(ctx, query.Filter{Page: query.Page{Limit: 10}, Date: &day})
	if err != nil {
		t.Fatalf("Failed to filter by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Errorf("Expected 2 requisitions on 2024-05-02, got %d", len(byDate))
	}

	byReason, err := m.List(ctx, query.Filter{Page: query.Page{Limit: 10}, Q: "REPAIR"})
	if err != nil {
		t.Fatalf("Failed to search requisitions: %v", err)
	}
	if len(byReason) != 1 || byReason[0].Reason != "Factory repair" {
		t.Errorf("Expected Factory repair, got %+v", byReason)
	}

	literal, err := m.List(ctx, query.Filter{Page: query.Page{Limit: 10}, Q: "0% r"})
	if err != nil {
		t.Fatalf("Failed to search requisitions: %v", err)
	}
	if len(literal) != 1 {
		t.Errorf("Expected wildcard characters to match literally, got %d hits", len(literal))
	}

	if byReason[0].Details == nil {
		t.Error("Expected empty, non-nil details")
	}
}

func TestManager_SearchInboundByID(t *testing.T) {
	m := orders.NewInbound(dbtest.Seeded(t))

	hits, err := m.List(context.Background(), query.Filter{Page: query.Page{Limit: 10}, Q: "20231201"})
	if err != nil {
		t.Fatalf("Failed to search inbound orders: %v", err)
	}
	if len(hits) != 1 || hits[0].InboundID != seededInboundID {
		t.Errorf("Expected seeded order, got %+v", hits)
	}
}

func TestManager_Export(t *testing.T) {
	m := orders.NewInbound(dbtest.Seeded(t))
	ctx := context.Background()

	if _, err := m.Create(ctx, newInbound()); err != nil {
		t.Fatalf("Failed to create inbound order: %v", err)
	}

	buf, err := m.Export(ctx, query.Filter{})
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}

	xl, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer xl.Close()

	rows, err := xl.GetRows("Inbound")
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	// header, one row for the empty order, two for the seeded order
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "InboundID" || rows[0][4] != "ProductID" {
		t.Errorf("Unexpected header row %v", rows[0])
	}
	last := rows[3]
	if last[0] != "2023120101" || last[3] != "A公司" || last[5] != "機械鍵盤" {
		t.Errorf("Unexpected line row %v", last)
	}
}
