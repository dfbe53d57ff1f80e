package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"wms-backend/internal/apperr"
	"wms-backend/internal/catalog"
	"wms-backend/internal/database/dbtest"
	"wms-backend/internal/models"
	"wms-backend/internal/query"
)

func decodeProduct(t *testing.T, body string) catalog.ProductInput {
	t.Helper()
	var in catalog.ProductInput
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("Failed to decode product input: %v", err)
	}
	return in
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := dbtest.New(t)
	repo := catalog.NewProducts(db)
	ctx := context.Background()

	rec, err := decodeProduct(t, `{"ProductID": 99, "prName": "Headset", "prSpec": null, "prCategory": "Audio"}`).Record()
	if err != nil {
		t.Fatalf("Failed to build product: %v", err)
	}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	if rec.ID == 0 || rec.ID == 99 {
		t.Errorf("Expected storage-assigned id, got %d", rec.ID)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Failed to get product: %v", err)
	}
	if got.Name != "Headset" || got.Category != "Audio" || got.Spec != nil {
		t.Errorf("Unexpected product: %+v", got)
	}

	var logs int64
	db.Model(&models.AuditLog{}).Where("entity_type = ? AND action = ?", "product", models.AuditActionCreate).Count(&logs)
	if logs != 1 {
		t.Errorf("Expected 1 create audit log, got %d", logs)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := catalog.NewStaff(dbtest.New(t))

	_, err := repo.Get(context.Background(), 42)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
	if err.Error() != "Staff not found" {
		t.Errorf("Expected 'Staff not found', got %q", err.Error())
	}
}

func TestRepository_ListSearchAndPaging(t *testing.T) {
	db := dbtest.New(t)
	repo := catalog.NewWarehouses(db)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		loc := "Taipei"
		if i%5 == 0 {
			loc = "Kaohsiung Port"
		}
		w := &models.Warehouse{Name: fmt.Sprintf("W-%02d", i), Location: &loc}
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("Failed to create warehouse: %v", err)
		}
	}

	first, err := repo.List(ctx, query.Filter{Page: query.Page{Skip: 0, Limit: 10}})
	if err != nil {
		t.Fatalf("Failed to list warehouses: %v", err)
	}
	second, err := repo.List(ctx, query.Filter{Page: query.Page{Skip: 10, Limit: 10}})
	if err != nil {
		t.Fatalf("Failed to list warehouses: %v", err)
	}
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("Expected two pages of 10, got %d and %d", len(first), len(second))
	}
	if first[0].Name != "W-25" || second[0].Name != "W-15" {
		t.Errorf("Expected descending order, got %s then %s", first[0].Name, second[0].Name)
	}
	if first[9].ID <= second[0].ID {
		t.Errorf("Expected pages not to overlap: %d vs %d", first[9].ID, second[0].ID)
	}

	hits, err := repo.List(ctx, query.Filter{Page: query.Page{Limit: 0}, Q: "KAOHSIUNG"})
	if err != nil {
		t.Fatalf("Failed to search warehouses: %v", err)
	}
	if len(hits) != 5 {
		t.Errorf("Expected 5 search hits, got %d", len(hits))
	}

	none, err := repo.List(ctx, query.Filter{Page: query.Page{Limit: 10}, Q: "%"})
	if err != nil {
		t.Fatalf("Failed to search warehouses: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected literal %% to match nothing, got %d", len(none))
	}
}

func TestRepository_PartialUpdate(t *testing.T) {
	db := dbtest.New(t)
	repo := catalog.NewProducts(db)
	ctx := context.Background()

	spec := "Bluetooth 5.0"
	p := &models.Product{Name: "Headset", Spec: &spec, Category: "Audio"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	changes, err := decodeProduct(t, `{"ProductID": 500, "prCategory": "Electronics", "prSpec": null}`).Changes()
	if err != nil {
		t.Fatalf("Failed to build changes: %v", err)
	}
	got, err := repo.Update(ctx, p.ID, changes)
	if err != nil {
		t.Fatalf("Failed to update product: %v", err)
	}

	if got.ID != p.ID {
		t.Errorf("Expected id %d to be immutable, got %d", p.ID, got.ID)
	}
	if got.Name != "Headset" {
		t.Errorf("Expected untouched name Headset, got %s", got.Name)
	}
	if got.Category != "Electronics" {
		t.Errorf("Expected category Electronics, got %s", got.Category)
	}
	if got.Spec != nil {
		t.Errorf("Expected spec cleared, got %v", *got.Spec)
	}

	var log models.AuditLog
	if err := db.Where("action = ?", models.AuditActionUpdate).First(&log).Error; err != nil {
		t.Fatalf("Failed to find update audit log: %v", err)
	}
	var before models.Product
	if err := json.Unmarshal([]byte(log.BeforeData), &before); err != nil {
		t.Fatalf("Failed to decode before snapshot: %v", err)
	}
	if before.Category != "Audio" || before.Spec == nil {
		t.Errorf("Expected before snapshot to hold old values, got %+v", before)
	}
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo := catalog.NewSuppliers(dbtest.New(t))

	_, err := repo.Update(context.Background(), 9, map[string]interface{}{"su_name": "X"})
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestRepository_DeleteReferenced(t *testing.T) {
	db := dbtest.Seeded(t)
	ctx := context.Background()

	cases := []struct {
		name string
		del  func() error
	}{
		{"product", func() error { return catalog.NewProducts(db).Delete(ctx, 1) }},
		{"supplier", func() error { return catalog.NewSuppliers(db).Delete(ctx, 1) }},
		{"warehouse", func() error { return catalog.NewWarehouses(db).Delete(ctx, 101) }},
		{"staff", func() error { return catalog.NewStaff(db).Delete(ctx, 2) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.del()
			var ref *apperr.ReferenceError
			if !errors.As(err, &ref) {
				t.Fatalf("Expected ReferenceError, got %v", err)
			}
		})
	}

	if err := db.First(&models.Product{}, 1).Error; err != nil {
		t.Errorf("Expected referenced product to survive: %v", err)
	}
	var msg string
	if err := catalog.NewProducts(db).Delete(ctx, 1); err != nil {
		msg = err.Error()
	}
	if msg != "cannot delete: Product is referenced by inbound order details" {
		t.Errorf("Unexpected message %q", msg)
	}
}

func TestRepository_Delete(t *testing.T) {
	db := dbtest.Seeded(t)
	repo := catalog.NewProducts(db)
	ctx := context.Background()

	// Product 3 has no detail lines in the seed data.
	if err := repo.Delete(ctx, 3); err != nil {
		t.Fatalf("Failed to delete product: %v", err)
	}
	_, err := repo.Get(ctx, 3)
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}
	if err := repo.Delete(ctx, 3); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError deleting twice, got %v", err)
	}
}
