package database

import (
	"fmt"
	"log"

	"wms-backend/internal/models"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var (
	seedStaff = []models.Staff{
		{ID: 1, Name: "Admin", Dept: "管理部"},
		{ID: 2, Name: "張倉管", Dept: "倉庫部"},
		{ID: 3, Name: "李採購", Dept: "採購部"},
	}
	seedSuppliers = []models.Supplier{
		{ID: 1, Name: "A公司", Phone: "02-2345-6789", Address: "台北市信義區..."},
		{ID: 2, Name: "B公司", Phone: "04-8765-4321", Address: "台中市西屯區..."},
	}
	seedProducts = []models.Product{
		{ID: 1, Name: "無線耳機", Spec: strPtr("藍牙 5.0"), Category: "電子產品"},
		{ID: 2, Name: "機械鍵盤", Spec: strPtr("青軸"), Category: "電腦周邊"},
		{ID: 3, Name: "電競滑鼠", Spec: strPtr("DPI 16000"), Category: "電腦周邊"},
	}
	seedWarehouses = []models.Warehouse{
		{ID: 101, Name: "一號倉", Location: strPtr("台北總部 B1")},
		{ID: 102, Name: "二號倉", Location: strPtr("台中物流中心")},
		{ID: 103, Name: "冷凍倉", Location: strPtr("桃園觀音")},
	}
	seedInbound = []models.InboundOrder{
		{
			InboundID:  2023120101,
			Date:       models.NewDate(2023, 12, 1),
			SupplierID: 1,
			StaffID:    2,
			Details: []models.InboundDetail{
				{InboundID: 2023120101, ProductID: 1, Quantity: 50, WarehouseID: 101},
				{InboundID: 2023120101, ProductID: 2, Quantity: 20, WarehouseID: 101},
			},
		},
	}
)

// Seed fills every empty table with the demo data set. Tables that already
// hold rows are left alone.
func Seed(db *gorm.DB) error {
	log.Println("Checking if database needs seeding...")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := seedTable(tx, &models.Staff{}, seedStaff); err != nil {
			return err
		}
		if err := seedTable(tx, &models.Supplier{}, seedSuppliers); err != nil {
			return err
		}
		if err := seedTable(tx, &models.Product{}, seedProducts); err != nil {
			return err
		}
		if err := seedTable(tx, &models.Warehouse{}, seedWarehouses); err != nil {
			return err
		}
		return seedTable(tx, &models.InboundOrder{}, seedInbound)
	})
	if err != nil {
		return err
	}

	if IsPostgres(db) {
		if err := resetSequences(db); err != nil {
			return err
		}
	}
	log.Println("Seed completed")
	return nil
}

func seedTable[T any](tx *gorm.DB, model interface{}, rows []T) error {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count %T: %w", model, err)
	}
	if count > 0 {
		log.Printf("%T already has data, skipping", model)
		return nil
	}

	// Copy so the package-level fixtures are never mutated by Create.
	data := append([]T(nil), rows...)
	if err := tx.Create(&data).Error; err != nil {
		return fmt.Errorf("failed to seed %T: %w", model, err)
	}
	log.Printf("Seeded %d rows into %T", len(data), model)
	return nil
}

// resetSequences moves each serial past the explicitly inserted ids.
func resetSequences(db *gorm.DB) error {
	tables := [][2]string{
		{"staff", "staff_id"},
		{"supplier", "supplier_id"},
		{"product", "product_id"},
		{"warehouse", "warehouse_id"},
		{"inboundorder", "inbound_id"},
		{"requisition", "req_id"},
	}
	for _, t := range tables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
			t[0], t[1], t[1], t[0],
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", t[0], err)
		}
	}
	return nil
}
