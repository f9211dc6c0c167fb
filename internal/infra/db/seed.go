package db

import (
	"fmt"

	"inventory/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedSampleData は動作確認用のサンプルを入れる。
// 品目の初期在庫は作成時の値として入れる（取引は作らない）。
func SeedSampleData(gormDB *gorm.DB) error {
	return gormDB.Transaction(func(tx *gorm.DB) error {
		categories := []model.Category{
			{Name: "Electronics", Description: "Electronic devices and components"},
			{Name: "Office Supplies", Description: "Office furniture and supplies"},
			{Name: "Hardware", Description: "Tools and hardware items"},
		}
		for i := range categories {
			if err := tx.Where(model.Category{Name: categories[i].Name}).FirstOrCreate(&categories[i]).Error; err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
		}

		suppliers := []model.Supplier{
			{Name: "Tech Supplies Inc.", ContactPerson: "John Doe", Email: "john@techsupplies.com", Phone: "+1-555-0100"},
			{Name: "Office World", ContactPerson: "Jane Smith", Email: "jane@officeworld.com", Phone: "+1-555-0200"},
		}
		for i := range suppliers {
			if err := tx.Where(model.Supplier{Name: suppliers[i].Name}).FirstOrCreate(&suppliers[i]).Error; err != nil {
				return fmt.Errorf("seed supplier: %w", err)
			}
		}

		locations := []model.Location{
			{Warehouse: "Main", Aisle: "A1", Shelf: "S1", Bin: "B01"},
			{Warehouse: "Main", Aisle: "A2", Shelf: "S2", Bin: "B01"},
		}
		for i := range locations {
			if err := tx.Where(locations[i]).FirstOrCreate(&locations[i]).Error; err != nil {
				return fmt.Errorf("seed location: %w", err)
			}
		}

		items := []model.Item{
			{
				Code:         "ELEC-001",
				Name:         "Dell Laptop i7",
				Description:  "High-performance laptop for business use",
				CategoryID:   categories[0].ID,
				SupplierID:   &suppliers[0].ID,
				LocationID:   &locations[0].ID,
				UnitPrice:    decimal.RequireFromString("999.99"),
				CurrentStock: 25,
				ReorderLevel: 10,
			},
			{
				Code:         "OFF-001",
				Name:         "Office Chair Pro",
				Description:  "Ergonomic office chair with lumbar support",
				CategoryID:   categories[1].ID,
				SupplierID:   &suppliers[1].ID,
				LocationID:   &locations[1].ID,
				UnitPrice:    decimal.RequireFromString("299.99"),
				CurrentStock: 15,
				ReorderLevel: 5,
			},
		}
		for i := range items {
			if err := tx.Where(model.Item{Code: items[i].Code}).FirstOrCreate(&items[i]).Error; err != nil {
				return fmt.Errorf("seed item: %w", err)
			}
		}
		return nil
	})
}
