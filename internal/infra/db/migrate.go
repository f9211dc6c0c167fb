package db

import (
	"fmt"

	"inventory/internal/domain/model"

	"gorm.io/gorm"
)

// 依存順（参照される側が先）
var models = []interface{}{
	&model.Category{},
	&model.Supplier{},
	&model.Location{},
	&model.Item{},
	&model.TransactionType{},
	&model.Transaction{},
	&model.AuditLog{},
}

// Migrate はテーブルを作成し、取引種類をシードする。何度実行してもよい。
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return SeedTransactionTypes(gormDB)
}

// 取引種類4件（既にあるものはそのまま）
func SeedTransactionTypes(gormDB *gorm.DB) error {
	for _, seed := range model.TransactionTypeSeeds {
		tt := seed
		if err := gormDB.Where(model.TransactionType{Name: tt.Name}).FirstOrCreate(&tt).Error; err != nil {
			return fmt.Errorf("seed transaction type %s: %w", seed.Name, err)
		}
	}
	return nil
}

// Reset は全テーブルを削除して作り直す（データは消える）。
func Reset(gormDB *gorm.DB) error {
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return Migrate(gormDB)
}
