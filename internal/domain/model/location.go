package model

import (
	"strings"
	"time"
)

// 保管場所（倉庫/通路/棚/ビン）
type Location struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Warehouse string    `gorm:"type:varchar(50);not null" json:"warehouse"`
	Aisle     string    `gorm:"type:varchar(20)" json:"aisle"`
	Shelf     string    `gorm:"type:varchar(20)" json:"shelf"`
	Bin       string    `gorm:"type:varchar(20)" json:"bin"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Label は "Main - A1/S1/B01" の形の表示名を返す。
func (l Location) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Aisle, l.Shelf, l.Bin} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return l.Warehouse
	}
	return l.Warehouse + " - " + strings.Join(parts, "/")
}
