package model

import "time"

// 仕入先
type Supplier struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	ContactPerson string    `gorm:"type:varchar(100)" json:"contact_person"`
	Email         string    `gorm:"type:varchar(100)" json:"email"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
