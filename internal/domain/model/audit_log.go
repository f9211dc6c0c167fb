package model

import "time"

// 品目マスタに対する操作
type AuditAction string

const (
	AuditActionCreateItem AuditAction = "CREATE_ITEM"
	AuditActionUpdateItem AuditAction = "UPDATE_ITEM"
	AuditActionDeleteItem AuditAction = "DELETE_ITEM"
)

var AuditActions = []AuditAction{AuditActionCreateItem, AuditActionUpdateItem, AuditActionDeleteItem}

func (a AuditAction) Valid() bool {
	for _, v := range AuditActions {
		if a == v {
			return true
		}
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceItem AuditResourceType = "item"
)

// 監査ログ（オペレーター操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
// 在庫数の変化はTransactionが証跡なので、ここにはマスタ変更だけを残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したオペレーター（メールアドレス）
	Actor string `gorm:"type:varchar(255);not null;index" json:"actor"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
