package models

import "time"

// AdminSetting 管理端设置表（键 -> JSON 文档）
type AdminSetting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"column:setting_key;type:varchar(255);not null;uniqueIndex" json:"key"`
	Value     Document  `gorm:"column:setting_value" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (AdminSetting) TableName() string {
	return "admin_settings"
}
