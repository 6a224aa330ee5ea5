package db

import (
	"time"

	"gorm.io/datatypes"
)

// Footprint 是一条排放记录，只追加不修改
// Category 标识载荷类型，Details 以 JSON 保存该类别的原始输入
// RecordedAt 统一以 UTC 存储，(user_id, recorded_at) 复合索引服务窗口查询与最近 N 条查询
type Footprint struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     uint   `gorm:"not null;index:idx_footprints_user_time,priority:1"`
	Category   string `gorm:"size:32;not null"`
	Details    datatypes.JSON
	Emissions  float64   `gorm:"not null"`
	RecordedAt time.Time `gorm:"not null;index:idx_footprints_user_time,priority:2"`
	CreatedAt  time.Time
}

// TableName 指定自定义表名。
func (Footprint) TableName() string {
	return "footprints"
}
