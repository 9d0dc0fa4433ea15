package model

import "time"

/**
 * @time: 2025/11/02
 * @file: model.go
 * @description: 模型公共字段
 */

type BaseModel struct {
	Id        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
