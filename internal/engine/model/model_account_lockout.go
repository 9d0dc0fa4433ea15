package model

import "time"

/**
 * @time: 2025/11/02
 * @file: model_account_lockout.go
 * @description: account lockout model
 */

type AccountLockout struct {
	BaseModel
	Identifier     string     `gorm:"column:identifier;type:varchar(255);uniqueIndex" json:"identifier"` // 登录标识, 全小写邮箱
	FailedAttempts int        `gorm:"column:failed_attempts;default:0" json:"failedAttempts"`            // 连续失败次数
	LockedUntil    *time.Time `gorm:"column:locked_until" json:"lockedUntil,omitempty"`                  // 锁定截止时间, NULL 表示未锁定
}

func (AccountLockout) TableName() string {
	return "t_account_lockout"
}

// Locked 锁定窗口未过则为 true
func (l *AccountLockout) Locked(now time.Time) bool {
	return l.LockedUntil != nil && now.Before(*l.LockedUntil)
}
