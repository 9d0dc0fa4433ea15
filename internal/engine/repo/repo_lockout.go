package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/database"
)

/**
 * @time: 2025/11/02
 * @file: repo_lockout.go
 * @description: 账号锁定仓储
 */

type ILockoutRepository interface {
	Get(identifier string) (*model.AccountLockout, error)
	// IncrementFailed 原子累加失败次数, 达到阈值时写入锁定截止时间,
	// 返回本次累加后是否触发锁定
	IncrementFailed(identifier string, threshold int, lockDuration time.Duration, now time.Time) (bool, error)
	// Clear 登录成功后清零计数并解除锁定
	Clear(identifier string) error
}

type LockoutRepo struct {
	db           database.IDatabase
	lockoutModel *model.AccountLockout
}

func NewLockoutRepo(db database.IDatabase) ILockoutRepository {
	return &LockoutRepo{
		db:           db,
		lockoutModel: &model.AccountLockout{},
	}
}

// Get 未找到返回 (nil, nil)
func (lr *LockoutRepo) Get(identifier string) (*model.AccountLockout, error) {
	var l model.AccountLockout
	err := lr.db.Database().Where("identifier = ?", identifier).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// IncrementFailed 行锁下读改写, 并发失败请求不会丢计数
func (lr *LockoutRepo) IncrementFailed(identifier string, threshold int, lockDuration time.Duration, now time.Time) (bool, error) {
	nowLocked := false
	err := lr.db.Database().Transaction(func(tx *gorm.DB) error {
		var l model.AccountLockout
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("identifier = ?", identifier).First(&l).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 并发首败可能双方都走到这里: 冲突方静默跳过插入, 回读拿行锁,
			// 两次失败都计入
			l = model.AccountLockout{Identifier: identifier}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&l).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("identifier = ?", identifier).First(&l).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// 锁定窗口已过则从头计数
		if l.LockedUntil != nil && !now.Before(*l.LockedUntil) {
			l.FailedAttempts = 0
			l.LockedUntil = nil
		}

		l.FailedAttempts++
		updates := map[string]any{"failed_attempts": l.FailedAttempts}
		if l.FailedAttempts >= threshold {
			updates["locked_until"] = now.Add(lockDuration)
			nowLocked = true
		} else if l.LockedUntil == nil {
			updates["locked_until"] = nil
		}

		return tx.Model(lr.lockoutModel).
			Where("identifier = ?", identifier).
			Updates(updates).Error
	})
	return nowLocked, err
}

func (lr *LockoutRepo) Clear(identifier string) error {
	return lr.db.Database().Model(lr.lockoutModel).
		Where("identifier = ?", identifier).
		Updates(map[string]any{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error
}
