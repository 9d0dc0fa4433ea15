package repo

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/consts"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/cache"
	"github.com/worklane/worklane/pkg/database"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: repo_user.go
 * @description: 用户仓储
 */

type IUserRepository interface {
	AddUser(user *model.User) error
	GetByUserId(userId string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	FetchUserInfo(userId string) (*model.UserInfo, error)
	SetToken(userId, aToken string, expire time.Duration) error
	GetToken(userId string) (string, error)
	DelToken(userId string) error
}

type UserRepo struct {
	db        database.IDatabase
	cache     cache.ICache
	userModel *model.User
}

func NewUserRepo(db database.IDatabase, cache cache.ICache) IUserRepository {
	return &UserRepo{
		db:        db,
		cache:     cache,
		userModel: &model.User{},
	}
}

func (ur *UserRepo) AddUser(user *model.User) error {
	return ur.db.Database().Create(user).Error
}

// GetByUserId 未找到返回 (nil, nil)
func (ur *UserRepo) GetByUserId(userId string) (*model.User, error) {
	var u model.User
	err := ur.db.Database().Where("user_id = ?", userId).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail 未找到返回 (nil, nil), email 需已归一化为小写
func (ur *UserRepo) GetByEmail(email string) (*model.User, error) {
	var u model.User
	err := ur.db.Database().Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UserRepo) FetchUserInfo(userId string) (*model.UserInfo, error) {
	c := context.Background()
	key := consts.UserInfoKey + userId

	if ur.cache != nil {
		str, err := ur.cache.Get(c, key).Result()
		if err == nil && str != "" {
			info := &model.UserInfo{}
			if err := sonic.UnmarshalString(str, info); err != nil {
				log.Errorw("failed to unmarshal cached user info", "userId", userId, "err", err)
			} else {
				return info, nil
			}
		}
	}

	u, err := ur.GetByUserId(userId)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	info := u.Info()

	if ur.cache != nil {
		if str, err := sonic.MarshalString(info); err == nil {
			ur.cache.Set(c, key, str, 30*time.Minute)
		}
	}
	return info, nil
}

// SetToken 登录会话, 同一用户重复登录覆盖旧会话
func (ur *UserRepo) SetToken(userId, aToken string, expire time.Duration) error {
	return ur.cache.Set(context.Background(), consts.UserSessionKey+userId, aToken, expire).Err()
}

func (ur *UserRepo) GetToken(userId string) (string, error) {
	return ur.cache.Get(context.Background(), consts.UserSessionKey+userId).Result()
}

func (ur *UserRepo) DelToken(userId string) error {
	return ur.cache.Del(context.Background(), consts.UserSessionKey+userId).Err()
}
