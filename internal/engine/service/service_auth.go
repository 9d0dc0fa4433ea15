// Copyright 2025 Worklane Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/http/jwt"
	"github.com/worklane/worklane/pkg/id"
	"github.com/worklane/worklane/pkg/log"
	"github.com/worklane/worklane/pkg/metrics"
)

/**
 * @time: 2025/11/02
 * @file: service_auth.go
 * @description: 注册/登录/登出, 含失败锁定
 */

type AuthService struct {
	userRepo    repo.IUserRepository
	lockoutRepo repo.ILockoutRepository
	app         conf.App
	now         func() time.Time
}

func NewAuthService(userRepo repo.IUserRepository, lockoutRepo repo.ILockoutRepository, app conf.App) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		lockoutRepo: lockoutRepo,
		app:         app,
		now:         time.Now,
	}
}

// NormalizeEmail 统一登录/邀请比对口径: 去空白 + 全小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *AuthService) Register(req *model.RegisterReq) (*model.UserInfo, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || req.Username == "" {
		return nil, core.ErrValidation
	}

	existing, err := as.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, core.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserId:   id.GetUUIDWithoutDashes(),
		Username: req.Username,
		Email:    email,
		Password: string(hash),
		Status:   1,
	}
	if err := as.userRepo.AddUser(user); err != nil {
		return nil, err
	}
	return user.Info(), nil
}

// Login 锁定检查先于口令比对; 失败计数对"用户不存在"与"口令错误"
// 同样累加, 避免探测有效邮箱。
func (as *AuthService) Login(req *model.LoginReq, auth http.Auth) (*model.LoginResp, error) {
	email := NormalizeEmail(req.Email)
	now := as.now()

	lockout, err := as.lockoutRepo.Get(email)
	if err != nil {
		return nil, err
	}
	if lockout != nil && lockout.Locked(now) {
		return nil, core.ErrAccountLocked
	}

	user, err := as.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.LoginFailures.Inc()
		nowLocked, incErr := as.lockoutRepo.IncrementFailed(email, as.app.LockoutThreshold, as.app.LockoutDuration, now)
		if incErr != nil {
			log.Errorw("failed to record login failure", "email", email, "err", incErr)
		}
		if nowLocked {
			metrics.LockoutsTriggered.Inc()
			log.Warnw("account locked after repeated failures", "email", email)
			return nil, core.ErrAccountLocked
		}
		return nil, core.ErrBadCredentials
	}

	if user.Status != 1 {
		return nil, core.ErrBadCredentials
	}

	if err := as.lockoutRepo.Clear(email); err != nil {
		log.Errorw("failed to clear lockout counter", "email", email, "err", err)
	}

	aToken, rToken, err := jwt.GenToken(user.UserId, user.Email, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		return nil, err
	}

	if err := as.userRepo.SetToken(user.UserId, aToken, auth.AccessExpire*time.Minute); err != nil {
		return nil, err
	}

	return &model.LoginResp{
		UserId:       user.UserId,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  aToken,
		RefreshToken: rToken,
	}, nil
}

func (as *AuthService) Logout(userId string) error {
	return as.userRepo.DelToken(userId)
}

func (as *AuthService) Refresh(auth *http.Auth, userId, email, rToken string) (map[string]string, error) {
	tokens, err := jwt.RefreshToken(auth, userId, email, rToken)
	if err != nil {
		return nil, err
	}
	if err := as.userRepo.SetToken(userId, tokens["accessToken"], auth.AccessExpire*time.Minute); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (as *AuthService) UserInfo(userId string) (*model.UserInfo, error) {
	info, err := as.userRepo.FetchUserInfo(userId)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, core.ErrUserNotFound
	}
	return info, nil
}
