package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/http"
)

func testApp() conf.App {
	app := conf.App{}
	app.SetDefaults()
	return app
}

func testAuthConf() http.Auth {
	return http.Auth{
		SecretKey:     "test-secret",
		AccessExpire:  60,
		RefreshExpire: 1440,
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeLockoutRepo) {
	t.Helper()
	users := newFakeUserRepo()
	lockouts := newFakeLockoutRepo()
	svc := NewAuthService(users, lockouts, testApp())
	return svc, users, lockouts
}

func addUser(t *testing.T, users *fakeUserRepo, userId, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.AddUser(&model.User{
		UserId:   userId,
		Username: userId,
		Email:    email,
		Password: string(hash),
		Status:   1,
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	info, err := svc.Register(&model.RegisterReq{
		Username: "alice",
		Email:    "  Alice@Example.COM ",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.Email) // 邮箱归一化

	resp, err := svc.Login(&model.LoginReq{Email: "ALICE@example.com", Password: "s3cret-pass"}, testAuthConf())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "pw-123456")

	_, err := svc.Register(&model.RegisterReq{Username: "bob2", Email: "Bob@example.com", Password: "pw-abcdef"})
	bizErr, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "USER_ALREADY_EXISTS", bizErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, lockouts := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	_, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	bizErr, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "BAD_CREDENTIALS", bizErr.Code)

	l, err := lockouts.Get("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, l.FailedAttempts)
}

func TestLoginUnknownEmailCountsFailure(t *testing.T) {
	// 不存在的邮箱与口令错误同样累加, 响应无差别
	svc, _, lockouts := newAuthFixture(t)

	_, err := svc.Login(&model.LoginReq{Email: "ghost@example.com", Password: "x"}, testAuthConf())
	bizErr, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "BAD_CREDENTIALS", bizErr.Code)

	l, err := lockouts.Get("ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, l.FailedAttempts)
}

func TestLockoutAfterThreshold(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	for i := 0; i < 4; i++ {
		_, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
		bizErr, ok := core.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "BAD_CREDENTIALS", bizErr.Code)
	}

	// 第 5 次触发锁定
	_, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	bizErr, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_LOCKED", bizErr.Code)

	// 锁定期内正确口令也被拒
	_, err = svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "right-pass"}, testAuthConf())
	bizErr, ok = core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_LOCKED", bizErr.Code)
}

func TestConcurrentFailedLoginsAllCounted(t *testing.T) {
	// 并发失败不丢计数: 首败双方同时建行也都要计入
	svc, users, lockouts := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
		}()
	}
	wg.Wait()

	l, err := lockouts.Get("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, 4, l.FailedAttempts)

	// 第 5 次触发锁定
	_, err = svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	bizErr, ok := core.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "ACCOUNT_LOCKED", bizErr.Code)
	l, _ = lockouts.Get("bob@example.com")
	assert.True(t, l.Locked(time.Now()))
}

func TestLockoutExpiresAndSuccessClears(t *testing.T) {
	svc, users, lockouts := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	base := time.Now()
	svc.now = func() time.Time { return base }

	for i := 0; i < 5; i++ {
		svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	}
	l, _ := lockouts.Get("bob@example.com")
	require.True(t, l.Locked(base))

	// 窗口过后允许登录, 成功清零计数
	svc.now = func() time.Time { return base.Add(16 * time.Minute) }
	resp, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "right-pass"}, testAuthConf())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	l, _ = lockouts.Get("bob@example.com")
	assert.Equal(t, 0, l.FailedAttempts)
	assert.False(t, l.Locked(svc.now()))
}

func TestSuccessResetsCounter(t *testing.T) {
	svc, users, lockouts := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	for i := 0; i < 3; i++ {
		svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	}
	_, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "right-pass"}, testAuthConf())
	require.NoError(t, err)

	l, _ := lockouts.Get("bob@example.com")
	assert.Equal(t, 0, l.FailedAttempts)

	// 清零后重新从 1 计
	svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "wrong"}, testAuthConf())
	l, _ = lockouts.Get("bob@example.com")
	assert.Equal(t, 1, l.FailedAttempts)
}

func TestLogout(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addUser(t, users, "u1", "bob@example.com", "right-pass")

	resp, err := svc.Login(&model.LoginReq{Email: "bob@example.com", Password: "right-pass"}, testAuthConf())
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	require.NoError(t, svc.Logout("u1"))
	token, _ := users.GetToken("u1")
	assert.Empty(t, token)
}
