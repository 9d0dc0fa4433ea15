package model

/**
 * @time: 2025/11/02
 * @file: model_user.go
 * @description: user model
 */

type User struct {
	BaseModel
	UserId   string `gorm:"column:user_id;type:varchar(64);uniqueIndex" json:"userId"` // 用户ID
	Username string `gorm:"column:username;type:varchar(64)" json:"username"`          // 用户名
	Password string `gorm:"column:password;type:varchar(255)" json:"-"`                // 密码, bcrypt
	Email    string `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`   // 邮箱, 全小写
	Avatar   string `gorm:"column:avatar;type:varchar(255)" json:"avatar"`             // 头像
	Status   int    `gorm:"column:status;default:1" json:"status"`                     // 状态, 1:启用 0:禁用
	IsAdmin  bool   `gorm:"column:is_admin;default:false" json:"isAdmin"`              // 系统管理员
}

func (User) TableName() string {
	return "t_user"
}

type RegisterReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResp struct {
	UserId       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserInfo struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u *User) Info() *UserInfo {
	return &UserInfo{
		UserId:   u.UserId,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsAdmin:  u.IsAdmin,
	}
}
