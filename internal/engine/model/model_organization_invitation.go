package model

import "time"

/**
 * @time: 2025/11/02
 * @file: model_organization_invitation.go
 * @description: organization invitation model
 */

// 邀请状态机: PENDING -> ACCEPTED | REVOKED | EXPIRED, 终态不可再迁移
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusRevoked  = "REVOKED"
	InviteStatusExpired  = "EXPIRED"
)

type OrganizationInvitation struct {
	BaseModel
	InviteId   string    `gorm:"column:invite_id;type:varchar(64);uniqueIndex" json:"inviteId"` // 邀请ID
	OrgId      string    `gorm:"column:org_id;type:varchar(64);index" json:"orgId"`             // 组织ID
	Email      string    `gorm:"column:email;type:varchar(255);index" json:"email"`             // 受邀邮箱, 全小写
	Role       string    `gorm:"column:role;type:varchar(16)" json:"role"`                      // 受邀角色, 不允许 OWNER
	Token      string    `gorm:"column:token;type:varchar(128);uniqueIndex" json:"-"`           // 邀请令牌, 不落响应
	Status     string    `gorm:"column:status;type:varchar(16);index" json:"status"`            // 状态
	InvitedBy  string    `gorm:"column:invited_by;type:varchar(64)" json:"invitedBy"`           // 发起人用户ID
	AcceptedBy string    `gorm:"column:accepted_by;type:varchar(64)" json:"acceptedBy"`         // 接受人用户ID
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expiresAt"`                            // 过期时间
}

func (OrganizationInvitation) TableName() string {
	return "t_organization_invitation"
}

// Expired 仅判断时间, 与状态字段无关
func (i *OrganizationInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

type CreateInviteReq struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type AcceptInviteReq struct {
	Token string `json:"token" validate:"required"`
}

type InviteResp struct {
	InviteId  string `json:"inviteId"`
	OrgId     string `json:"orgId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	InvitedBy string `json:"invitedBy"`
	ExpiresAt int64  `json:"expiresAt"`
	CreatedAt int64  `json:"createdAt"`
}

// InvitePreviewResp 公开预览, 仅暴露接受决策所需字段
type InvitePreviewResp struct {
	OrgName   string `json:"orgName"`
	OrgSlug   string `json:"orgSlug"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt int64  `json:"expiresAt"`
}
