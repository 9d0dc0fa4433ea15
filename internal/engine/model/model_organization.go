package model

/**
 * @time: 2025/11/02
 * @file: model_organization.go
 * @description: organization model
 */

type Organization struct {
	BaseModel
	OrgId       string `gorm:"column:org_id;type:varchar(64);uniqueIndex" json:"orgId"` // 组织ID
	Name        string `gorm:"column:name;type:varchar(128)" json:"name"`               // 组织名称
	Slug        string `gorm:"column:slug;type:varchar(160);uniqueIndex" json:"slug"`   // URL 标识, 全局唯一
	Description string `gorm:"column:description;type:varchar(512)" json:"description"` // 描述
	OwnerUserId string `gorm:"column:owner_user_id;type:varchar(64)" json:"ownerUserId"` // 所有者用户ID, 与成员表 OWNER 行保持一致
	Status      int    `gorm:"column:status;default:1" json:"status"`                    // 状态, 1:启用 0:禁用
}

func (Organization) TableName() string {
	return "t_organization"
}

type CreateOrgReq struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=512"`
}

type UpdateOrgReq struct {
	Name        string `json:"name" validate:"omitempty,min=1,max=128"`
	Description string `json:"description" validate:"max=512"`
	// Reslug 重命名时是否同步重新生成 slug
	Reslug bool `json:"reslug"`
}

type DeleteOrgReq struct {
	// Force 为 true 时允许删除仍有成员的组织, 级联清理成员与邀请
	Force bool `json:"force"`
}

type OrgResp struct {
	OrgId       string `json:"orgId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	OwnerUserId string `json:"ownerUserId"`
	CreatedAt   int64  `json:"createdAt"`
}

type OrgStatsResp struct {
	MemberCount    int64            `json:"memberCount"`
	RoleCounts     map[string]int64 `json:"roleCounts"`
	PendingInvites int64            `json:"pendingInvites"`
	TaskCount      int64            `json:"taskCount"`
}

type OrgDetailResp struct {
	OrgResp
	Stats *OrgStatsResp `json:"stats"`
}
