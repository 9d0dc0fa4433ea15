package model

/**
 * @time: 2025/11/02
 * @file: model_organization_member.go
 * @description: organization member model
 */

type OrganizationMember struct {
	BaseModel
	MemberId string `gorm:"column:member_id;type:varchar(64);uniqueIndex" json:"memberId"`                       // 成员ID
	OrgId    string `gorm:"column:org_id;type:varchar(64);uniqueIndex:uk_org_user;index" json:"orgId"`           // 组织ID
	UserId   string `gorm:"column:user_id;type:varchar(64);uniqueIndex:uk_org_user;index" json:"userId"`         // 用户ID, 同一组织内唯一
	Role     string `gorm:"column:role;type:varchar(16)" json:"role"`                                            // OWNER/ADMIN/STAFF/CLIENT
}

func (OrganizationMember) TableName() string {
	return "t_organization_member"
}

type UpdateMemberRoleReq struct {
	Role string `json:"role" validate:"required"`
}

type RemoveMemberReq struct {
	// ReassignTo 将被移除成员的工单/工时转移给该成员, 为空且成员仍有数据时拒绝
	ReassignTo string `json:"reassignTo"`
	Force      bool   `json:"force"`
}

type LeaveOrgReq struct {
	ReassignTo string `json:"reassignTo"`
}

type TransferOwnershipReq struct {
	// ToUserId 新所有者, 必须已是组织成员
	ToUserId string `json:"toUserId" validate:"required"`
}

type MemberResp struct {
	MemberId string `json:"memberId"`
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
	// CanModify 当前调用者是否可修改该成员, 供前端渲染操作按钮
	CanModify bool `json:"canModify"`
}

type ListMembersReq struct {
	Role     string `query:"role"`
	PageNum  int    `query:"pageNum"`
	PageSize int    `query:"pageSize"`
}

type PageResp struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
}
