package rbac

/**
 * @time: 2025/11/02
 * @file: role.go
 * @description: 组织内角色与权限比较规则
 */

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleClient Role = "CLIENT"
)

// Rank 角色权重, 数值越大权限越高, 未知角色为 0
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleStaff:
		return 2
	case RoleClient:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast actor 是否达到 required 所需权重
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank()
}

// CanAssignRole actor 是否可将 target 角色授予他人。
// 规则: 只能授予权重严格低于自身的角色; OWNER 角色只有 OWNER 本人可授予(即所有权转移)。
func CanAssignRole(actor, target Role) bool {
	if !actor.Valid() || !target.Valid() {
		return false
	}
	if target == RoleOwner {
		return actor == RoleOwner
	}
	return actor.Rank() > target.Rank()
}

// CanModifyMember actor 是否可修改(改角色/移除) target 成员。
// 自我修改一律拒绝, 且先于权重比较判定; 其余要求 actor 权重严格高于 target。
func CanModifyMember(actorUserId string, actor Role, targetUserId string, target Role) bool {
	if actorUserId == targetUserId {
		return false
	}
	if !actor.Valid() || !target.Valid() {
		return false
	}
	return actor.Rank() > target.Rank()
}

// InvitableRoles 可通过邀请授予的角色, OWNER 只能经所有权转移获得
func InvitableRoles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleClient}
}

// Invitable target 是否可经邀请授予
func Invitable(target Role) bool {
	return target.Valid() && target != RoleOwner
}
