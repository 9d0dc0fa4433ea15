package core

import (
	"errors"
	"fmt"
)

/**
 * @time: 2025/11/02
 * @file: errors.go
 * @description: 业务错误分类，携带稳定错误码
 */

// Error 业务错误。Code 是对外暴露的稳定机器可读错误码，
// Status 是对应的 HTTP 状态码。
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails 返回携带详情的副本，原值不变
func (e *Error) WithDetails(details any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithMessage 返回携带自定义消息的副本，原值不变
func (e *Error) WithMessage(msg string) *Error {
	clone := *e
	clone.Message = msg
	return &clone
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// AsError 从错误链中提取业务错误
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Validation
var (
	ErrValidation = newError(400, "VALIDATION_ERROR", "invalid request")
)

// Authorization 403，不可重试
var (
	ErrInsufficientPermissions = newError(403, "INSUFFICIENT_PERMISSIONS", "insufficient permissions")
	ErrCannotModifySelf        = newError(403, "CANNOT_MODIFY_SELF", "cannot modify your own membership")
	ErrCannotModifyHigherRole  = newError(403, "CANNOT_MODIFY_HIGHER_ROLE", "cannot modify a member with an equal or higher role")
	ErrOwnerOnlyTransfer       = newError(403, "OWNER_ONLY_TRANSFER", "only the owner can transfer ownership")
	ErrNotMember               = newError(403, "NOT_MEMBER", "not a member of this organization")
	ErrAccountLocked           = newError(403, "ACCOUNT_LOCKED", "account temporarily locked due to repeated failures")
)

// Conflict / state 409、400，调用方可换参数或显式覆盖后重试
var (
	ErrAlreadyMember     = newError(409, "ALREADY_MEMBER", "user is already a member of this organization")
	ErrInviteExists      = newError(409, "INVITE_EXISTS", "an active invitation already exists for this email")
	ErrSlugConflict      = newError(409, "SLUG_CONFLICT", "organization slug already taken")
	ErrSoleOwner         = newError(400, "SOLE_OWNER", "ownership must be transferred before leaving")
	ErrCannotRemoveOwner = newError(400, "CANNOT_REMOVE_OWNER", "ownership must be transferred before removal")
	ErrOrgNotEmpty       = newError(409, "ORG_NOT_EMPTY", "organization still has members")
	ErrMemberHasData     = newError(409, "MEMBER_HAS_DATA", "member still owns work records")
)

// Lifecycle 邀请令牌终态
var (
	ErrInviteNotFound   = newError(404, "INVITE_NOT_FOUND", "invitation not found")
	ErrInviteNotPending = newError(400, "INVITE_NOT_PENDING", "invitation is no longer pending")
	ErrInviteExpired    = newError(400, "INVITE_EXPIRED", "invitation has expired")
	ErrEmailMismatch    = newError(403, "EMAIL_MISMATCH", "invitation was issued for a different email")
)

// Auth 入口
var (
	ErrUserNotFound      = newError(404, "USER_NOT_FOUND", "user does not exist")
	ErrUserAlreadyExists = newError(409, "USER_ALREADY_EXISTS", "user already exists")
	ErrBadCredentials    = newError(401, "BAD_CREDENTIALS", "incorrect email or password")
	ErrOrgNotFound       = newError(404, "ORG_NOT_FOUND", "organization not found")
	ErrMemberNotFound    = newError(404, "MEMBER_NOT_FOUND", "member not found")
)

// Infrastructure 500，仅此类错误适合调用方透明重试
var (
	ErrInternal = newError(500, "INTERNAL_ERROR", "internal error")
)
