package service

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/internal/engine/repo"
)

// 内存仓储, 服务层测试共用

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User // userId -> user
	tokens map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}, tokens: map[string]string{}}
}

func (f *fakeUserRepo) AddUser(u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.UserId] = u
	return nil
}

func (f *fakeUserRepo) GetByUserId(userId string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userId], nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FetchUserInfo(userId string) (*model.UserInfo, error) {
	u, _ := f.GetByUserId(userId)
	if u == nil {
		return nil, nil
	}
	return u.Info(), nil
}

func (f *fakeUserRepo) SetToken(userId, aToken string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userId] = aToken
	return nil
}

func (f *fakeUserRepo) GetToken(userId string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[userId], nil
}

func (f *fakeUserRepo) DelToken(userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userId)
	return nil
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members []*model.OrganizationMember
	orgs    *fakeOrgRepo // TransferOwnership 需要回写组织所有者
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{}
}

func (f *fakeMemberRepo) Add(m *model.OrganizationMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = append(f.members, m)
	return nil
}

func (f *fakeMemberRepo) find(orgId, userId string) *model.OrganizationMember {
	for _, m := range f.members {
		if m.OrgId == orgId && m.UserId == userId {
			return m
		}
	}
	return nil
}

func (f *fakeMemberRepo) GetByUserAndOrg(orgId, userId string) (*model.OrganizationMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.find(orgId, userId)
	if m == nil {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (f *fakeMemberRepo) ListByOrg(orgId, role string, offset, pageSize int) ([]repo.MemberWithUser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []repo.MemberWithUser
	for _, m := range f.members {
		if m.OrgId != orgId {
			continue
		}
		if role != "" && m.Role != role {
			continue
		}
		all = append(all, repo.MemberWithUser{OrganizationMember: *m})
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeMemberRepo) UpdateRole(orgId, userId, expectedOldRole, newRole string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.find(orgId, userId)
	if m == nil || m.Role != expectedOldRole {
		return false, nil
	}
	m.Role = newRole
	return true, nil
}

func (f *fakeMemberRepo) Remove(orgId, userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.members {
		if m.OrgId == orgId && m.UserId == userId {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMemberRepo) CountByRole(orgId, role string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.members {
		if m.OrgId == orgId && m.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeMemberRepo) Count(orgId string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.members {
		if m.OrgId == orgId {
			n++
		}
	}
	return n, nil
}

func (f *fakeMemberRepo) TransferOwnership(orgId, fromUserId, toUserId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := f.find(orgId, fromUserId)
	to := f.find(orgId, toUserId)
	if from == nil || from.Role != string(rbac.RoleOwner) || to == nil {
		return gorm.ErrRecordNotFound
	}
	from.Role = string(rbac.RoleAdmin)
	to.Role = string(rbac.RoleOwner)
	if f.orgs != nil {
		if org := f.orgs.orgs[orgId]; org != nil {
			org.OwnerUserId = toUserId
		}
	}
	return nil
}

type fakeOrgRepo struct {
	mu      sync.Mutex
	orgs    map[string]*model.Organization
	members *fakeMemberRepo
}

func newFakeOrgRepo(members *fakeMemberRepo) *fakeOrgRepo {
	f := &fakeOrgRepo{orgs: map[string]*model.Organization{}, members: members}
	if members != nil {
		members.orgs = f
	}
	return f
}

func (f *fakeOrgRepo) CreateWithOwner(org *model.Organization, owner *model.OrganizationMember) error {
	f.mu.Lock()
	f.orgs[org.OrgId] = org
	f.mu.Unlock()
	return f.members.Add(owner)
}

func (f *fakeOrgRepo) GetByOrgId(orgId string) (*model.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orgs[orgId], nil
}

func (f *fakeOrgRepo) GetBySlug(slug string) (*model.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orgs {
		if o.Slug == slug {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrgRepo) Update(orgId string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	org := f.orgs[orgId]
	if org == nil {
		return nil
	}
	if v, ok := updates["name"].(string); ok {
		org.Name = v
	}
	if v, ok := updates["slug"].(string); ok {
		org.Slug = v
	}
	if v, ok := updates["description"].(string); ok {
		org.Description = v
	}
	return nil
}

func (f *fakeOrgRepo) DeleteCascade(orgId string) error {
	f.mu.Lock()
	delete(f.orgs, orgId)
	f.mu.Unlock()
	if f.members != nil {
		f.members.mu.Lock()
		var kept []*model.OrganizationMember
		for _, m := range f.members.members {
			if m.OrgId != orgId {
				kept = append(kept, m)
			}
		}
		f.members.members = kept
		f.members.mu.Unlock()
	}
	return nil
}

func (f *fakeOrgRepo) ListByUser(userId string) ([]model.Organization, error) {
	var out []model.Organization
	f.members.mu.Lock()
	defer f.members.mu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members.members {
		if m.UserId == userId {
			if org := f.orgs[m.OrgId]; org != nil {
				out = append(out, *org)
			}
		}
	}
	return out, nil
}

func (f *fakeOrgRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orgs)), nil
}

func (f *fakeOrgRepo) SlugExists(slug string) (bool, error) {
	o, _ := f.GetBySlug(slug)
	return o != nil, nil
}

func (f *fakeOrgRepo) Stats(orgId string) (*model.OrgStatsResp, error) {
	stats := &model.OrgStatsResp{RoleCounts: map[string]int64{}}
	f.members.mu.Lock()
	defer f.members.mu.Unlock()
	for _, m := range f.members.members {
		if m.OrgId == orgId {
			stats.MemberCount++
			stats.RoleCounts[m.Role]++
		}
	}
	return stats, nil
}

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*model.OrganizationInvitation // inviteId -> invite
	members *fakeMemberRepo
}

func newFakeInviteRepo(members *fakeMemberRepo) *fakeInviteRepo {
	return &fakeInviteRepo{invites: map[string]*model.OrganizationInvitation{}, members: members}
}

func (f *fakeInviteRepo) Create(inv *model.OrganizationInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites[inv.InviteId] = inv
	return nil
}

func (f *fakeInviteRepo) GetByToken(token string) (*model.OrganizationInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invites {
		if inv.Token == token {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) GetByInviteId(inviteId string) (*model.OrganizationInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := f.invites[inviteId]
	if inv == nil {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (f *fakeInviteRepo) GetActiveByOrgEmail(orgId, email string) (*model.OrganizationInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invites {
		if inv.OrgId == orgId && inv.Email == email && inv.Status == model.InviteStatusPending {
			clone := *inv
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) ListByOrg(orgId, status string, offset, pageSize int) ([]model.OrganizationInvitation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.OrganizationInvitation
	for _, inv := range f.invites {
		if inv.OrgId != orgId {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		all = append(all, *inv)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeInviteRepo) markStatus(inviteId, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := f.invites[inviteId]
	if inv == nil || inv.Status != model.InviteStatusPending {
		return false, nil
	}
	inv.Status = status
	return true, nil
}

func (f *fakeInviteRepo) MarkRevoked(inviteId string) (bool, error) {
	return f.markStatus(inviteId, model.InviteStatusRevoked)
}

func (f *fakeInviteRepo) MarkExpired(inviteId string) (bool, error) {
	return f.markStatus(inviteId, model.InviteStatusExpired)
}

func (f *fakeInviteRepo) MarkAccepted(inviteId, acceptedBy string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := f.invites[inviteId]
	if inv == nil || inv.Status != model.InviteStatusPending {
		return false, nil
	}
	inv.Status = model.InviteStatusAccepted
	inv.AcceptedBy = acceptedBy
	return true, nil
}

func (f *fakeInviteRepo) AcceptTx(inviteId, acceptedBy string, member *model.OrganizationMember) (bool, error) {
	// 状态翻转与成员插入同持锁, 等价于仓储层的单事务
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := f.invites[inviteId]
	if inv == nil || inv.Status != model.InviteStatusPending {
		return false, nil
	}
	if err := f.members.Add(member); err != nil {
		return false, err
	}
	inv.Status = model.InviteStatusAccepted
	inv.AcceptedBy = acceptedBy
	return true, nil
}

type fakeLockoutRepo struct {
	mu   sync.Mutex
	rows map[string]*model.AccountLockout
}

func newFakeLockoutRepo() *fakeLockoutRepo {
	return &fakeLockoutRepo{rows: map[string]*model.AccountLockout{}}
}

func (f *fakeLockoutRepo) Get(identifier string) (*model.AccountLockout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.rows[identifier]
	if l == nil {
		return nil, nil
	}
	clone := *l
	return &clone, nil
}

func (f *fakeLockoutRepo) IncrementFailed(identifier string, threshold int, lockDuration time.Duration, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.rows[identifier]
	if l == nil {
		l = &model.AccountLockout{Identifier: identifier}
		f.rows[identifier] = l
	}
	if l.LockedUntil != nil && !now.Before(*l.LockedUntil) {
		l.FailedAttempts = 0
		l.LockedUntil = nil
	}
	l.FailedAttempts++
	if l.FailedAttempts >= threshold {
		until := now.Add(lockDuration)
		l.LockedUntil = &until
		return true, nil
	}
	return false, nil
}

func (f *fakeLockoutRepo) Clear(identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l := f.rows[identifier]; l != nil {
		l.FailedAttempts = 0
		l.LockedUntil = nil
	}
	return nil
}

type fakeWorkRepo struct {
	mu      sync.Mutex
	tasks   []*model.Task
	entries []*model.TimeEntry
}

func newFakeWorkRepo() *fakeWorkRepo {
	return &fakeWorkRepo{}
}

func (f *fakeWorkRepo) CountByMember(orgId, userId string) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var openTasks, timeEntries int64
	for _, t := range f.tasks {
		if t.OrgId == orgId && t.AssigneeId == userId && t.Status != "DONE" {
			openTasks++
		}
	}
	for _, e := range f.entries {
		if e.OrgId == orgId && e.UserId == userId {
			timeEntries++
		}
	}
	return openTasks, timeEntries, nil
}

func (f *fakeWorkRepo) ReassignWork(orgId, fromUserId, toUserId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.OrgId == orgId && t.AssigneeId == fromUserId {
			t.AssigneeId = toUserId
		}
	}
	for _, e := range f.entries {
		if e.OrgId == orgId && e.UserId == fromUserId {
			e.UserId = toUserId
		}
	}
	return nil
}

// 通知收集器
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string // email
	token string   // 最近一次出站令牌
}

func (f *fakeNotifier) SendInvite(email, orgName, role, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	f.token = token
}
