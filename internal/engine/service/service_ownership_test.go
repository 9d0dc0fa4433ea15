package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
)

type ownershipFixture struct {
	svc     *OwnershipService
	orgs    *fakeOrgRepo
	members *fakeMemberRepo
}

func newOwnershipFixture() *ownershipFixture {
	members := newFakeMemberRepo()
	orgs := newFakeOrgRepo(members)
	return &ownershipFixture{
		svc:     NewOwnershipService(orgs, members),
		orgs:    orgs,
		members: members,
	}
}

func (f *ownershipFixture) seedOrg(orgId, ownerUserId string, roles map[string]rbac.Role) {
	f.orgs.orgs[orgId] = &model.Organization{OrgId: orgId, Name: orgId, OwnerUserId: ownerUserId}
	for userId, role := range roles {
		f.members.Add(&model.OrganizationMember{
			MemberId: "m-" + userId,
			OrgId:    orgId,
			UserId:   userId,
			Role:     string(role),
		})
	}
}

func TestTransferOwnership(t *testing.T) {
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner, "admin": rbac.RoleAdmin})

	err := f.svc.Transfer("org1", "owner", "admin")
	require.NoError(t, err)

	// 三处写入: 降级、升级、组织所有者
	from, _ := f.members.GetByUserAndOrg("org1", "owner")
	to, _ := f.members.GetByUserAndOrg("org1", "admin")
	org, _ := f.orgs.GetByOrgId("org1")
	assert.Equal(t, "ADMIN", from.Role)
	assert.Equal(t, "OWNER", to.Role)
	assert.Equal(t, "admin", org.OwnerUserId)
}

func TestTransferByNonOwner(t *testing.T) {
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner, "admin": rbac.RoleAdmin, "staff": rbac.RoleStaff})

	err := f.svc.Transfer("org1", "admin", "staff")
	assertCode(t, err, "OWNER_ONLY_TRANSFER")
}

func TestTransferToNonMember(t *testing.T) {
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner})

	err := f.svc.Transfer("org1", "owner", "outsider")
	assertCode(t, err, "MEMBER_NOT_FOUND")
}

func TestTransferToSelf(t *testing.T) {
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner})

	err := f.svc.Transfer("org1", "owner", "owner")
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestTransferUnknownOrg(t *testing.T) {
	f := newOwnershipFixture()

	err := f.svc.Transfer("nope", "owner", "admin")
	assertCode(t, err, "ORG_NOT_FOUND")
}

func TestConcurrentTransferSingleOwner(t *testing.T) {
	// 同一 OWNER 并发转给两个不同成员: 恰有一次成功,
	// 败方观察到所有权已易手, 任何时刻只有一个 OWNER
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner, "a": rbac.RoleAdmin, "b": rbac.RoleStaff})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []string{"a", "b"}
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			errs[i] = f.svc.Transfer("org1", "owner", to)
		}(i, to)
	}
	wg.Wait()

	var ok, lost int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assertCode(t, err, "OWNER_ONLY_TRANSFER")
			lost++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, lost)

	owners, _ := f.members.CountByRole("org1", "OWNER")
	assert.Equal(t, int64(1), owners)

	org, _ := f.orgs.GetByOrgId("org1")
	winner, _ := f.members.GetByUserAndOrg("org1", org.OwnerUserId)
	require.NotNil(t, winner)
	assert.Equal(t, "OWNER", winner.Role)
}

func TestTransferTwiceChainsOwnership(t *testing.T) {
	// 连续转移: owner -> a -> b, 每步前任都降为 ADMIN
	f := newOwnershipFixture()
	f.seedOrg("org1", "owner", map[string]rbac.Role{"owner": rbac.RoleOwner, "a": rbac.RoleStaff, "b": rbac.RoleClient})

	require.NoError(t, f.svc.Transfer("org1", "owner", "a"))
	require.NoError(t, f.svc.Transfer("org1", "a", "b"))

	owners, _ := f.members.CountByRole("org1", "OWNER")
	assert.Equal(t, int64(1), owners)

	b, _ := f.members.GetByUserAndOrg("org1", "b")
	assert.Equal(t, "OWNER", b.Role)
	a, _ := f.members.GetByUserAndOrg("org1", "a")
	assert.Equal(t, "ADMIN", a.Role)
}
