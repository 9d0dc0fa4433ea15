package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
)

func newOrgFixture(app conf.App) (*OrganizationService, *fakeOrgRepo, *fakeMemberRepo) {
	members := newFakeMemberRepo()
	orgs := newFakeOrgRepo(members)
	return NewOrganizationService(orgs, members, app), orgs, members
}

func TestCreateOrganization(t *testing.T) {
	svc, _, members := newOrgFixture(testApp())

	org, err := svc.Create("u1", &model.CreateOrgReq{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", org.Slug)
	assert.Equal(t, "u1", org.OwnerUserId)

	// 创建者自动成为 OWNER
	m, _ := members.GetByUserAndOrg(org.OrgId, "u1")
	require.NotNil(t, m)
	assert.Equal(t, string(rbac.RoleOwner), m.Role)
}

func TestCreateOrganizationSlugCollision(t *testing.T) {
	svc, _, _ := newOrgFixture(testApp())

	first, err := svc.Create("u1", &model.CreateOrgReq{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme", first.Slug)

	second, err := svc.Create("u2", &model.CreateOrgReq{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme-1", second.Slug)

	third, err := svc.Create("u3", &model.CreateOrgReq{Name: "acme!"})
	require.NoError(t, err)
	assert.Equal(t, "acme-2", third.Slug)
}

func TestCreateOrganizationSingleTenant(t *testing.T) {
	app := testApp()
	app.SingleTenant = true
	svc, _, _ := newOrgFixture(app)

	_, err := svc.Create("u1", &model.CreateOrgReq{Name: "Only One"})
	require.NoError(t, err)

	_, err = svc.Create("u2", &model.CreateOrgReq{Name: "Second"})
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestUpdateOrganizationReslug(t *testing.T) {
	svc, _, _ := newOrgFixture(testApp())

	org, err := svc.Create("u1", &model.CreateOrgReq{Name: "Old Name"})
	require.NoError(t, err)

	// 不重建 slug
	updated, err := svc.Update(org.OrgId, &model.UpdateOrgReq{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "old-name", updated.Slug)

	// 重建 slug
	updated, err = svc.Update(org.OrgId, &model.UpdateOrgReq{Name: "Brand New", Reslug: true})
	require.NoError(t, err)
	assert.Equal(t, "brand-new", updated.Slug)
}

func TestDeleteOrganizationWithMembers(t *testing.T) {
	svc, _, members := newOrgFixture(testApp())

	org, err := svc.Create("u1", &model.CreateOrgReq{Name: "Acme"})
	require.NoError(t, err)
	members.Add(&model.OrganizationMember{MemberId: "m2", OrgId: org.OrgId, UserId: "u2", Role: "STAFF"})

	err = svc.Delete(org.OrgId, false)
	assertCode(t, err, "ORG_NOT_EMPTY")

	// force 级联清理
	require.NoError(t, svc.Delete(org.OrgId, true))
	_, err = svc.Get(org.OrgId)
	assertCode(t, err, "ORG_NOT_FOUND")
	m, _ := members.GetByUserAndOrg(org.OrgId, "u2")
	assert.Nil(t, m)
}

func TestOrganizationDetailWithStats(t *testing.T) {
	svc, _, members := newOrgFixture(testApp())

	org, err := svc.Create("u1", &model.CreateOrgReq{Name: "Acme"})
	require.NoError(t, err)
	members.Add(&model.OrganizationMember{MemberId: "m2", OrgId: org.OrgId, UserId: "u2", Role: "STAFF"})

	detail, err := svc.Detail(org.OrgId)
	require.NoError(t, err)
	assert.Equal(t, "acme", detail.Slug)
	require.NotNil(t, detail.Stats)
	assert.Equal(t, int64(2), detail.Stats.MemberCount)
	assert.Equal(t, int64(1), detail.Stats.RoleCounts[string(rbac.RoleOwner)])
}

func TestListByUser(t *testing.T) {
	svc, _, _ := newOrgFixture(testApp())

	_, err := svc.Create("u1", &model.CreateOrgReq{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create("u1", &model.CreateOrgReq{Name: "Two"})
	require.NoError(t, err)
	_, err = svc.Create("u2", &model.CreateOrgReq{Name: "Other"})
	require.NoError(t, err)

	orgs, err := svc.ListByUser("u1")
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
}
