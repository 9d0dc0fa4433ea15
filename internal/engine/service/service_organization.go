// Copyright 2025 Worklane Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"github.com/worklane/worklane/internal/engine/conf"
	"github.com/worklane/worklane/internal/engine/core"
	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/internal/engine/rbac"
	"github.com/worklane/worklane/internal/engine/repo"
	"github.com/worklane/worklane/pkg/id"
	"github.com/worklane/worklane/pkg/log"
)

/**
 * @time: 2025/11/02
 * @file: service_organization.go
 * @description: 组织生命周期
 */

type OrganizationService struct {
	orgRepo    repo.IOrganizationRepository
	memberRepo repo.IMemberRepository
	app        conf.App
}

func NewOrganizationService(orgRepo repo.IOrganizationRepository, memberRepo repo.IMemberRepository, app conf.App) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		app:        app,
	}
}

// Create 创建组织, 创建者自动成为 OWNER 成员
func (os *OrganizationService) Create(creatorUserId string, req *model.CreateOrgReq) (*model.Organization, error) {
	if req.Name == "" {
		return nil, core.ErrValidation.WithMessage("organization name is required")
	}

	if os.app.SingleTenant {
		count, err := os.orgRepo.Count()
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, core.ErrValidation.WithMessage("single tenant mode: organization already exists")
		}
	}

	slug, err := uniqueSlug(Slugify(req.Name), os.orgRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	org := &model.Organization{
		OrgId:       id.GetUUIDWithoutDashes(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		OwnerUserId: creatorUserId,
		Status:      1,
	}
	owner := &model.OrganizationMember{
		MemberId: id.GetUUIDWithoutDashes(),
		OrgId:    org.OrgId,
		UserId:   creatorUserId,
		Role:     string(rbac.RoleOwner),
	}

	if err := os.orgRepo.CreateWithOwner(org, owner); err != nil {
		log.Errorw("failed to create organization", "name", req.Name, "err", err)
		return nil, err
	}
	return org, nil
}

func (os *OrganizationService) Get(orgId string) (*model.Organization, error) {
	org, err := os.orgRepo.GetByOrgId(orgId)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, core.ErrOrgNotFound
	}
	return org, nil
}

// Detail 组织详情附带成员/邀请统计
func (os *OrganizationService) Detail(orgId string) (*model.OrgDetailResp, error) {
	org, err := os.Get(orgId)
	if err != nil {
		return nil, err
	}
	stats, err := os.orgRepo.Stats(orgId)
	if err != nil {
		return nil, err
	}
	return &model.OrgDetailResp{
		OrgResp: model.OrgResp{
			OrgId:       org.OrgId,
			Name:        org.Name,
			Slug:        org.Slug,
			Description: org.Description,
			OwnerUserId: org.OwnerUserId,
			CreatedAt:   org.CreatedAt.UnixMilli(),
		},
		Stats: stats,
	}, nil
}

func (os *OrganizationService) Stats(orgId string) (*model.OrgStatsResp, error) {
	if _, err := os.Get(orgId); err != nil {
		return nil, err
	}
	return os.orgRepo.Stats(orgId)
}

// Update 重命名可选同步重建 slug, 重建沿用创建时的冲突策略
func (os *OrganizationService) Update(orgId string, req *model.UpdateOrgReq) (*model.Organization, error) {
	org, err := os.Get(orgId)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != "" && req.Name != org.Name {
		updates["name"] = req.Name
		if req.Reslug {
			slug, err := uniqueSlug(Slugify(req.Name), func(s string) (bool, error) {
				if s == org.Slug {
					return false, nil // 自身的 slug 不算冲突
				}
				return os.orgRepo.SlugExists(s)
			})
			if err != nil {
				return nil, err
			}
			updates["slug"] = slug
		}
	}
	if req.Description != org.Description {
		updates["description"] = req.Description
	}

	if len(updates) == 0 {
		return org, nil
	}
	if err := os.orgRepo.Update(orgId, updates); err != nil {
		return nil, err
	}
	return os.Get(orgId)
}

// Delete 默认仅允许删除只剩 OWNER 一人的组织; force 时级联清理
func (os *OrganizationService) Delete(orgId string, force bool) error {
	if _, err := os.Get(orgId); err != nil {
		return err
	}

	count, err := os.memberRepo.Count(orgId)
	if err != nil {
		return err
	}
	if count > 1 && !force {
		return core.ErrOrgNotEmpty
	}

	return os.orgRepo.DeleteCascade(orgId)
}

func (os *OrganizationService) ListByUser(userId string) ([]model.OrgResp, error) {
	orgs, err := os.orgRepo.ListByUser(userId)
	if err != nil {
		return nil, err
	}
	resp := make([]model.OrgResp, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, model.OrgResp{
			OrgId:       org.OrgId,
			Name:        org.Name,
			Slug:        org.Slug,
			Description: org.Description,
			OwnerUserId: org.OwnerUserId,
			CreatedAt:   org.CreatedAt.UnixMilli(),
		})
	}
	return resp, nil
}
