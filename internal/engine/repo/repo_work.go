package repo

import (
	"gorm.io/gorm"

	"github.com/worklane/worklane/internal/engine/model"
	"github.com/worklane/worklane/pkg/database"
)

/**
 * @time: 2025/11/02
 * @file: repo_work.go
 * @description: 工单/工时仓储, 服务于成员移除前的数据归属校验与转移
 */

type IWorkRepository interface {
	// CountByMember 成员名下未完结工单数与工时记录数
	CountByMember(orgId, userId string) (openTasks, timeEntries int64, err error)
	// ReassignWork 将成员名下工单与工时一并转移给另一个成员
	ReassignWork(orgId, fromUserId, toUserId string) error
}

type WorkRepo struct {
	db         database.IDatabase
	taskModel  *model.Task
	entryModel *model.TimeEntry
}

func NewWorkRepo(db database.IDatabase) IWorkRepository {
	return &WorkRepo{
		db:         db,
		taskModel:  &model.Task{},
		entryModel: &model.TimeEntry{},
	}
}

func (wr *WorkRepo) CountByMember(orgId, userId string) (int64, int64, error) {
	var openTasks, timeEntries int64
	err := wr.db.Database().Model(wr.taskModel).
		Where("org_id = ? AND assignee_id = ? AND status <> ?", orgId, userId, "DONE").
		Count(&openTasks).Error
	if err != nil {
		return 0, 0, err
	}
	err = wr.db.Database().Model(wr.entryModel).
		Where("org_id = ? AND user_id = ?", orgId, userId).
		Count(&timeEntries).Error
	if err != nil {
		return 0, 0, err
	}
	return openTasks, timeEntries, nil
}

func (wr *WorkRepo) ReassignWork(orgId, fromUserId, toUserId string) error {
	return wr.db.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(wr.taskModel).
			Where("org_id = ? AND assignee_id = ?", orgId, fromUserId).
			Update("assignee_id", toUserId).Error; err != nil {
			return err
		}
		return tx.Model(wr.entryModel).
			Where("org_id = ? AND user_id = ?", orgId, fromUserId).
			Update("user_id", toUserId).Error
	})
}
