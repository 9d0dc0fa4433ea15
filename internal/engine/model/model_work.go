package model

import "time"

/**
 * @time: 2025/11/02
 * @file: model_work.go
 * @description: 工单与工时, 成员移除前的数据归属校验依赖这两张表
 */

type Task struct {
	BaseModel
	TaskId     string `gorm:"column:task_id;type:varchar(64);uniqueIndex" json:"taskId"`   // 工单ID
	OrgId      string `gorm:"column:org_id;type:varchar(64);index" json:"orgId"`           // 组织ID
	Title      string `gorm:"column:title;type:varchar(255)" json:"title"`                 // 标题
	AssigneeId string `gorm:"column:assignee_id;type:varchar(64);index" json:"assigneeId"` // 当前负责人用户ID
	Status     string `gorm:"column:status;type:varchar(16)" json:"status"`                // OPEN/DONE
}

func (Task) TableName() string {
	return "t_task"
}

type TimeEntry struct {
	BaseModel
	EntryId string    `gorm:"column:entry_id;type:varchar(64);uniqueIndex" json:"entryId"` // 工时ID
	OrgId   string    `gorm:"column:org_id;type:varchar(64);index" json:"orgId"`           // 组织ID
	TaskId  string    `gorm:"column:task_id;type:varchar(64);index" json:"taskId"`         // 工单ID
	UserId  string    `gorm:"column:user_id;type:varchar(64);index" json:"userId"`         // 记录人用户ID
	Minutes int       `gorm:"column:minutes" json:"minutes"`                               // 时长(分钟)
	Day     time.Time `gorm:"column:day;type:date" json:"day"`                             // 归属日期
}

func (TimeEntry) TableName() string {
	return "t_time_entry"
}
