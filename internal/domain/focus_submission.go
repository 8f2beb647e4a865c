package domain

import "time"

// FocusSubmission 是参与者针对某个排期计划提交的关注事件集合，
// 以及他个人的时刻约束（格式和事件约束一致）
type FocusSubmission struct {
	ID           int64     `json:"id"`
	AgendaPlanID int64     `json:"agendaPlanID"`
	UserID       int64     `json:"userID"`
	EventIDs     []int64   `json:"eventIDs"`
	Constraints  []string  `json:"constraints"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
