package domain

import "time"

// 茶歇和午餐条目的标签，模板中的事件不允许使用这两个名字
const (
	BreakLabel = "茶歇"
	LunchLabel = "午餐"
)

// AgendaResultItem 是最终日程中的一个条目
// EventID 为 nil 时表示这是插入的茶歇/午餐
type AgendaResultItem struct {
	Position       int32   `json:"position"`
	EventID        *int64  `json:"eventID"`
	Label          string  `json:"label"`
	StartTime      string  `json:"startTime"` // HH:MM
	EndTime        string  `json:"endTime"`   // HH:MM
	StakeholderIDs []int64 `json:"stakeholderIDs"`
}

type AgendaResultWaitTime struct {
	UserID      int64 `json:"userID"`
	WaitMinutes int32 `json:"waitMinutes"`
}

type AgendaResult struct {
	ID           int64                  `json:"id"`
	AgendaPlanID int64                  `json:"agendaPlanID"`
	Items        []AgendaResultItem     `json:"items"`
	WaitTimes    []AgendaResultWaitTime `json:"waitTimes"`
	Violations   int32                  `json:"violations"`
	Score        float64                `json:"score"`
	CreatedAt    time.Time              `json:"createdAt"`
	Version      int32                  `json:"-"`
}
