package domain

import (
	"time"
)

// AgendaTemplateEvent 是待排期的一个事件，约束的格式形如 "not_before 09:30"
type AgendaTemplateEvent struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Constraints []string `json:"constraints"`
}

type AgendaTemplate struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	StartTime     string                `json:"startTime"`     // 一天的起始时刻，格式为 HH:MM
	EventDuration int32                 `json:"eventDuration"` // 以下时长均以分钟为单位
	BreakEvery    int32                 `json:"breakEvery"`    // 每隔多少个事件插入一次茶歇
	BreakDuration int32                 `json:"breakDuration"`
	LunchAfter    int32                 `json:"lunchAfter"` // 每隔多少个事件插入一次午餐
	LunchDuration int32                 `json:"lunchDuration"`
	Events        []AgendaTemplateEvent `json:"events"`
	CreatedAt     time.Time             `json:"createdAt"`
	Version       int32                 `json:"-"`
}
