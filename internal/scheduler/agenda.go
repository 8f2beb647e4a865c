package scheduler

import (
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

// Settings 控制展开日程时的时长与茶歇/午餐插入规则，时长均以分钟为单位
type Settings struct {
	EventDuration int
	BreakEvery    int // 每隔多少个事件插入一次茶歇
	BreakDuration int
	LunchAfter    int // 每隔多少个事件插入一次午餐
	LunchDuration int
}

func DefaultSettings() Settings {
	return Settings{
		EventDuration: 15,
		BreakEvery:    5,
		BreakDuration: 15,
		LunchAfter:    10,
		LunchDuration: 60,
	}
}

// Agenda 负责把一个排列展开成完整的日程条目序列
type Agenda struct {
	events   []Event
	settings Settings
}

func NewAgenda(events []Event, settings Settings) *Agenda {
	return &Agenda{
		events:   events,
		settings: settings,
	}
}

func (a *Agenda) Len() int {
	return len(a.events)
}

// Expand 按排列展开日程：每 LunchAfter 个事件之后插入一次午餐并同时重置
// 两个计数器，每 BreakEvery 个事件之后插入一次茶歇（只重置茶歇计数器）
// 两者同时到期时只插入午餐。同一个排列的展开结果总是相同的
func (a *Agenda) Expand(order Candidate) []Item {
	items := make([]Item, 0, 2*len(order))

	sinceBreak, sinceLunch := 0, 0
	for _, idx := range order {
		event := a.events[idx]
		items = append(items, Item{
			Label:       event.Name,
			Constraints: event.Constraints,
			Duration:    a.settings.EventDuration,
		})

		sinceBreak++
		sinceLunch++

		if sinceLunch == a.settings.LunchAfter {
			items = append(items, Item{Label: domain.LunchLabel, Duration: a.settings.LunchDuration})
			sinceBreak, sinceLunch = 0, 0
		} else if sinceBreak == a.settings.BreakEvery {
			items = append(items, Item{Label: domain.BreakLabel, Duration: a.settings.BreakDuration})
			sinceBreak = 0
		}
	}

	return items
}
