package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func makeEvents(n int) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{Name: fmt.Sprintf("议题%d", i+1)}
	}
	return events
}

func identityOrder(n int) Candidate {
	order := make(Candidate, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func labels(items []Item) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.Label
	}
	return result
}

func TestAgendaExpand(t *testing.T) {
	agenda := NewAgenda(makeEvents(12), DefaultSettings())

	items := agenda.Expand(identityOrder(12))

	// 12 个事件，第 5 个之后插入茶歇，第 10 个之后插入午餐
	// 午餐同时重置茶歇计数器，所以第 10 个之后不会同时出现茶歇
	expected := []string{
		"议题1", "议题2", "议题3", "议题4", "议题5", domain.BreakLabel,
		"议题6", "议题7", "议题8", "议题9", "议题10", domain.LunchLabel,
		"议题11", "议题12",
	}
	require.Equal(t, expected, labels(items))

	// 茶歇和午餐使用各自的时长
	require.Equal(t, 15, items[5].Duration)
	require.Equal(t, 60, items[11].Duration)
	require.Equal(t, 15, items[0].Duration)
}

func TestAgendaExpandLunchResetsBreakCounter(t *testing.T) {
	settings := DefaultSettings()
	settings.BreakEvery = 2
	settings.LunchAfter = 4

	agenda := NewAgenda(makeEvents(6), settings)
	items := agenda.Expand(identityOrder(6))

	// 第 2 个之后茶歇，第 4 个之后只插入午餐（午餐优先且重置茶歇计数），
	// 午餐之后重新数 2 个事件再插入茶歇
	expected := []string{
		"议题1", "议题2", domain.BreakLabel,
		"议题3", "议题4", domain.LunchLabel,
		"议题5", "议题6", domain.BreakLabel,
	}
	require.Equal(t, expected, labels(items))
}

func TestAgendaExpandDeterministic(t *testing.T) {
	agenda := NewAgenda(makeEvents(8), DefaultSettings())
	order := Candidate{3, 1, 7, 0, 2, 6, 4, 5}

	first := agenda.Expand(order)
	second := agenda.Expand(order)
	require.Equal(t, first, second)
}

func TestAgendaExpandFollowsOrder(t *testing.T) {
	agenda := NewAgenda(makeEvents(3), DefaultSettings())

	items := agenda.Expand(Candidate{2, 0, 1})
	require.Equal(t, []string{"议题3", "议题1", "议题2"}, labels(items))
}

func TestAgendaExpandEmpty(t *testing.T) {
	agenda := NewAgenda(nil, DefaultSettings())
	require.Zero(t, agenda.Len())
	require.Empty(t, agenda.Expand(Candidate{}))
}
