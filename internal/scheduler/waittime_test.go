package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaitTimeCounterWindow(t *testing.T) {
	counter := newWaitTimeCounter([]string{"B", "F"}, nil)

	// 关注 B 和 F：从 B 出现到 F 结束之间的所有条目都计入等待时间
	sequence := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	clock := NewClock(9, 0)
	for _, label := range sequence {
		counter.observe(label, 10, clock)
		clock = clock.Add(10)
	}

	require.Equal(t, 50, counter.totalTime)
	require.False(t, counter.active)
	require.Empty(t, counter.pending)
}

func TestWaitTimeCounterSingleFocus(t *testing.T) {
	counter := newWaitTimeCounter([]string{"C"}, nil)

	// 只关注一个事件时，等待时间就是该事件自身的时长
	for _, label := range []string{"A", "B", "C", "D"} {
		counter.observe(label, 15, NewClock(9, 0))
	}

	require.Equal(t, 15, counter.totalTime)
}

func TestWaitTimeCounterCountsInsertedItems(t *testing.T) {
	counter := newWaitTimeCounter([]string{"A", "C"}, nil)

	clock := NewClock(9, 0)
	counter.observe("A", 15, clock)
	counter.observe("茶歇", 30, clock.Add(15)) // 窗口内的茶歇也计入等待时间
	counter.observe("C", 15, clock.Add(45))

	require.Equal(t, 60, counter.totalTime)
}

func TestWaitTimeCounterConstraints(t *testing.T) {
	constraints := []Constraint{{Kind: NotBefore, Threshold: NewClock(10, 0)}}
	counter := newWaitTimeCounter([]string{"B"}, constraints)

	// 窗口外的条目不检查参与者的约束
	violations := counter.observe("A", 15, NewClock(9, 0))
	require.Equal(t, 0, violations)

	// B 在 09:15 开始，早于 not_before 10:00 的阈值
	violations = counter.observe("B", 15, NewClock(9, 15))
	require.Equal(t, 1, violations)

	// 窗口已关闭，之后的条目不再检查
	violations = counter.observe("C", 15, NewClock(9, 30))
	require.Equal(t, 0, violations)
}

func TestWaitTimeCounterDuplicateFocus(t *testing.T) {
	// 重复关注同一个事件名时按多重集合处理，需要出现两次才关闭窗口
	counter := newWaitTimeCounter([]string{"A", "A"}, nil)

	counter.observe("A", 10, NewClock(9, 0))
	require.True(t, counter.active)

	counter.observe("B", 10, NewClock(9, 10))
	counter.observe("A", 10, NewClock(9, 20))
	require.False(t, counter.active)
	require.Equal(t, 30, counter.totalTime)
}

func TestWaitTimeCounterNoFocus(t *testing.T) {
	counter := newWaitTimeCounter(nil, nil)

	for _, label := range []string{"A", "B"} {
		require.Equal(t, 0, counter.observe(label, 15, NewClock(9, 0)))
	}
	require.Equal(t, 0, counter.totalTime)
}
