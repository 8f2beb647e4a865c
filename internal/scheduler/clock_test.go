package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"09:30", "09:30"},
		{"9:30", "09:30"}, // 小时允许不补零
		{"0:00", "00:00"},
		{"23:59", "23:59"},
	}

	for _, tc := range testCases {
		clock, err := ParseClock(tc.input)
		require.NoError(t, err, "input: %s", tc.input)
		require.Equal(t, tc.expected, clock.String())
	}
}

func TestParseClockInvalid(t *testing.T) {
	invalidInputs := []string{"", "930", "24:00", "10:60", "-1:30", "ab:cd", "10:"}

	for _, input := range invalidInputs {
		_, err := ParseClock(input)
		require.Error(t, err, "input: %s", input)
	}
}

func TestClockAdd(t *testing.T) {
	clock := NewClock(9, 50)

	require.Equal(t, "10:10", clock.Add(20).String()) // 跨小时进位
	require.Equal(t, "09:50", clock.Add(0).String())
	require.Equal(t, "11:50", clock.Add(120).String())

	// 逐步加和一次性加的结果应该一致
	step := clock
	for i := 0; i < 6; i++ {
		step = step.Add(15)
	}
	require.Equal(t, clock.Add(90).String(), step.String())
}

func TestClockCompare(t *testing.T) {
	earlier := NewClock(9, 30)
	later := NewClock(13, 0)

	require.True(t, earlier.Before(later))
	require.True(t, later.After(earlier))
	require.False(t, earlier.Before(earlier))
	require.False(t, earlier.After(earlier))
}
