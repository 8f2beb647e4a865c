package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 参考日期，具体是哪一天无所谓，只要所有 Clock 都锚定在同一天即可
var referenceDate = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock 表示一天内的某个时刻，精确到分钟
// 只有时刻之间的比较和加减是有意义的
type Clock struct {
	t time.Time
}

func NewClock(hour int, minute int) Clock {
	return Clock{t: referenceDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)}
}

// ParseClock 解析 "HH:MM" 格式的时刻，小时允许不补零（如 "9:30"）
func ParseClock(s string) (Clock, error) {
	hourPart, minutePart, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("时刻 %q 的格式错误，应为 HH:MM", s)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("时刻 %q 中的小时不合法", s)
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("时刻 %q 中的分钟不合法", s)
	}

	return NewClock(hour, minute), nil
}

// Add 返回往后推 minutes 分钟的新时刻，跨小时会自动进位
func (c Clock) Add(minutes int) Clock {
	return Clock{t: c.t.Add(time.Duration(minutes) * time.Minute)}
}

func (c Clock) Before(other Clock) bool {
	return c.t.Before(other.t)
}

func (c Clock) After(other Clock) bool {
	return c.t.After(other.t)
}

func (c Clock) String() string {
	return c.t.Format("15:04")
}
