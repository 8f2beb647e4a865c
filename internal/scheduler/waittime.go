package scheduler

import "slices"

// waitTimeCounter 统计单个参与者在一次评分中的等待时间和约束违反
// 每评分一个候选都会重新创建，绝不在候选之间共享
type waitTimeCounter struct {
	pending     []string // 尚未出现过的关注事件名，按名字移除
	constraints []Constraint
	active      bool
	totalTime   int
}

func newWaitTimeCounter(focus []string, constraints []Constraint) *waitTimeCounter {
	return &waitTimeCounter{
		pending:     slices.Clone(focus),
		constraints: constraints,
	}
}

// observe 处理一个日程条目，返回该条目上此参与者的约束违反次数
// 从第一个关注事件出现起，到最后一个关注事件结束为止，期间所有条目
// （包括别人的事件和茶歇/午餐）的时长都计入等待时间；最后一个关注事件
// 本身也在关闭窗口之前被计入
func (c *waitTimeCounter) observe(label string, duration int, start Clock) int {
	if i := slices.Index(c.pending, label); i >= 0 {
		c.pending = slices.Delete(c.pending, i, i+1)
		c.active = true
	}

	violations := 0
	if c.active {
		c.totalTime += duration
		for _, constraint := range c.constraints {
			violations += constraint.Violations(start)
		}
	}

	if len(c.pending) == 0 {
		c.active = false
	}

	return violations
}
