package scheduler

import (
	"fmt"
	"strings"
)

type ConstraintKind string

const (
	NotBefore ConstraintKind = "not_before"
	NotAfter  ConstraintKind = "not_after"
)

// Constraint 表示一个「不早于/不晚于某时刻」的约束
// 无状态，可以在多次评分中复用
type Constraint struct {
	Kind      ConstraintKind
	Threshold Clock
}

// Violations 返回时刻 t 违反此约束的次数（0 或 1）
// not_before 只在 t 严格早于阈值时违反，not_after 只在 t 严格晚于阈值时违反
func (c Constraint) Violations(t Clock) int {
	switch c.Kind {
	case NotBefore:
		if t.Before(c.Threshold) {
			return 1
		}
	case NotAfter:
		if t.After(c.Threshold) {
			return 1
		}
	}

	return 0
}

// ParseConstraint 解析形如 "not_before 13:30" 的约束描述
// 最后一个字段是阈值时刻，其余字段用下划线拼起来作为约束类型
func ParseConstraint(spec string) (Constraint, error) {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return Constraint{}, fmt.Errorf("约束 %q 的格式错误，应为 \"<not_before|not_after> HH:MM\"", spec)
	}

	threshold, err := ParseClock(fields[len(fields)-1])
	if err != nil {
		return Constraint{}, err
	}

	kind := ConstraintKind(strings.Join(fields[:len(fields)-1], "_"))
	switch kind {
	case NotBefore, NotAfter:
		return Constraint{Kind: kind, Threshold: threshold}, nil
	default:
		return Constraint{}, fmt.Errorf("未知的约束类型 %s", kind)
	}
}

// ParseConstraints 解析一组约束描述
func ParseConstraints(specs []string) ([]Constraint, error) {
	constraints := make([]Constraint, 0, len(specs))
	for _, spec := range specs {
		constraint, err := ParseConstraint(spec)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}

	return constraints, nil
}
