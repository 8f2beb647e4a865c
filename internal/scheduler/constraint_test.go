package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraintViolations(t *testing.T) {
	notBefore := Constraint{Kind: NotBefore, Threshold: NewClock(9, 30)}

	// 恰好等于阈值不算违反
	require.Equal(t, 0, notBefore.Violations(NewClock(9, 30)))
	require.Equal(t, 1, notBefore.Violations(NewClock(9, 29)))
	require.Equal(t, 0, notBefore.Violations(NewClock(10, 0)))

	notAfter := Constraint{Kind: NotAfter, Threshold: NewClock(17, 0)}

	require.Equal(t, 0, notAfter.Violations(NewClock(17, 0)))
	require.Equal(t, 1, notAfter.Violations(NewClock(17, 1)))
	require.Equal(t, 0, notAfter.Violations(NewClock(9, 0)))
}

func TestParseConstraint(t *testing.T) {
	c, err := ParseConstraint("not_before 13:30")
	require.NoError(t, err)
	require.Equal(t, NotBefore, c.Kind)
	require.Equal(t, "13:30", c.Threshold.String())

	// 空格分隔的写法也可以解析
	c, err = ParseConstraint("not before 9:30")
	require.NoError(t, err)
	require.Equal(t, NotBefore, c.Kind)
	require.Equal(t, "09:30", c.Threshold.String())

	c, err = ParseConstraint("not_after 17:00")
	require.NoError(t, err)
	require.Equal(t, NotAfter, c.Kind)
}

func TestParseConstraintInvalid(t *testing.T) {
	_, err := ParseConstraint("after 10:00")
	require.ErrorContains(t, err, "未知的约束类型 after")

	_, err = ParseConstraint("not_before")
	require.Error(t, err)

	_, err = ParseConstraint("not_before 25:00")
	require.Error(t, err)

	_, err = ParseConstraint("")
	require.Error(t, err)
}

func TestParseConstraints(t *testing.T) {
	constraints, err := ParseConstraints([]string{"not_before 9:00", "not_after 18:00"})
	require.NoError(t, err)
	require.Len(t, constraints, 2)

	_, err = ParseConstraints([]string{"not_before 9:00", "bogus 10:00"})
	require.Error(t, err)

	constraints, err = ParseConstraints(nil)
	require.NoError(t, err)
	require.Empty(t, constraints)
}
