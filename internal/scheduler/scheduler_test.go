package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func testTemplate(events ...domain.AgendaTemplateEvent) *domain.AgendaTemplate {
	return &domain.AgendaTemplate{
		ID:            1,
		Name:          "值班会议",
		StartTime:     "09:00",
		EventDuration: 15,
		BreakEvery:    5,
		BreakDuration: 15,
		LunchAfter:    10,
		LunchDuration: 60,
		Events:        events,
	}
}

func testParameters() *Parameters {
	return &Parameters{
		PopulationSize:  20,
		MaxGenerations:  10,
		EliteCount:      4,
		SwapProbability: 0.8,
	}
}

func TestSchedule(t *testing.T) {
	template := testTemplate(
		domain.AgendaTemplateEvent{ID: 1, Name: "开幕"},
		domain.AgendaTemplateEvent{ID: 2, Name: "预算讨论"},
		domain.AgendaTemplateEvent{ID: 3, Name: "闭幕"},
	)
	submissions := []*domain.FocusSubmission{
		{UserID: 7, EventIDs: []int64{1, 2, 3}},
	}
	users := []*domain.User{
		{ID: 7, Username: "zhangsan", FullName: "张三"},
	}

	sched, err := New(testParameters(), template, submissions, users)
	require.NoError(t, err)

	result, err := sched.Schedule()
	require.NoError(t, err)

	// 三个事件不会触发茶歇和午餐，条目就是事件的一个排列
	require.Len(t, result.Items, 3)
	seen := make(map[int64]bool)
	for pos, item := range result.Items {
		require.Equal(t, int32(pos), item.Position)
		require.NotNil(t, item.EventID)
		seen[*item.EventID] = true
		// 关注所有事件的参与者出现在每个条目上
		require.Equal(t, []int64{7}, item.StakeholderIDs)
	}
	require.Len(t, seen, 3)

	// 时间轴从起始时刻开始且条目首尾相接
	require.Equal(t, "09:00", result.Items[0].StartTime)
	for i := 1; i < len(result.Items); i++ {
		require.Equal(t, result.Items[i-1].EndTime, result.Items[i].StartTime)
	}
	require.Equal(t, "09:45", result.Items[2].EndTime)

	// 关注全部事件时等待时间与排列无关
	require.Equal(t, []domain.AgendaResultWaitTime{{UserID: 7, WaitMinutes: 45}}, result.WaitTimes)
	require.Equal(t, int32(0), result.Violations)
	require.Equal(t, 45.0, result.Score)
}

func TestScheduleInsertsBreaks(t *testing.T) {
	events := make([]domain.AgendaTemplateEvent, 6)
	names := []string{"开幕", "排班评审", "预算讨论", "设备采购", "培训安排", "闭幕"}
	for i := range events {
		events[i] = domain.AgendaTemplateEvent{ID: int64(i + 1), Name: names[i]}
	}

	sched, err := New(testParameters(), testTemplate(events...), nil, nil)
	require.NoError(t, err)

	result, err := sched.Schedule()
	require.NoError(t, err)

	// 6 个事件在第 5 个之后插入一次茶歇
	require.Len(t, result.Items, 7)
	breakItem := result.Items[5]
	require.Equal(t, domain.BreakLabel, breakItem.Label)
	require.Nil(t, breakItem.EventID)
	require.Equal(t, "10:15", breakItem.StartTime)
	require.Equal(t, "10:30", breakItem.EndTime)
	require.Equal(t, "10:45", result.Items[6].EndTime)
}

func TestScheduleImpossibleConstraint(t *testing.T) {
	// 三个事件最晚 09:30 开始，not_before 23:00 无法满足
	template := testTemplate(
		domain.AgendaTemplateEvent{ID: 1, Name: "开幕", Constraints: []string{"not_before 23:00"}},
		domain.AgendaTemplateEvent{ID: 2, Name: "预算讨论"},
		domain.AgendaTemplateEvent{ID: 3, Name: "闭幕"},
	)

	sched, err := New(testParameters(), template, nil, nil)
	require.NoError(t, err)

	result, err := sched.Schedule()
	require.NoError(t, err)

	require.GreaterOrEqual(t, result.Violations, int32(1))
	require.GreaterOrEqual(t, result.Score, 1000.0)
}

func TestScheduleStakeholderConstraint(t *testing.T) {
	template := testTemplate(
		domain.AgendaTemplateEvent{ID: 1, Name: "开幕"},
		domain.AgendaTemplateEvent{ID: 2, Name: "预算讨论"},
		domain.AgendaTemplateEvent{ID: 3, Name: "闭幕"},
	)
	// 参与者只关注一个事件，要求不早于 09:30：把它排到最后即可满足
	submissions := []*domain.FocusSubmission{
		{UserID: 7, EventIDs: []int64{2}, Constraints: []string{"not_before 09:30"}},
	}
	users := []*domain.User{{ID: 7, Username: "zhangsan"}}

	sched, err := New(testParameters(), template, submissions, users)
	require.NoError(t, err)

	result, err := sched.Schedule()
	require.NoError(t, err)

	require.Equal(t, int32(0), result.Violations)
	require.Equal(t, 15.0, result.Score)
}

func TestScheduleEmptyTemplate(t *testing.T) {
	sched, err := New(testParameters(), testTemplate(), nil, nil)
	require.NoError(t, err)

	result, err := sched.Schedule()
	require.NoError(t, err)

	require.Empty(t, result.Items)
	require.Empty(t, result.WaitTimes)
	require.Equal(t, 0.0, result.Score)
}

func TestNewValidation(t *testing.T) {
	template := testTemplate(domain.AgendaTemplateEvent{ID: 1, Name: "开幕"})

	parameters := testParameters()
	parameters.PopulationSize = 0
	_, err := New(parameters, template, nil, nil)
	require.ErrorContains(t, err, "种群大小")

	parameters = testParameters()
	parameters.EliteCount = 0
	_, err = New(parameters, template, nil, nil)
	require.ErrorContains(t, err, "精英数量")

	badStart := testTemplate(domain.AgendaTemplateEvent{ID: 1, Name: "开幕"})
	badStart.StartTime = "9am"
	_, err = New(testParameters(), badStart, nil, nil)
	require.ErrorContains(t, err, "起始时刻")

	badConstraint := testTemplate(
		domain.AgendaTemplateEvent{ID: 1, Name: "开幕", Constraints: []string{"bogus 10:00"}},
	)
	_, err = New(testParameters(), badConstraint, nil, nil)
	require.ErrorContains(t, err, "约束不合法")
}

func TestNewSubmissionValidation(t *testing.T) {
	template := testTemplate(domain.AgendaTemplateEvent{ID: 1, Name: "开幕"})
	users := []*domain.User{{ID: 7, Username: "zhangsan"}}

	// 提交者不在 users 里
	_, err := New(testParameters(), template, []*domain.FocusSubmission{
		{UserID: 8, EventIDs: []int64{1}},
	}, users)
	require.ErrorContains(t, err, "不在传入的 users 数组中")

	// 关注了模板之外的事件
	_, err = New(testParameters(), template, []*domain.FocusSubmission{
		{UserID: 7, EventIDs: []int64{99}},
	}, users)
	require.ErrorContains(t, err, "不在模板中")

	// 个人约束解析失败
	_, err = New(testParameters(), template, []*domain.FocusSubmission{
		{UserID: 7, EventIDs: []int64{1}, Constraints: []string{"bogus 10:00"}},
	}, users)
	require.ErrorContains(t, err, "约束不合法")
}
