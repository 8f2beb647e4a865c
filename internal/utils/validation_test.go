package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func validTemplate() *domain.AgendaTemplate {
	return &domain.AgendaTemplate{
		Name:          "值班会议",
		StartTime:     "09:30",
		EventDuration: 15,
		BreakEvery:    5,
		BreakDuration: 15,
		LunchAfter:    10,
		LunchDuration: 60,
		Events: []domain.AgendaTemplateEvent{
			{ID: 1, Name: "开幕"},
			{ID: 2, Name: "预算讨论"},
			{ID: 3, Name: "闭幕"},
		},
	}
}

func TestValidateAgendaTemplate(t *testing.T) {
	require.NoError(t, ValidateAgendaTemplate(validTemplate()))
}

func TestValidateAgendaTemplateInvalid(t *testing.T) {
	badStart := validTemplate()
	badStart.StartTime = "9am"
	require.ErrorContains(t, ValidateAgendaTemplate(badStart), "起始时刻")

	badDuration := validTemplate()
	badDuration.EventDuration = 0
	require.ErrorContains(t, ValidateAgendaTemplate(badDuration), "事件时长")

	badBreak := validTemplate()
	badBreak.BreakEvery = 0
	require.ErrorContains(t, ValidateAgendaTemplate(badBreak), "茶歇")

	badLunch := validTemplate()
	badLunch.LunchDuration = 0
	require.ErrorContains(t, ValidateAgendaTemplate(badLunch), "午餐")

	emptyName := validTemplate()
	emptyName.Events[1].Name = ""
	require.ErrorContains(t, ValidateAgendaTemplate(emptyName), "名称不能为空")

	reservedName := validTemplate()
	reservedName.Events[1].Name = domain.BreakLabel
	require.ErrorContains(t, ValidateAgendaTemplate(reservedName), "事件名称不能为")

	duplicateName := validTemplate()
	duplicateName.Events[1].Name = "开幕"
	require.ErrorContains(t, ValidateAgendaTemplate(duplicateName), "重复")
}

func TestValidateAgendaPlanTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	plan := &domain.AgendaPlan{
		SubmissionStartTime: base,
		SubmissionEndTime:   base.Add(24 * time.Hour),
		ActiveStartTime:     base.Add(48 * time.Hour),
		ActiveEndTime:       base.Add(72 * time.Hour),
	}
	require.NoError(t, ValidateAgendaPlanTime(plan))

	reversed := *plan
	reversed.SubmissionEndTime = base.Add(-time.Hour)
	require.ErrorContains(t, ValidateAgendaPlanTime(&reversed), "提交开始时间")

	reversed = *plan
	reversed.ActiveEndTime = plan.ActiveStartTime.Add(-time.Hour)
	require.ErrorContains(t, ValidateAgendaPlanTime(&reversed), "生效开始时间不能晚于")

	// 生效期不能和提交期重叠
	overlapping := *plan
	overlapping.ActiveStartTime = plan.SubmissionEndTime.Add(-time.Hour)
	require.ErrorContains(t, ValidateAgendaPlanTime(&overlapping), "不能早于提交结束时间")
}

func TestValidateSubmissionWithTemplate(t *testing.T) {
	template := validTemplate()

	require.NoError(t, ValidateSubmissionWithTemplate(&domain.FocusSubmission{
		EventIDs: []int64{1, 3},
	}, template))

	require.NoError(t, ValidateSubmissionWithTemplate(&domain.FocusSubmission{}, template))

	err := ValidateSubmissionWithTemplate(&domain.FocusSubmission{
		EventIDs: []int64{1, 1},
	}, template)
	require.ErrorContains(t, err, "重复")

	err = ValidateSubmissionWithTemplate(&domain.FocusSubmission{
		EventIDs: []int64{99},
	}, template)
	require.ErrorContains(t, err, "不存在于模板中")
}

func resultItem(position int32, eventID int64, label string) domain.AgendaResultItem {
	id := eventID
	return domain.AgendaResultItem{Position: position, EventID: &id, Label: label}
}

func TestValidateAgendaResultWithTemplate(t *testing.T) {
	template := validTemplate()

	result := &domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			resultItem(0, 2, "预算讨论"),
			resultItem(1, 1, "开幕"),
			{Position: 2, Label: domain.BreakLabel},
			resultItem(3, 3, "闭幕"),
		},
	}
	require.NoError(t, ValidateAgendaResultWithTemplate(result, template))
}

func TestValidateAgendaResultWithTemplateInvalid(t *testing.T) {
	template := validTemplate()

	// 无事件 ID 的条目只能是茶歇或午餐
	err := ValidateAgendaResultWithTemplate(&domain.AgendaResult{
		Items: []domain.AgendaResultItem{{Position: 0, Label: "自由讨论"}},
	}, template)
	require.ErrorContains(t, err, "既不是模板中的事件也不是茶歇/午餐")

	err = ValidateAgendaResultWithTemplate(&domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			resultItem(0, 99, "开幕"),
		},
	}, template)
	require.ErrorContains(t, err, "不存在于模板中")

	err = ValidateAgendaResultWithTemplate(&domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			resultItem(0, 1, "预算讨论"),
		},
	}, template)
	require.ErrorContains(t, err, "不一致")

	err = ValidateAgendaResultWithTemplate(&domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			resultItem(0, 1, "开幕"),
			resultItem(1, 1, "开幕"),
			resultItem(2, 2, "预算讨论"),
			resultItem(3, 3, "闭幕"),
		},
	}, template)
	require.ErrorContains(t, err, "出现了多次")

	// 缺少一个事件
	err = ValidateAgendaResultWithTemplate(&domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			resultItem(0, 1, "开幕"),
			resultItem(1, 2, "预算讨论"),
		},
	}, template)
	require.ErrorContains(t, err, "数量不匹配")
}
