package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func ValidateAgendaTemplate(template *domain.AgendaTemplate) error {
	if _, err := time.Parse("15:04", template.StartTime); err != nil {
		return fmt.Errorf("起始时刻 %s 的格式错误，应为 HH:MM", template.StartTime)
	}

	if template.EventDuration < 1 {
		return fmt.Errorf("事件时长必须至少为 1 分钟")
	}
	if template.BreakEvery < 1 || template.BreakDuration < 1 {
		return fmt.Errorf("茶歇的间隔和时长必须至少为 1")
	}
	if template.LunchAfter < 1 || template.LunchDuration < 1 {
		return fmt.Errorf("午餐的间隔和时长必须至少为 1")
	}

	// 事件名不能为空、不能重复，也不能占用茶歇/午餐的标签
	seen := make(map[string]bool)
	for i, event := range template.Events {
		if event.Name == "" {
			return fmt.Errorf("第 %d 个事件的名称不能为空", i+1)
		}
		if event.Name == domain.BreakLabel || event.Name == domain.LunchLabel {
			return fmt.Errorf("事件名称不能为 %s", event.Name)
		}
		if seen[event.Name] {
			return fmt.Errorf("事件名称 %s 重复", event.Name)
		}
		seen[event.Name] = true
	}

	return nil
}

func ValidateAgendaPlanTime(plan *domain.AgendaPlan) error {
	if plan.SubmissionStartTime.After(plan.SubmissionEndTime) {
		return fmt.Errorf("提交开始时间不能晚于提交结束时间")
	}

	if plan.ActiveStartTime.After(plan.ActiveEndTime) {
		return fmt.Errorf("生效开始时间不能晚于生效结束时间")
	}

	if plan.ActiveStartTime.Before(plan.SubmissionEndTime) {
		return fmt.Errorf("生效开始时间不能早于提交结束时间")
	}

	return nil
}

func ValidateSubmissionWithTemplate(submission *domain.FocusSubmission, template *domain.AgendaTemplate) error {
	seen := make(map[int64]bool)

	for _, eventID := range submission.EventIDs {
		if seen[eventID] {
			return fmt.Errorf("关注的事件 %d 重复", eventID)
		}
		seen[eventID] = true

		exists := false
		for _, event := range template.Events {
			if event.ID == eventID {
				exists = true
				break
			}
		}
		if !exists {
			return fmt.Errorf("关注的事件 %d 不存在于模板中", eventID)
		}
	}

	return nil
}

// ValidateAgendaResultWithTemplate 校验结果中的事件条目恰好是模板事件的一个排列，
// 且剩余条目只能是茶歇/午餐
func ValidateAgendaResultWithTemplate(result *domain.AgendaResult, template *domain.AgendaTemplate) error {
	nameByID := make(map[int64]string, len(template.Events))
	for _, event := range template.Events {
		nameByID[event.ID] = event.Name
	}

	seen := make(map[int64]bool)
	for _, item := range result.Items {
		if item.EventID == nil {
			if item.Label != domain.BreakLabel && item.Label != domain.LunchLabel {
				return fmt.Errorf("第 %d 个条目既不是模板中的事件也不是茶歇/午餐", item.Position+1)
			}
			continue
		}

		name, exists := nameByID[*item.EventID]
		if !exists {
			return fmt.Errorf("第 %d 个条目引用的事件 %d 不存在于模板中", item.Position+1, *item.EventID)
		}
		if name != item.Label {
			return fmt.Errorf("第 %d 个条目的名称和模板中的事件 %d 不一致", item.Position+1, *item.EventID)
		}
		if seen[*item.EventID] {
			return fmt.Errorf("事件 %d 在结果中出现了多次", *item.EventID)
		}
		seen[*item.EventID] = true
	}

	if len(seen) != len(template.Events) {
		return fmt.Errorf("结果中的事件数量和模板中的事件数量不匹配")
	}

	return nil
}
