package scheduler

import (
	"fmt"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/utils"
)

type Scheduler struct {
	parameters   *Parameters
	agenda       *Agenda
	startTime    Clock
	template     *domain.AgendaTemplate
	stakeholders []*Stakeholder
	users        []*domain.User // 与 stakeholders 对齐，只包含提交了关注事件的参与者
	pop          *Population
}

func New(parameters *Parameters, template *domain.AgendaTemplate, submissions []*domain.FocusSubmission, users []*domain.User) (*Scheduler, error) {
	if parameters.PopulationSize < 1 {
		return nil, fmt.Errorf("种群大小必须至少为 1")
	}
	if parameters.EliteCount < 1 {
		return nil, fmt.Errorf("精英数量必须至少为 1")
	}

	startTime, err := ParseClock(template.StartTime)
	if err != nil {
		return nil, fmt.Errorf("模板的起始时刻不合法: %w", err)
	}

	// 解析模板中的事件及其约束，顺便建立事件 ID 到事件名的映射，
	// 供把提交中的事件 ID 换算成事件名使用
	events := make([]Event, len(template.Events))
	eventNameByID := make(map[int64]string, len(template.Events))
	for i, event := range template.Events {
		constraints, err := ParseConstraints(event.Constraints)
		if err != nil {
			return nil, fmt.Errorf("事件 %s 的约束不合法: %w", event.Name, err)
		}
		events[i] = Event{Name: event.Name, Constraints: constraints}
		eventNameByID[event.ID] = event.Name
	}

	settings := Settings{
		EventDuration: int(template.EventDuration),
		BreakEvery:    int(template.BreakEvery),
		BreakDuration: int(template.BreakDuration),
		LunchAfter:    int(template.LunchAfter),
		LunchDuration: int(template.LunchDuration),
	}

	s := &Scheduler{
		parameters: parameters,
		agenda:     NewAgenda(events, settings),
		startTime:  startTime,
		template:   template,
	}

	for _, submission := range submissions {
		var user *domain.User = nil
		for _, u := range users {
			if u.ID == submission.UserID {
				user = u
				break
			}
		}

		if user == nil {
			return nil, fmt.Errorf("用户 %d 不在传入的 users 数组中", submission.UserID)
		}

		focus := make([]string, 0, len(submission.EventIDs))
		for _, eventID := range submission.EventIDs {
			name, exists := eventNameByID[eventID]
			if !exists {
				return nil, fmt.Errorf("用户 %d 关注的事件 %d 不在模板中", submission.UserID, eventID)
			}
			focus = append(focus, name)
		}

		constraints, err := ParseConstraints(submission.Constraints)
		if err != nil {
			return nil, fmt.Errorf("用户 %d 的约束不合法: %w", submission.UserID, err)
		}

		s.stakeholders = append(s.stakeholders, &Stakeholder{
			Name:        user.Username,
			Focus:       focus,
			Constraints: constraints,
		})
		s.users = append(s.users, user)
	}

	return s, nil
}

func (s *Scheduler) Schedule() (*domain.AgendaResult, error) {
	// 生成初始种群并迭代
	s.pop = newPopulation(s.parameters, s.agenda, s.stakeholders, s.startTime)
	s.pop.optimize(s.parameters.MaxGenerations)

	// 对最优候选重新走一遍日程，得到各参与者的等待时间和违反约束总数
	best := s.pop.best()
	waitTimes, violations := s.pop.walk(best)

	// 事件名到事件 ID 的反向映射，以及每个事件名对应的在场参与者
	idByName := make(map[string]int64, len(s.template.Events))
	for _, event := range s.template.Events {
		idByName[event.Name] = event.ID
	}

	presentByName := make(map[string][]int64)
	for i, stakeholder := range s.stakeholders {
		for _, name := range stakeholder.Focus {
			presentByName[name] = append(presentByName[name], s.users[i].ID)
		}
	}

	result := &domain.AgendaResult{
		Violations: int32(violations),
		Score:      s.pop.scores[0],
	}

	t := s.startTime
	for pos, item := range s.agenda.Expand(best) {
		end := t.Add(item.Duration)

		resultItem := domain.AgendaResultItem{
			Position:       int32(pos),
			Label:          item.Label,
			StartTime:      t.String(),
			EndTime:        end.String(),
			StakeholderIDs: make([]int64, 0),
		}
		if id, exists := idByName[item.Label]; exists {
			eventID := id
			resultItem.EventID = &eventID
		}
		resultItem.StakeholderIDs = append(resultItem.StakeholderIDs, presentByName[item.Label]...)

		result.Items = append(result.Items, resultItem)
		t = end
	}

	for i := range s.stakeholders {
		result.WaitTimes = append(result.WaitTimes, domain.AgendaResultWaitTime{
			UserID:      s.users[i].ID,
			WaitMinutes: int32(waitTimes[i]),
		})
	}

	// 最后还需要校验结果确实是模板事件的一个排列（调用 utils 包中的方法就可以了）
	if err := utils.ValidateAgendaResultWithTemplate(result, s.template); err != nil {
		return nil, err
	}

	return result, nil
}
