package seed

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/utils"
	"gopkg.in/yaml.v3"
)

// AgendaFile 是 YAML 会议描述文件的结构，事件和参与者都用名称引用
type AgendaFile struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	StartTime     string `yaml:"start_time"`
	EventDuration int32  `yaml:"event_duration"`
	BreakEvery    int32  `yaml:"break_every"`
	BreakDuration int32  `yaml:"break_duration"`
	LunchAfter    int32  `yaml:"lunch_after"`
	LunchDuration int32  `yaml:"lunch_duration"`
	Events        []struct {
		Name        string   `yaml:"name"`
		Constraints []string `yaml:"constraints"`
	} `yaml:"events"`
	Stakeholders []struct {
		Name        string   `yaml:"name"`
		Focus       []string `yaml:"focus"`
		Constraints []string `yaml:"constraints"`
	} `yaml:"stakeholders"`
}

// SeedFromFile 从 YAML 会议描述文件导入模板、排期计划、参与者和提交记录
func SeedFromFile(cfg *config.Config, r *repository.Repository, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}

	var file AgendaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		slog.Error("解析文件失败", "error", err)
		return
	}

	if file.Name == "" {
		file.Name = "导入的会议 " + utils.GenerateRandomID(3, 3)
	}

	// 未填写的日程设置用配置中的默认值补全
	if file.StartTime == "" {
		file.StartTime = cfg.Agenda.StartTime
	}
	if file.EventDuration == 0 {
		file.EventDuration = int32(cfg.Agenda.EventDuration)
	}
	if file.BreakEvery == 0 {
		file.BreakEvery = int32(cfg.Agenda.BreakEvery)
	}
	if file.BreakDuration == 0 {
		file.BreakDuration = int32(cfg.Agenda.BreakDuration)
	}
	if file.LunchAfter == 0 {
		file.LunchAfter = int32(cfg.Agenda.LunchAfter)
	}
	if file.LunchDuration == 0 {
		file.LunchDuration = int32(cfg.Agenda.LunchDuration)
	}

	// 插入议程模板
	template := &domain.AgendaTemplate{
		Name:          file.Name,
		Description:   file.Description,
		StartTime:     file.StartTime,
		EventDuration: file.EventDuration,
		BreakEvery:    file.BreakEvery,
		BreakDuration: file.BreakDuration,
		LunchAfter:    file.LunchAfter,
		LunchDuration: file.LunchDuration,
		Events:        make([]domain.AgendaTemplateEvent, 0, len(file.Events)),
	}

	for _, event := range file.Events {
		constraints := event.Constraints
		if constraints == nil {
			constraints = []string{}
		}

		// 约束描述需要能被排期引擎解析
		if _, err := scheduler.ParseConstraints(constraints); err != nil {
			slog.Error("事件约束非法", "event", event.Name, "error", err)
			return
		}

		template.Events = append(template.Events, domain.AgendaTemplateEvent{
			Name:        event.Name,
			Constraints: constraints,
		})
	}

	if err := r.CreateAgendaTemplate(template); err != nil {
		slog.Error("插入议程模板失败", "error", err)
		return
	}

	eventIDByName := make(map[string]int64, len(template.Events))
	for _, event := range template.Events {
		eventIDByName[event.Name] = event.ID
	}

	// 插入排期计划
	// 这些时间不是准确的时间，只是为了测试
	plan := &domain.AgendaPlan{
		Name:                file.Name + " 排期",
		Description:         file.Description,
		SubmissionStartTime: time.Now().Add(-time.Hour * 24),
		SubmissionEndTime:   time.Now().Add(time.Hour * 6),
		ActiveStartTime:     time.Now().Add(time.Hour * 24 * 10),
		ActiveEndTime:       time.Now().Add(time.Hour * 24 * 20),
		AgendaTemplateID:    template.ID,
	}

	if err := r.CreateAgendaPlan(plan); err != nil {
		slog.Error("插入排期计划失败", "error", err)
		return
	}

	// 插入参与者及其提交记录
	for _, stakeholder := range file.Stakeholders {
		if stakeholder.Name == "" {
			slog.Error("参与者没有姓名", "stakeholder", stakeholder)
			continue
		}

		username := utils.GenerateUsernameFromChineseName(stakeholder.Name)

		user, err := r.GetUserByUsername(username)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// 表示该参与者不在数据库中，需要新建并插入
				user = &domain.User{
					Username:     username,
					PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // ecnc@test8403
					FullName:     stakeholder.Name,
					Email:        username + "@" + cfg.Email.UserDomain,
					Role:         domain.RoleMember,
				}

				if err := r.CreateUser(user); err != nil {
					slog.Error("插入参与者失败", "error", err)
					continue
				}
			default:
				slog.Error("获取参与者失败", "error", err)
				continue
			}
		}

		// 插入提交记录
		submission := &domain.FocusSubmission{
			AgendaPlanID: plan.ID,
			UserID:       user.ID,
			EventIDs:     make([]int64, 0, len(stakeholder.Focus)),
			Constraints:  []string{},
		}

		for _, name := range stakeholder.Focus {
			eventID, exists := eventIDByName[name]
			if !exists {
				slog.Error("没有找到关注的事件", "event", name)
				continue
			}
			submission.EventIDs = append(submission.EventIDs, eventID)
		}

		if stakeholder.Constraints != nil {
			if _, err := scheduler.ParseConstraints(stakeholder.Constraints); err != nil {
				slog.Error("参与者约束非法", "stakeholder", stakeholder.Name, "error", err)
				continue
			}
			submission.Constraints = stakeholder.Constraints
		}

		if err := r.InsertFocusSubmission(submission); err != nil {
			slog.Error("插入提交记录失败", "error", err)
			continue
		}
	}

	slog.Info("插入数据完成")
}
