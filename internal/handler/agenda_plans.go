package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/utils"
)

func (h *Handler) CreateAgendaPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string    `json:"name" validate:"required"`
		Description         string    `json:"description"`
		SubmissionStartTime time.Time `json:"submissionStartTime" validate:"required"`
		SubmissionEndTime   time.Time `json:"submissionEndTime" validate:"required"`
		ActiveStartTime     time.Time `json:"activeStartTime" validate:"required"`
		ActiveEndTime       time.Time `json:"activeEndTime" validate:"required"`
		TemplateID          int64     `json:"templateID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	plan := &domain.AgendaPlan{
		Name:                req.Name,
		Description:         req.Description,
		SubmissionStartTime: req.SubmissionStartTime,
		SubmissionEndTime:   req.SubmissionEndTime,
		ActiveStartTime:     req.ActiveStartTime,
		ActiveEndTime:       req.ActiveEndTime,
		AgendaTemplateID:    req.TemplateID,
	}

	// 检查 plan 的时间是否合法
	if err := utils.ValidateAgendaPlanTime(plan); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 插入数据到数据库中
	if err := h.repository.CreateAgendaPlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "agenda_plans_name_key":
				h.errorResponse(w, r, "排期计划名称已存在")
			case "agenda_plans_agenda_template_id_fkey":
				h.errorResponse(w, r, "排期计划模板不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建排期计划成功", plan)
}

func (h *Handler) GetAgendaPlanByID(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	h.successResponse(w, r, "获取排期计划成功", plan)
}

func (h *Handler) DeleteAgendaPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	if err := h.repository.DeleteAgendaPlan(plan.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排期计划成功", nil)
}

func (h *Handler) UpdateAgendaPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	var req struct {
		Name                *string    `json:"name"`
		Description         *string    `json:"description"`
		SubmissionStartTime *time.Time `json:"submissionStartTime"`
		SubmissionEndTime   *time.Time `json:"submissionEndTime"`
		ActiveStartTime     *time.Time `json:"activeStartTime"`
		ActiveEndTime       *time.Time `json:"activeEndTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 将输入的参数解析到 plan 中
	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.SubmissionStartTime != nil {
		plan.SubmissionStartTime = *req.SubmissionStartTime
	}
	if req.SubmissionEndTime != nil {
		plan.SubmissionEndTime = *req.SubmissionEndTime
	}
	if req.ActiveStartTime != nil {
		plan.ActiveStartTime = *req.ActiveStartTime
	}
	if req.ActiveEndTime != nil {
		plan.ActiveEndTime = *req.ActiveEndTime
	}

	// 检查 plan 的时间是否合法
	if err := utils.ValidateAgendaPlanTime(plan); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 更新排期计划
	if err := h.repository.UpdateAgendaPlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "agenda_plans_name_key":
				h.errorResponse(w, r, "排期计划名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排期计划成功", plan)
}

func (h *Handler) GetAllAgendaPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.repository.GetAllAgendaPlans()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有排期计划成功", plans)
}

func (h *Handler) SubmitYourFocus(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	var req struct {
		EventIDs    []int64  `json:"eventIDs" validate:"required"`
		Constraints []string `json:"constraints"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Constraints == nil {
		req.Constraints = []string{}
	}

	// 个人约束需要能被排期引擎解析
	if _, err := scheduler.ParseConstraints(req.Constraints); err != nil {
		h.badRequest(w, r, err)
		return
	}

	submission := &domain.FocusSubmission{
		AgendaPlanID: plan.ID,
		UserID:       myInfo.ID,
		EventIDs:     req.EventIDs,
		Constraints:  req.Constraints,
	}

	// 还需要检查模板和提交的格式是否对的上
	template, err := h.repository.GetAgendaTemplate(plan.AgendaTemplateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateSubmissionWithTemplate(submission, template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.InsertFocusSubmission(submission); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "成功提交关注的议题", submission)
}

func (h *Handler) GetYourFocusSubmission(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	submission, err := h.repository.GetFocusSubmissionByUserIDAndAgendaPlanID(myInfo.ID, plan.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "你还没有提交过关注的议题", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取关注议题提交成功", submission)
}

func (h *Handler) GetAgendaPlanSubmissions(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	submissions, err := h.repository.GetAllSubmissionsByAgendaPlanID(plan.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取该排期计划所有的提交记录成功", submissions)
}

func (h *Handler) SubmitAgendaResult(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	var req struct {
		Violations int32   `json:"violations" validate:"min=0"`
		Score      float64 `json:"score" validate:"min=0"`
		Items      []struct {
			Position       int32   `json:"position" validate:"min=0"`
			EventID        *int64  `json:"eventID"`
			Label          string  `json:"label" validate:"required"`
			StartTime      string  `json:"startTime" validate:"required"`
			EndTime        string  `json:"endTime" validate:"required"`
			StakeholderIDs []int64 `json:"stakeholderIDs" validate:"required"`
		} `json:"items" validate:"required,dive"`
		WaitTimes []struct {
			UserID      int64 `json:"userID" validate:"required"`
			WaitMinutes int32 `json:"waitMinutes" validate:"min=0"`
		} `json:"waitTimes" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result := &domain.AgendaResult{
		AgendaPlanID: plan.ID,
		Violations:   req.Violations,
		Score:        req.Score,
		Items:        make([]domain.AgendaResultItem, len(req.Items)),
		WaitTimes:    make([]domain.AgendaResultWaitTime, len(req.WaitTimes)),
	}

	for i, item := range req.Items {
		result.Items[i] = domain.AgendaResultItem{
			Position:       item.Position,
			EventID:        item.EventID,
			Label:          item.Label,
			StartTime:      item.StartTime,
			EndTime:        item.EndTime,
			StakeholderIDs: item.StakeholderIDs,
		}
	}
	for i, waitTime := range req.WaitTimes {
		result.WaitTimes[i] = domain.AgendaResultWaitTime{
			UserID:      waitTime.UserID,
			WaitMinutes: waitTime.WaitMinutes,
		}
	}

	// 必须检查提交的结果是否和模板对的上
	template, err := h.repository.GetAgendaTemplate(plan.AgendaTemplateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateAgendaResultWithTemplate(result, template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.InsertAgendaResult(result); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交排期结果成功", result)
}

func (h *Handler) GetAgendaResult(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	result, err := h.repository.GetAgendaResultByAgendaPlanID(plan.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "该排期计划还没有排期结果", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排期结果成功", result)
}

func (h *Handler) GenerateAgendaResult(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	// 获取参数，未指定的参数用配置中的默认值补全
	var req struct {
		PopulationSize  int32    `json:"populationSize" validate:"omitempty,min=1"`
		MaxGenerations  int32    `json:"maxGenerations" validate:"omitempty,min=0"`
		EliteCount      int32    `json:"eliteCount" validate:"omitempty,min=1"`
		SwapProbability *float64 `json:"swapProbability" validate:"omitempty,min=0,max=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.PopulationSize == 0 {
		req.PopulationSize = int32(h.config.GA.PopulationSize)
	}
	if req.MaxGenerations == 0 {
		req.MaxGenerations = int32(h.config.GA.MaxGenerations)
	}
	if req.EliteCount == 0 {
		req.EliteCount = int32(h.config.GA.EliteCount)
	}
	if req.SwapProbability == nil {
		req.SwapProbability = &h.config.GA.SwapProbability
	}

	// 构建参数
	parameters := &scheduler.Parameters{
		PopulationSize:  req.PopulationSize,
		MaxGenerations:  req.MaxGenerations,
		EliteCount:      req.EliteCount,
		SwapProbability: *req.SwapProbability,
	}

	// 获取排期计划所用的模板
	template, err := h.repository.GetAgendaTemplate(plan.AgendaTemplateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 获取排期计划的提交记录
	submissions, err := h.repository.GetAllSubmissionsByAgendaPlanID(plan.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 获取所有用户
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 自动排期
	sched, err := scheduler.New(parameters, template, submissions, users)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, err := sched.Schedule()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result.AgendaPlanID = plan.ID

	// 保存排期结果
	if err := h.repository.InsertAgendaResult(result); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通知每位提交过关注议题的参与者
	if err := h.notifyStakeholders(plan, result, users); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "自动排期成功", result)
}

// notifyStakeholders 给排期结果涉及的每位参与者发一封议程邮件
func (h *Handler) notifyStakeholders(plan *domain.AgendaPlan, result *domain.AgendaResult, users []*domain.User) error {
	usersByID := make(map[int64]*domain.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	agendaText, err := renderAgendaResult(result, users, "txt")
	if err != nil {
		return err
	}

	for _, waitTime := range result.WaitTimes {
		user, exists := usersByID[waitTime.UserID]
		if !exists {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "agenda_published",
			To:   user.Email,
			Data: domain.AgendaPublishedMailData{
				FullName:    user.FullName,
				PlanName:    plan.Name,
				Agenda:      string(agendaText),
				WaitMinutes: waitTime.WaitMinutes,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}
