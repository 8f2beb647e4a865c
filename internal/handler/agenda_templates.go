package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllAgendaTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllAgendaTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有议程模板成功", templates)
}

func (h *Handler) CreateAgendaTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name" validate:"required"`
		Description   string `json:"description"`
		StartTime     string `json:"startTime"`
		EventDuration int32  `json:"eventDuration" validate:"omitempty,gte=1"`
		BreakEvery    int32  `json:"breakEvery" validate:"omitempty,gte=1"`
		BreakDuration int32  `json:"breakDuration" validate:"omitempty,gte=1"`
		LunchAfter    int32  `json:"lunchAfter" validate:"omitempty,gte=1"`
		LunchDuration int32  `json:"lunchDuration" validate:"omitempty,gte=1"`
		Events        []struct {
			Name        string   `json:"name" validate:"required"`
			Constraints []string `json:"constraints"`
		} `json:"events" validate:"required,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 未填写的日程设置用配置中的默认值补全
	if req.StartTime == "" {
		req.StartTime = h.config.Agenda.StartTime
	}
	if req.EventDuration == 0 {
		req.EventDuration = int32(h.config.Agenda.EventDuration)
	}
	if req.BreakEvery == 0 {
		req.BreakEvery = int32(h.config.Agenda.BreakEvery)
	}
	if req.BreakDuration == 0 {
		req.BreakDuration = int32(h.config.Agenda.BreakDuration)
	}
	if req.LunchAfter == 0 {
		req.LunchAfter = int32(h.config.Agenda.LunchAfter)
	}
	if req.LunchDuration == 0 {
		req.LunchDuration = int32(h.config.Agenda.LunchDuration)
	}

	template := &domain.AgendaTemplate{
		Name:          req.Name,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EventDuration: req.EventDuration,
		BreakEvery:    req.BreakEvery,
		BreakDuration: req.BreakDuration,
		LunchAfter:    req.LunchAfter,
		LunchDuration: req.LunchDuration,
		Events:        make([]domain.AgendaTemplateEvent, 0, len(req.Events)),
	}

	for _, event := range req.Events {
		constraints := event.Constraints
		if constraints == nil {
			constraints = []string{}
		}
		template.Events = append(template.Events, domain.AgendaTemplateEvent{
			Name:        event.Name,
			Constraints: constraints,
		})
	}

	if err := utils.ValidateAgendaTemplate(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 约束描述需要能被排期引擎解析
	for _, event := range template.Events {
		if _, err := scheduler.ParseConstraints(event.Constraints); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	if err := h.repository.CreateAgendaTemplate(template); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "agenda_templates_name_key":
				h.errorResponse(w, r, "模板名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建模板成功", template)
}

func (h *Handler) GetAgendaTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(AgendaTemplateCtx).(*domain.AgendaTemplate)

	h.successResponse(w, r, "获取模板成功", template)
}

func (h *Handler) UpdateAgendaTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(AgendaTemplateCtx).(*domain.AgendaTemplate)

	var req struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		StartTime     *string `json:"startTime"`
		EventDuration *int32  `json:"eventDuration" validate:"omitempty,gte=1"`
		BreakEvery    *int32  `json:"breakEvery" validate:"omitempty,gte=1"`
		BreakDuration *int32  `json:"breakDuration" validate:"omitempty,gte=1"`
		LunchAfter    *int32  `json:"lunchAfter" validate:"omitempty,gte=1"`
		LunchDuration *int32  `json:"lunchDuration" validate:"omitempty,gte=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.StartTime != nil {
		template.StartTime = *req.StartTime
	}
	if req.EventDuration != nil {
		template.EventDuration = *req.EventDuration
	}
	if req.BreakEvery != nil {
		template.BreakEvery = *req.BreakEvery
	}
	if req.BreakDuration != nil {
		template.BreakDuration = *req.BreakDuration
	}
	if req.LunchAfter != nil {
		template.LunchAfter = *req.LunchAfter
	}
	if req.LunchDuration != nil {
		template.LunchDuration = *req.LunchDuration
	}

	if err := utils.ValidateAgendaTemplate(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateAgendaTemplate(template); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "agenda_templates_name_key":
				h.errorResponse(w, r, "模板名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新模板成功", template)
}

func (h *Handler) DeleteAgendaTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(AgendaTemplateCtx).(*domain.AgendaTemplate)

	if err := h.repository.DeleteAgendaTemplate(template.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "agenda_plans_agenda_template_id_fkey":
				h.errorResponse(w, r, "该模板已被应用于排期计划，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除模板成功", nil)
}
