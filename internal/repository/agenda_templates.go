package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllAgendaTemplates() ([]*domain.AgendaTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			at.id,
			at.name,
			at.description,
			at.start_time,
			at.event_duration,
			at.break_every,
			at.break_duration,
			at.lunch_after,
			at.lunch_duration,
			at.created_at,
			at.version,
			ate.id,
			ate.name,
			atec.constraint_spec
		FROM agenda_templates at
		LEFT JOIN agenda_template_events ate ON at.id = ate.template_id
		LEFT JOIN agenda_template_event_constraints atec ON ate.id = atec.event_id
		ORDER BY at.id, ate.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templatesMap := make(map[int64]*domain.AgendaTemplate)
	eventsMap := make(map[int64]map[int64]*domain.AgendaTemplateEvent) // templateID -> eventID -> event

	for rows.Next() {
		var row struct {
			ID            int64
			Name          string
			Description   string
			StartTime     string
			EventDuration int32
			BreakEvery    int32
			BreakDuration int32
			LunchAfter    int32
			LunchDuration int32
			CreatedAt     time.Time
			Version       int32

			EventID        sql.NullInt64
			EventName      sql.NullString
			ConstraintSpec sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Description,
			&row.StartTime,
			&row.EventDuration,
			&row.BreakEvery,
			&row.BreakDuration,
			&row.LunchAfter,
			&row.LunchDuration,
			&row.CreatedAt,
			&row.Version,
			&row.EventID,
			&row.EventName,
			&row.ConstraintSpec,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := templatesMap[row.ID]; !exists {
			// 说明此时是第一次查到这个 template，需要在 map 中初始化这个 template
			template := &domain.AgendaTemplate{
				ID:            row.ID,
				Name:          row.Name,
				Description:   row.Description,
				StartTime:     row.StartTime,
				EventDuration: row.EventDuration,
				BreakEvery:    row.BreakEvery,
				BreakDuration: row.BreakDuration,
				LunchAfter:    row.LunchAfter,
				LunchDuration: row.LunchDuration,
				CreatedAt:     row.CreatedAt,
				Version:       row.Version,
			}
			templatesMap[row.ID] = template
			eventsMap[row.ID] = make(map[int64]*domain.AgendaTemplateEvent)
		}

		// 如果 eventID 为空，则表示这个模板不存在任何的事件，此时可以跳过 event 解析的部分
		if !row.EventID.Valid {
			continue
		}

		// 解析 event
		event, exists := eventsMap[row.ID][row.EventID.Int64]
		if !exists {
			// 说明此时是第一次查到这个 event，需要在 map 中初始化这个 event
			event = &domain.AgendaTemplateEvent{
				ID:          row.EventID.Int64,
				Name:        row.EventName.String,
				Constraints: make([]string, 0),
			}
			eventsMap[row.ID][row.EventID.Int64] = event
		}

		// 如果 constraint 为空，则表示这个 event 不存在任何的约束，此时可以跳过约束解析的部分
		if !row.ConstraintSpec.Valid {
			continue
		}

		event.Constraints = append(event.Constraints, row.ConstraintSpec.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 组装结果
	templates := make([]*domain.AgendaTemplate, 0, len(templatesMap))

	for templateID, template := range templatesMap {
		template.Events = make([]domain.AgendaTemplateEvent, 0, len(eventsMap[templateID]))
		for _, event := range eventsMap[templateID] {
			template.Events = append(template.Events, *event)
		}
		templates = append(templates, template)
	}

	return templates, nil
}

func (r *Repository) CreateAgendaTemplate(template *domain.AgendaTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO agenda_templates (name, description, start_time, event_duration, break_every, break_duration, lunch_after, lunch_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	params := []any{
		template.Name,
		template.Description,
		template.StartTime,
		template.EventDuration,
		template.BreakEvery,
		template.BreakDuration,
		template.LunchAfter,
		template.LunchDuration,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&template.ID, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	for i := range template.Events {
		query = `
			INSERT INTO agenda_template_events (template_id, name)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, template.ID, template.Events[i].Name).Scan(&template.Events[i].ID); err != nil {
			return err
		}

		for _, spec := range template.Events[i].Constraints {
			query = `
				INSERT INTO agenda_template_event_constraints (event_id, constraint_spec)
				VALUES ($1, $2)
			`
			if _, err := tx.ExecContext(ctx, query, template.Events[i].ID, spec); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAgendaTemplate(id int64) (*domain.AgendaTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			at.name,
			at.description,
			at.start_time,
			at.event_duration,
			at.break_every,
			at.break_duration,
			at.lunch_after,
			at.lunch_duration,
			at.created_at,
			at.version,
			ate.id,
			ate.name,
			atec.constraint_spec
		FROM agenda_templates at
		LEFT JOIN agenda_template_events ate ON at.id = ate.template_id
		LEFT JOIN agenda_template_event_constraints atec ON ate.id = atec.event_id
		WHERE at.id = $1
		ORDER BY ate.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	template := &domain.AgendaTemplate{
		ID: id,
	}
	eventsMap := make(map[int64]*domain.AgendaTemplateEvent)
	found := false

	for rows.Next() {
		var row struct {
			Name          string
			Description   string
			StartTime     string
			EventDuration int32
			BreakEvery    int32
			BreakDuration int32
			LunchAfter    int32
			LunchDuration int32
			CreatedAt     time.Time
			Version       int32

			EventID        sql.NullInt64
			EventName      sql.NullString
			ConstraintSpec sql.NullString
		}

		dst := []any{
			&row.Name,
			&row.Description,
			&row.StartTime,
			&row.EventDuration,
			&row.BreakEvery,
			&row.BreakDuration,
			&row.LunchAfter,
			&row.LunchDuration,
			&row.CreatedAt,
			&row.Version,
			&row.EventID,
			&row.EventName,
			&row.ConstraintSpec,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			// 说明此时是第一次查到这个模板，需要初始化这个模板
			template.Name = row.Name
			template.Description = row.Description
			template.StartTime = row.StartTime
			template.EventDuration = row.EventDuration
			template.BreakEvery = row.BreakEvery
			template.BreakDuration = row.BreakDuration
			template.LunchAfter = row.LunchAfter
			template.LunchDuration = row.LunchDuration
			template.CreatedAt = row.CreatedAt
			template.Version = row.Version
			found = true
		}

		if !row.EventID.Valid {
			// 说明该模板不存在任何事件
			continue
		}

		// 解析事件
		event, exists := eventsMap[row.EventID.Int64]
		if !exists {
			// 说明此时是第一次查到这个事件，需要初始化这个事件
			event = &domain.AgendaTemplateEvent{
				ID:          row.EventID.Int64,
				Name:        row.EventName.String,
				Constraints: make([]string, 0),
			}
			eventsMap[row.EventID.Int64] = event
		}

		if !row.ConstraintSpec.Valid {
			// 说明该事件不存在任何约束
			continue
		}

		event.Constraints = append(event.Constraints, row.ConstraintSpec.String)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	template.Events = make([]domain.AgendaTemplateEvent, 0, len(eventsMap))
	for _, event := range eventsMap {
		template.Events = append(template.Events, *event)
	}

	return template, nil
}

func (r *Repository) UpdateAgendaTemplate(template *domain.AgendaTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 事件列表不允许更新，不然已有的提交和排期结果会失去意义
	query := `
		UPDATE agenda_templates
		SET
			name = $1,
			description = $2,
			start_time = $3,
			event_duration = $4,
			break_every = $5,
			break_duration = $6,
			lunch_after = $7,
			lunch_duration = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	params := []any{
		template.Name,
		template.Description,
		template.StartTime,
		template.EventDuration,
		template.BreakEvery,
		template.BreakDuration,
		template.LunchAfter,
		template.LunchDuration,
		template.ID,
		template.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAgendaTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM agenda_templates WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
