package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func (r *Repository) InsertAgendaResult(result *domain.AgendaResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先将之前的排期结果删除
	query := `DELETE FROM agenda_results WHERE agenda_plan_id = $1`
	if _, err := tx.ExecContext(ctx, query, result.AgendaPlanID); err != nil {
		return err
	}

	query = `
		INSERT INTO agenda_results (agenda_plan_id, violations, score)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	if err := tx.QueryRowContext(ctx, query, result.AgendaPlanID, result.Violations, result.Score).Scan(&result.ID, &result.CreatedAt, &result.Version); err != nil {
		return err
	}

	for _, item := range result.Items {
		query := `
			INSERT INTO agenda_result_items (agenda_result_id, position, agenda_template_event_id, label, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`

		var itemID int64
		params := []any{result.ID, item.Position, item.EventID, item.Label, item.StartTime, item.EndTime}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&itemID); err != nil {
			return err
		}

		for _, stakeholderID := range item.StakeholderIDs {
			query := `
				INSERT INTO agenda_result_item_stakeholders (agenda_result_item_id, user_id)
				VALUES ($1, $2)
			`

			if _, err := tx.ExecContext(ctx, query, itemID, stakeholderID); err != nil {
				return err
			}
		}
	}

	for _, waitTime := range result.WaitTimes {
		query := `
			INSERT INTO agenda_result_wait_times (agenda_result_id, user_id, wait_minutes)
			VALUES ($1, $2, $3)
		`

		if _, err := tx.ExecContext(ctx, query, result.ID, waitTime.UserID, waitTime.WaitMinutes); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAgendaResultByAgendaPlanID(agendaPlanID int64) (*domain.AgendaResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ar.id,
			ari.id,
			ari.position,
			ari.agenda_template_event_id,
			ari.label,
			ari.start_time,
			ari.end_time,
			aris.user_id,
			ar.violations,
			ar.score,
			ar.created_at,
			ar.version
		FROM agenda_results ar
		LEFT JOIN agenda_result_items ari ON ar.id = ari.agenda_result_id
		LEFT JOIN agenda_result_item_stakeholders aris ON ari.id = aris.agenda_result_item_id
		WHERE ar.agenda_plan_id = $1
		ORDER BY ari.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, agendaPlanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &domain.AgendaResult{
		AgendaPlanID: agendaPlanID,
	}

	itemsMap := make(map[int64]*domain.AgendaResultItem)
	itemOrder := make([]int64, 0)

	for rows.Next() {
		var row struct {
			resultID      int64
			itemID        sql.NullInt64
			position      sql.NullInt32
			eventID       sql.NullInt64
			label         sql.NullString
			startTime     sql.NullString
			endTime       sql.NullString
			stakeholderID sql.NullInt64
			violations    int32
			score         float64
			createdAt     time.Time
			version       int32
		}

		dst := []any{
			&row.resultID,
			&row.itemID,
			&row.position,
			&row.eventID,
			&row.label,
			&row.startTime,
			&row.endTime,
			&row.stakeholderID,
			&row.violations,
			&row.score,
			&row.createdAt,
			&row.version,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		result.ID = row.resultID
		result.Violations = row.violations
		result.Score = row.score
		result.CreatedAt = row.createdAt
		result.Version = row.version

		if !row.itemID.Valid {
			// 说明这个排期结果不存在任何条目，这在业务上是不可能的，但是为了代码的健壮性，这里还是需要处理
			continue
		}

		if _, exists := itemsMap[row.itemID.Int64]; !exists {
			item := &domain.AgendaResultItem{
				Position:       row.position.Int32,
				Label:          row.label.String,
				StartTime:      row.startTime.String,
				EndTime:        row.endTime.String,
				StakeholderIDs: make([]int64, 0),
			}
			if row.eventID.Valid {
				item.EventID = &row.eventID.Int64
			}
			itemsMap[row.itemID.Int64] = item
			itemOrder = append(itemOrder, row.itemID.Int64)
		}

		if !row.stakeholderID.Valid {
			// 茶歇和午餐没有关注者，这是有可能的
			continue
		}

		itemsMap[row.itemID.Int64].StakeholderIDs = append(itemsMap[row.itemID.Int64].StakeholderIDs, row.stakeholderID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 还需要处理没有结果的情况
	if result.ID == 0 {
		return nil, sql.ErrNoRows
	}

	// 组装结果，保持 position 顺序
	result.Items = make([]domain.AgendaResultItem, 0, len(itemsMap))
	for _, itemID := range itemOrder {
		result.Items = append(result.Items, *itemsMap[itemID])
	}

	query = `
		SELECT user_id, wait_minutes
		FROM agenda_result_wait_times
		WHERE agenda_result_id = $1
	`

	rows, err = r.dbpool.QueryContext(ctx, query, result.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result.WaitTimes = make([]domain.AgendaResultWaitTime, 0)
	for rows.Next() {
		var waitTime domain.AgendaResultWaitTime
		if err := rows.Scan(&waitTime.UserID, &waitTime.WaitMinutes); err != nil {
			return nil, err
		}
		result.WaitTimes = append(result.WaitTimes, waitTime)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
