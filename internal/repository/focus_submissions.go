package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func (r *Repository) InsertFocusSubmission(submission *domain.FocusSubmission) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先把原先的记录删除再插入
	query := `DELETE FROM focus_submissions WHERE user_id = $1 AND agenda_plan_id = $2`
	if _, err := tx.ExecContext(ctx, query, submission.UserID, submission.AgendaPlanID); err != nil {
		return err
	}

	query = `
		INSERT INTO focus_submissions (user_id, agenda_plan_id)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, submission.UserID, submission.AgendaPlanID).Scan(&submission.ID, &submission.CreatedAt, &submission.Version); err != nil {
		return err
	}

	for _, eventID := range submission.EventIDs {
		query := `
			INSERT INTO focus_submission_events (focus_submission_id, agenda_template_event_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, submission.ID, eventID); err != nil {
			return err
		}
	}

	for _, spec := range submission.Constraints {
		query := `
			INSERT INTO focus_submission_constraints (focus_submission_id, constraint_spec)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, submission.ID, spec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetFocusSubmissionByUserIDAndAgendaPlanID(userID int64, agendaPlanID int64) (*domain.FocusSubmission, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, created_at, version
		FROM focus_submissions
		WHERE user_id = $1 AND agenda_plan_id = $2
	`

	submission := &domain.FocusSubmission{
		UserID:       userID,
		AgendaPlanID: agendaPlanID,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, userID, agendaPlanID).Scan(&submission.ID, &submission.CreatedAt, &submission.Version); err != nil {
		return nil, err
	}

	query = `
		SELECT agenda_template_event_id
		FROM focus_submission_events
		WHERE focus_submission_id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, submission.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submission.EventIDs = make([]int64, 0)
	for rows.Next() {
		var eventID int64
		if err := rows.Scan(&eventID); err != nil {
			return nil, err
		}
		submission.EventIDs = append(submission.EventIDs, eventID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT constraint_spec
		FROM focus_submission_constraints
		WHERE focus_submission_id = $1
	`

	rows, err = r.dbpool.QueryContext(ctx, query, submission.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submission.Constraints = make([]string, 0)
	for rows.Next() {
		var spec string
		if err := rows.Scan(&spec); err != nil {
			return nil, err
		}
		submission.Constraints = append(submission.Constraints, spec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submission, nil
}

func (r *Repository) GetAllSubmissionsByAgendaPlanID(agendaPlanID int64) ([]*domain.FocusSubmission, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			fs.id,
			fs.user_id,
			fse.agenda_template_event_id,
			fsc.constraint_spec,
			fs.created_at,
			fs.version
		FROM focus_submissions fs
		LEFT JOIN focus_submission_events fse ON fs.id = fse.focus_submission_id
		LEFT JOIN focus_submission_constraints fsc ON fs.id = fsc.focus_submission_id
		WHERE fs.agenda_plan_id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, agendaPlanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissionsMap := make(map[int64]*domain.FocusSubmission)
	eventsMap := make(map[int64]map[int64]bool)      // submissionID -> eventID -> 是否已经记录
	constraintsMap := make(map[int64]map[string]bool) // submissionID -> spec -> 是否已经记录

	for rows.Next() {
		var row struct {
			submissionID   int64
			userID         int64
			eventID        sql.NullInt64
			constraintSpec sql.NullString
			createdAt      time.Time
			version        int32
		}

		dst := []any{
			&row.submissionID,
			&row.userID,
			&row.eventID,
			&row.constraintSpec,
			&row.createdAt,
			&row.version,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := submissionsMap[row.submissionID]; !exists {
			submissionsMap[row.submissionID] = &domain.FocusSubmission{
				ID:           row.submissionID,
				AgendaPlanID: agendaPlanID,
				UserID:       row.userID,
				EventIDs:     make([]int64, 0),
				Constraints:  make([]string, 0),
				CreatedAt:    row.createdAt,
				Version:      row.version,
			}
			eventsMap[row.submissionID] = make(map[int64]bool)
			constraintsMap[row.submissionID] = make(map[string]bool)
		}

		// 两个子表的连接会产生笛卡尔积，需要去重
		if row.eventID.Valid && !eventsMap[row.submissionID][row.eventID.Int64] {
			eventsMap[row.submissionID][row.eventID.Int64] = true
			submissionsMap[row.submissionID].EventIDs = append(submissionsMap[row.submissionID].EventIDs, row.eventID.Int64)
		}

		if row.constraintSpec.Valid && !constraintsMap[row.submissionID][row.constraintSpec.String] {
			constraintsMap[row.submissionID][row.constraintSpec.String] = true
			submissionsMap[row.submissionID].Constraints = append(submissionsMap[row.submissionID].Constraints, row.constraintSpec.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	submissions := make([]*domain.FocusSubmission, 0, len(submissionsMap))
	for _, submission := range submissionsMap {
		submissions = append(submissions, submission)
	}

	return submissions, nil
}
