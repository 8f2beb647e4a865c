package domain

import "time"

type AgendaPlan struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	SubmissionStartTime time.Time `json:"submissionStartTime"`
	SubmissionEndTime   time.Time `json:"submissionEndTime"`
	ActiveStartTime     time.Time `json:"activeStartTime"`
	ActiveEndTime       time.Time `json:"activeEndTime"`
	AgendaTemplateID    int64     `json:"agendaTemplateID"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}
