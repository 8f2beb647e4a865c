package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"strings"
	texttemplate "text/template"

	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

// 各种格式的议程表模板，渲染的数据结构都是 []renderItem
const agendaTextTemplate = `{{range .}}{{.StartTime}} - {{.EndTime}}  {{.Label}}{{if .Stakeholders}}（{{join .Stakeholders "、"}}）{{end}}
{{end}}`

const agendaHTMLTemplate = `<table>
<thead><tr><th>时间</th><th>议题</th><th>参与者</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.StartTime}} - {{.EndTime}}</td><td>{{.Label}}</td><td>{{join .Stakeholders "、"}}</td></tr>
{{end}}</tbody>
</table>
`

const agendaTexTemplate = `\begin{tabular}{lll}
\hline
时间 & 议题 & 参与者 \\
\hline
{{range .}}{{.StartTime}} - {{.EndTime}} & {{.Label}} & {{join .Stakeholders "、"}} \\
{{end}}\hline
\end{tabular}
`

type renderItem struct {
	StartTime    string
	EndTime      string
	Label        string
	Stakeholders []string
}

func renderAgendaResult(result *domain.AgendaResult, users []*domain.User, format string) ([]byte, error) {
	fullNameByID := make(map[int64]string, len(users))
	for _, user := range users {
		fullNameByID[user.ID] = user.FullName
	}

	items := make([]renderItem, 0, len(result.Items))
	for _, item := range result.Items {
		stakeholders := make([]string, 0, len(item.StakeholderIDs))
		for _, stakeholderID := range item.StakeholderIDs {
			if fullName, exists := fullNameByID[stakeholderID]; exists {
				stakeholders = append(stakeholders, fullName)
			}
		}
		items = append(items, renderItem{
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
			Label:        item.Label,
			Stakeholders: stakeholders,
		})
	}

	funcs := map[string]any{"join": strings.Join}

	var buf bytes.Buffer
	switch format {
	case "txt":
		tmpl, err := texttemplate.New("agenda").Funcs(funcs).Parse(agendaTextTemplate)
		if err != nil {
			return nil, err
		}
		if err := tmpl.Execute(&buf, items); err != nil {
			return nil, err
		}
	case "html":
		tmpl, err := htmltemplate.New("agenda").Funcs(funcs).Parse(agendaHTMLTemplate)
		if err != nil {
			return nil, err
		}
		if err := tmpl.Execute(&buf, items); err != nil {
			return nil, err
		}
	case "tex":
		tmpl, err := texttemplate.New("agenda").Funcs(funcs).Parse(agendaTexTemplate)
		if err != nil {
			return nil, err
		}
		if err := tmpl.Execute(&buf, items); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("不支持的格式 %s", format)
	}

	return buf.Bytes(), nil
}

func (h *Handler) RenderAgendaResult(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(AgendaPlanCtx).(*domain.AgendaPlan)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}

	result, err := h.repository.GetAgendaResultByAgendaPlanID(plan.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该排期计划还没有排期结果")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rendered, err := renderAgendaResult(result, users, format)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	contentTypes := map[string]string{
		"txt":  "text/plain; charset=utf-8",
		"html": "text/html; charset=utf-8",
		"tex":  "application/x-tex; charset=utf-8",
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered); err != nil {
		h.logInternalServerError(r, err)
	}
}
