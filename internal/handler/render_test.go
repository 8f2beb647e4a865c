package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
)

func testRenderResult() (*domain.AgendaResult, []*domain.User) {
	eventID := int64(1)
	result := &domain.AgendaResult{
		Items: []domain.AgendaResultItem{
			{
				Position:       0,
				EventID:        &eventID,
				Label:          "预算讨论",
				StartTime:      "09:30",
				EndTime:        "09:45",
				StakeholderIDs: []int64{1, 2},
			},
			{
				Position:  1,
				Label:     domain.BreakLabel,
				StartTime: "09:45",
				EndTime:   "10:00",
			},
		},
	}
	users := []*domain.User{
		{ID: 1, FullName: "张三"},
		{ID: 2, FullName: "李四"},
	}
	return result, users
}

func TestRenderAgendaResultText(t *testing.T) {
	result, users := testRenderResult()

	rendered, err := renderAgendaResult(result, users, "txt")
	require.NoError(t, err)

	text := string(rendered)
	require.Contains(t, text, "09:30 - 09:45  预算讨论（张三、李四）")
	// 没有参与者的条目不输出括号
	require.Contains(t, text, "09:45 - 10:00  茶歇\n")
	require.NotContains(t, text, "茶歇（")
}

func TestRenderAgendaResultHTML(t *testing.T) {
	result, users := testRenderResult()

	rendered, err := renderAgendaResult(result, users, "html")
	require.NoError(t, err)

	html := string(rendered)
	require.Contains(t, html, "<th>时间</th><th>议题</th><th>参与者</th>")
	require.Contains(t, html, "<td>09:30 - 09:45</td><td>预算讨论</td><td>张三、李四</td>")
}

func TestRenderAgendaResultTex(t *testing.T) {
	result, users := testRenderResult()

	rendered, err := renderAgendaResult(result, users, "tex")
	require.NoError(t, err)

	tex := string(rendered)
	require.Contains(t, tex, `\begin{tabular}{lll}`)
	require.Contains(t, tex, `09:30 - 09:45 & 预算讨论 & 张三、李四 \\`)
	require.Contains(t, tex, `\end{tabular}`)
}

func TestRenderAgendaResultUnknownUser(t *testing.T) {
	result, users := testRenderResult()
	// 找不到对应用户的 ID 直接跳过
	result.Items[0].StakeholderIDs = append(result.Items[0].StakeholderIDs, 99)

	rendered, err := renderAgendaResult(result, users, "txt")
	require.NoError(t, err)
	require.Contains(t, string(rendered), "（张三、李四）")
}

func TestRenderAgendaResultUnsupportedFormat(t *testing.T) {
	result, users := testRenderResult()

	_, err := renderAgendaResult(result, users, "pdf")
	require.ErrorContains(t, err, "不支持的格式 pdf")
}
