package handler

type ContextKey string

var (
	RoleCtxKey        ContextKey = "role"
	SubCtxKey         ContextKey = "sub"
	MyInfoCtx         ContextKey = "myInfo"
	UserInfoCtx       ContextKey = "userInfo"
	AgendaTemplateCtx ContextKey = "agendaTemplate"
	AgendaPlanCtx     ContextKey = "agendaPlan"
)
