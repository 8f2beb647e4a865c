package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// AgendaPublishedMailData 是排期结果发布后发给每位参与者的邮件内容
// Agenda 是已经渲染好的该参与者的个人日程文本
type AgendaPublishedMailData struct {
	FullName    string `json:"fullName"`
	PlanName    string `json:"planName"`
	Agenda      string `json:"agenda"`
	WaitMinutes int32  `json:"waitMinutes"`
}
