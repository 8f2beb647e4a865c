package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/agenda-scheduler/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleMember,
	domain.RoleOrganizer,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// GenerateRandomConstraint 随机生成一条约束描述
func GenerateRandomConstraint() string {
	kinds := []string{"not_before", "not_after"}
	hour := rand.Intn(9) + 9 // 9~17 点之间
	minute := rand.Intn(4) * 15
	return fmt.Sprintf("%s %02d:%02d", kinds[rand.Intn(len(kinds))], hour, minute)
}

func GenerateRandomAgendaTemplate() *domain.AgendaTemplate {
	template := domain.AgendaTemplate{
		Name:          "议程模板" + GenerateRandomID(3, 3),
		Description:   "议程模板描述" + GenerateRandomID(20, 10),
		StartTime:     "09:30",
		EventDuration: 15,
		BreakEvery:    5,
		BreakDuration: 15,
		LunchAfter:    10,
		LunchDuration: 60,
	}

	eventsNum := rand.Intn(12) + 4
	events := make([]domain.AgendaTemplateEvent, eventsNum)

	for i := range events {
		events[i] = domain.AgendaTemplateEvent{
			Name:        "议题" + GenerateRandomID(2, 2),
			Constraints: []string{},
		}
		// 大约三分之一的事件带一条随机约束
		if rand.Intn(3) == 0 {
			events[i].Constraints = append(events[i].Constraints, GenerateRandomConstraint())
		}
	}

	template.Events = events

	return &template
}

// 生成还没有开放提交的排期计划
func GenerateRandomNotStartedAgendaPlan(plan *domain.AgendaPlan) {
	plan.SubmissionStartTime = time.Now().Add(time.Hour * 24)
	plan.SubmissionEndTime = plan.SubmissionStartTime.Add(time.Hour * 24 * 7)
	plan.ActiveStartTime = plan.SubmissionEndTime.Add(time.Hour * 24 * 3)
	plan.ActiveEndTime = plan.ActiveStartTime.Add(time.Hour * 24 * 30)
}

// 生成已经开放提交的排期计划
func GenerateRandomSubmissionAvailableAgendaPlan(plan *domain.AgendaPlan) {
	plan.SubmissionStartTime = time.Now().Add(-time.Hour * 24)
	plan.SubmissionEndTime = plan.SubmissionStartTime.Add(time.Hour * 24 * 7)
	plan.ActiveStartTime = plan.SubmissionEndTime.Add(time.Hour * 24 * 3)
	plan.ActiveEndTime = plan.ActiveStartTime.Add(time.Hour * 24 * 30)
}

// 生成正在排期的排期计划
func GenerateRandomSchedulingAgendaPlan(plan *domain.AgendaPlan) {
	plan.SubmissionStartTime = time.Now().Add(-time.Hour * 24 * 8)
	plan.SubmissionEndTime = plan.SubmissionStartTime.Add(time.Hour * 24 * 7)
	plan.ActiveStartTime = plan.SubmissionEndTime.Add(time.Hour * 24 * 3)
	plan.ActiveEndTime = plan.ActiveStartTime.Add(time.Hour * 24 * 30)
}

// 生成正在生效的排期计划
func GenerateRandomActiveAgendaPlan(plan *domain.AgendaPlan) {
	plan.SubmissionStartTime = time.Now().Add(-time.Hour * 24 * 30)
	plan.SubmissionEndTime = plan.SubmissionStartTime.Add(time.Hour * 24 * 7)
	plan.ActiveStartTime = plan.SubmissionEndTime.Add(time.Hour * 24 * 3)
	plan.ActiveEndTime = plan.ActiveStartTime.Add(time.Hour * 24 * 30)
}

// 生成已经结束的排期计划
func GenerateRandomEndedAgendaPlan(plan *domain.AgendaPlan) {
	plan.SubmissionStartTime = time.Now().Add(-time.Hour * 24 * 90)
	plan.SubmissionEndTime = plan.SubmissionStartTime.Add(time.Hour * 24 * 7)
	plan.ActiveStartTime = plan.SubmissionEndTime.Add(time.Hour * 24 * 3)
	plan.ActiveEndTime = plan.ActiveStartTime.Add(time.Hour * 24 * 30)
}

// 随机生成一个排期计划
func GenerateRandomAgendaPlan(templateID int64) *domain.AgendaPlan {
	plan := domain.AgendaPlan{
		Name:             "排期计划" + GenerateRandomID(3, 3),
		Description:      "排期计划描述" + GenerateRandomID(20, 10),
		AgendaTemplateID: templateID,
	}

	// 随机生成一个状态，根据不同状态生成不同类型的排期计划
	randomStatus := rand.Intn(5)
	switch randomStatus {
	case 0:
		GenerateRandomNotStartedAgendaPlan(&plan)
	case 1:
		GenerateRandomSubmissionAvailableAgendaPlan(&plan)
	case 2:
		GenerateRandomSchedulingAgendaPlan(&plan)
	case 3:
		GenerateRandomActiveAgendaPlan(&plan)
	case 4:
		GenerateRandomEndedAgendaPlan(&plan)
	}

	return &plan
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset(arr []int64) []int64 {
	arrCopy := append([]int64{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

func GenerateRandomSubmission(template *domain.AgendaTemplate, plan *domain.AgendaPlan, user *domain.User) *domain.FocusSubmission {
	eventIDs := make([]int64, len(template.Events))
	for i, event := range template.Events {
		eventIDs[i] = event.ID
	}

	submission := &domain.FocusSubmission{
		AgendaPlanID: plan.ID,
		UserID:       user.ID,
		EventIDs:     []int64{},
		Constraints:  []string{},
	}
	if len(eventIDs) > 0 {
		submission.EventIDs = GenerateRandomSubset(eventIDs)
	}

	// 大约四分之一的参与者带一条个人约束
	if rand.Intn(4) == 0 {
		submission.Constraints = append(submission.Constraints, GenerateRandomConstraint())
	}

	return submission
}
