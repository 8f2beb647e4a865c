package scheduler

// Candidate: 一个候选日程，即事件下标的一个排列
type Candidate []int

// Event: 待排序的事件及其自身的时刻约束
type Event struct {
	Name        string
	Constraints []Constraint
}

// Item: 展开后的一个日程条目，可能是事件本身，也可能是插入的茶歇/午餐
type Item struct {
	Label       string
	Constraints []Constraint
	Duration    int // 分钟
}

// Stakeholder: 参与者在引擎内部的表示
type Stakeholder struct {
	Name        string
	Focus       []string // 关注的事件名
	Constraints []Constraint
}

// 遗传算法参数
type Parameters struct {
	PopulationSize  int32   // 种群大小
	MaxGenerations  int32   // 迭代代数
	EliteCount      int32   // 每代中允许繁殖的精英数量
	SwapProbability float64 // 繁殖时交换两个随机位置的变异概率
}
