package scheduler

import (
	"log/slog"
	"math/rand"
	"slices"
	"sort"
)

// Population 持有一批候选排列及其分数，分数越低越好
// refresh 之后 order 和 scores 按分数升序对齐排列
type Population struct {
	parameters   *Parameters
	agenda       *Agenda
	stakeholders []*Stakeholder
	startTime    Clock

	order  []Candidate
	scores []float64
}

// newPopulation 用随机排列初始化种群并完成第一次评分排序
func newPopulation(parameters *Parameters, agenda *Agenda, stakeholders []*Stakeholder, startTime Clock) *Population {
	p := &Population{
		parameters:   parameters,
		agenda:       agenda,
		stakeholders: stakeholders,
		startTime:    startTime,
	}

	p.order = make([]Candidate, parameters.PopulationSize)
	for i := range p.order {
		p.order[i] = Candidate(rand.Perm(agenda.Len()))
	}
	p.refresh()

	return p
}

/**
 * 对一个候选排列进行评分
 * score = 1000 * violations + sum(waitTimes)
 * 其中:
 * 		1. violations 为整个日程中违反约束的总次数（事件自身的约束 + 各参与者的约束）
 * 		2. waitTimes 为各参与者的等待时间
 * 		3. 1000 的权重保证任何一次约束违反都压过纯等待时间的差距，约束近似于硬约束
 */
func (p *Population) score(order Candidate) float64 {
	waitTimes, violations := p.walk(order)

	total := 0
	for _, waitTime := range waitTimes {
		total += waitTime
	}

	return 1000*float64(violations) + float64(total)
}

// walk 从起始时刻开始按顺序走完展开后的日程，
// 返回每个参与者的等待时间（与 stakeholders 对齐）和违反约束的总次数
func (p *Population) walk(order Candidate) ([]int, int) {
	counters := make([]*waitTimeCounter, len(p.stakeholders))
	for i, stakeholder := range p.stakeholders {
		counters[i] = newWaitTimeCounter(stakeholder.Focus, stakeholder.Constraints)
	}

	t := p.startTime
	violations := 0

	for _, item := range p.agenda.Expand(order) {
		for _, constraint := range item.Constraints {
			violations += constraint.Violations(t)
		}
		for _, counter := range counters {
			violations += counter.observe(item.Label, item.Duration, t)
		}
		t = t.Add(item.Duration)
	}

	waitTimes := make([]int, len(counters))
	for i, counter := range counters {
		waitTimes[i] = counter.totalTime
	}

	return waitTimes, violations
}

// refresh 重新计算所有候选的分数，并按分数升序联动排序 order 和 scores
func (p *Population) refresh() {
	p.scores = make([]float64, len(p.order))
	for i, order := range p.order {
		p.scores[i] = p.score(order)
	}

	indices := make([]int, len(p.order))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return p.scores[indices[i]] < p.scores[indices[j]]
	})

	sortedOrder := make([]Candidate, len(p.order))
	sortedScores := make([]float64, len(p.scores))
	for rank, idx := range indices {
		sortedOrder[rank] = p.order[idx]
		sortedScores[rank] = p.scores[idx]
	}

	p.order = sortedOrder
	p.scores = sortedScores
}

// compete 繁殖出新一代：每个后代从当前最优的 EliteCount 个候选中均匀挑选父本，
// 复制之后以 SwapProbability 的概率交换两个随机位置
// 两个位置独立选取，允许选中同一个位置（等于没有变异）
// 没有交叉，交换是唯一的变异算子。整代替换后重新评分排序
func (p *Population) compete() {
	nbest := int(p.parameters.EliteCount)
	if nbest > len(p.order) {
		// 种群比精英数量还小时，退化为在整个种群中挑选父本
		nbest = len(p.order)
	}

	newOrder := make([]Candidate, len(p.order))
	for i := range newOrder {
		child := slices.Clone(p.order[rand.Intn(nbest)])
		if len(child) > 0 && rand.Float64() < p.parameters.SwapProbability {
			a, b := rand.Intn(len(child)), rand.Intn(len(child))
			child[a], child[b] = child[b], child[a]
		}
		newOrder[i] = child
	}

	p.order = newOrder
	p.refresh()
}

// optimize 迭代指定的代数，没有收敛检测
// 每代输出最优分数和平均分数，便于观察收敛情况
func (p *Population) optimize(ngenerations int32) {
	for gen := int32(0); gen < ngenerations; gen++ {
		p.compete()

		mean := 0.0
		for _, score := range p.scores {
			mean += score
		}
		mean /= float64(len(p.scores))

		slog.Debug("完成一代进化", "generation", gen+1, "best", p.scores[0], "mean", mean)
	}
}

// best 返回当前最优候选
func (p *Population) best() Candidate {
	return p.order[0]
}
