package scheduler

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// 三个事件、一个关注首尾两个事件的参与者，等待时间随排列变化：
// 两个关注事件相邻时等待 30 分钟，被隔开时等待 45 分钟
func testPopulation(parameters *Parameters) *Population {
	return &Population{
		parameters: parameters,
		agenda:     NewAgenda(makeEvents(3), DefaultSettings()),
		stakeholders: []*Stakeholder{
			{Name: "zhangsan", Focus: []string{"议题1", "议题3"}},
		},
		startTime: NewClock(9, 0),
	}
}

func TestPopulationScore(t *testing.T) {
	p := testPopulation(&Parameters{})

	require.Equal(t, 45.0, p.score(Candidate{0, 1, 2}))
	require.Equal(t, 30.0, p.score(Candidate{0, 2, 1}))
	require.Equal(t, 30.0, p.score(Candidate{1, 0, 2}))
}

func TestPopulationWalk(t *testing.T) {
	p := testPopulation(&Parameters{})

	waitTimes, violations := p.walk(Candidate{0, 1, 2})
	require.Equal(t, []int{45}, waitTimes)
	require.Equal(t, 0, violations)
}

func TestPopulationWalkEventConstraint(t *testing.T) {
	p := testPopulation(&Parameters{})
	// 议题2 要求不早于 10:00，而三个事件最晚也只能排到 09:30 开始
	p.agenda.events[1].Constraints = []Constraint{
		{Kind: NotBefore, Threshold: NewClock(10, 0)},
	}

	_, violations := p.walk(Candidate{0, 1, 2})
	require.Equal(t, 1, violations)
	require.Equal(t, 1045.0, p.score(Candidate{0, 1, 2}))
}

func TestPopulationRefresh(t *testing.T) {
	p := testPopulation(&Parameters{})
	p.order = []Candidate{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}}

	p.refresh()

	// 分数升序，order 与 scores 联动排序
	require.Equal(t, []float64{30, 30, 45}, p.scores)
	require.Equal(t, Candidate{0, 1, 2}, p.order[2])
	require.Equal(t, p.order[0], p.best())
}

func TestPopulationCompeteNoMutation(t *testing.T) {
	p := testPopulation(&Parameters{
		PopulationSize:  6,
		EliteCount:      1,
		SwapProbability: 0,
	})
	p.order = []Candidate{{0, 2, 1}, {0, 1, 2}, {1, 0, 2}, {2, 1, 0}, {1, 2, 0}, {2, 0, 1}}
	p.refresh()
	best := slices.Clone(p.best())

	p.compete()

	// 不变异时所有后代都是唯一精英的拷贝
	require.Len(t, p.order, 6)
	for _, order := range p.order {
		require.Equal(t, best, order)
	}
}

func TestPopulationCompeteKeepsPermutations(t *testing.T) {
	p := newPopulation(&Parameters{
		PopulationSize:  10,
		EliteCount:      3,
		SwapProbability: 1,
	}, NewAgenda(makeEvents(5), DefaultSettings()), nil, NewClock(9, 0))

	for i := 0; i < 20; i++ {
		p.compete()
	}

	// 交换变异不会破坏排列性质
	for _, order := range p.order {
		sorted := slices.Clone(order)
		slices.Sort(sorted)
		require.Equal(t, identityOrder(5), sorted)
	}
}

func TestPopulationCompeteEliteCountClamped(t *testing.T) {
	p := newPopulation(&Parameters{
		PopulationSize:  2,
		EliteCount:      100,
		SwapProbability: 0.5,
	}, NewAgenda(makeEvents(4), DefaultSettings()), nil, NewClock(9, 0))

	// 精英数量超过种群大小时不会越界
	p.compete()
	require.Len(t, p.order, 2)
}

func TestPopulationOptimizeZeroGenerations(t *testing.T) {
	p := testPopulation(&Parameters{PopulationSize: 3, EliteCount: 1, SwapProbability: 0.8})
	p.order = []Candidate{{0, 2, 1}, {0, 1, 2}, {1, 0, 2}}
	p.refresh()
	before := slices.Clone(p.scores)

	p.optimize(0)

	require.Equal(t, before, p.scores)
}

func TestPopulationOptimizeKeepsBest(t *testing.T) {
	p := testPopulation(&Parameters{
		PopulationSize:  4,
		EliteCount:      1,
		SwapProbability: 0,
	})
	p.order = []Candidate{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {2, 1, 0}}
	p.refresh()

	p.optimize(5)

	// 唯一精英不变异，最优分数不会退化
	require.Equal(t, 30.0, p.scores[0])
	require.Equal(t, Candidate{0, 2, 1}, p.best())
}

func TestPopulationEmptyAgenda(t *testing.T) {
	p := newPopulation(&Parameters{
		PopulationSize:  2,
		EliteCount:      1,
		SwapProbability: 0.8,
	}, NewAgenda(nil, DefaultSettings()), nil, NewClock(9, 0))

	p.optimize(3)

	require.Equal(t, 0.0, p.scores[0])
	require.Empty(t, p.best())
}
