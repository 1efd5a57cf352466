// 随机数引擎，包装了golang.org/x/exp/rand，提供可复现的随机数生成方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数序列
)

// Engine 随机数引擎
// 功能：为路口机动抽签等随机决策提供显式注入的随机源
// 说明：规划器不读取全局随机状态，测试时注入固定种子的引擎即可复现行为
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子（实际种子为seed+seedOffset）
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Choice 从候选列表中等概率抽取一个元素
// 功能：均匀随机抽签，重复元素按出现次数加权
// 参数：e-随机数引擎，items-候选列表，不能为空
// 返回：抽中的元素及其下标
func Choice[T any](e *Engine, items []T) (T, int) {
	if len(items) == 0 {
		log.Panic("randengine: Choice: empty items")
	}
	i := e.Intn(len(items))
	return items[i], i
}

// DiscreteDistribution 按给定概率分布生成随机数
// 参数：weight-权重数组，每个元素表示对应下标的概率权重
// 返回：随机生成的下标（0到len(weight)-1）
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}
