package config

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "config")

const (
	defaultDT              = 1.0 / 20.0 // 默认控制周期（秒）
	defaultTargetSpeed     = 20.0       // 默认巡航目标速度（km/h）
	defaultSamplingHorizon = 1.0        // 默认前向采样时域（秒）

	// 队列与缓冲的固定容量
	queueCapacity = 20000 // 轨迹队列容量
	bufferSize    = 5     // 路点缓冲容量
	refillBatch   = 100   // 队列低水位时单次补充的路点数
	prefillCount  = 200   // 构造时预填充的路点数

	// 到达判定距离与采样半径的比值
	minDistanceRatio = 0.9
)

// PlannerParams 规划器运行时参数
// 功能：配置解析后的规划器参数集合，构造时一次性校验，运行期只读
type PlannerParams struct {
	DT             float64  // 控制周期（秒）
	TargetSpeed    float64  // 巡航目标速度（km/h）
	SamplingRadius float64  // 每次队列扩展的前向采样距离（米）
	MinDistance    float64  // 到达判定距离（米），= SamplingRadius × 0.9
	QueueCapacity  int      // 轨迹队列容量
	BufferSize     int      // 路点缓冲容量
	RefillBatch    int      // 自动补充批量
	PrefillCount   int      // 构造时预填充数量
	Lateral        PIDGains // 横向PID增益
	Longitudinal   PIDGains // 纵向PID增益
}

// RuntimeConfig 运行时配置
// 功能：存储测试床运行时的配置信息，包含解析完缺省值后的规划器参数
type RuntimeConfig struct {
	All     Config        // 全部配置
	C       Control       // 全局控制配置
	Planner PlannerParams // 规划器参数
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：解析缺省值并做一次性校验，非法配置直接panic（无恢复可能）
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 控制周期：取step.interval，未配置时为1/20秒
// 2. 目标速度：默认20km/h
// 3. 采样半径 = 目标速度(m/s) × 采样时域（默认1秒，即一秒时域）
// 4. 到达判定距离 = 采样半径 × 0.9
// 5. PID增益：横向{1.95, 0.01, 1.4}，纵向{1.0, 0, 1.0}
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	p := PlannerParams{
		DT:            rc.C.Step.Interval,
		TargetSpeed:   defaultTargetSpeed,
		QueueCapacity: queueCapacity,
		BufferSize:    bufferSize,
		RefillBatch:   refillBatch,
		PrefillCount:  prefillCount,
		Lateral:       PIDGains{KP: 1.95, KD: 0.01, KI: 1.4},
		Longitudinal:  PIDGains{KP: 1.0, KD: 0, KI: 1.0},
	}
	if p.DT == 0 {
		p.DT = defaultDT
	}
	horizon := defaultSamplingHorizon
	pc := config.Planner
	if pc.TargetSpeed != nil {
		p.TargetSpeed = *pc.TargetSpeed
	}
	if pc.SamplingHorizon != nil {
		horizon = *pc.SamplingHorizon
	}
	if pc.Lateral != nil {
		p.Lateral = *pc.Lateral
	}
	if pc.Longitudinal != nil {
		p.Longitudinal = *pc.Longitudinal
	}
	p.SamplingRadius = p.TargetSpeed / 3.6 * horizon
	p.MinDistance = p.SamplingRadius * minDistanceRatio

	if p.DT <= 0 {
		log.Panicf("config: step interval must be positive, got %v", p.DT)
	}
	if p.TargetSpeed <= 0 {
		log.Panicf("config: target_speed must be positive, got %v", p.TargetSpeed)
	}
	if p.SamplingRadius <= 0 {
		log.Panicf("config: sampling radius must be positive, got %v (horizon %v)", p.SamplingRadius, horizon)
	}
	rc.Planner = p

	return rc
}
