package task

import (
	"sort"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/drivesim-oss/clock"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/agent"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/roadnet"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/input"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/output"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/randengine"
)

var log = logrus.WithField("module", "task")

// Context 仿真任务上下文
// 功能：包含一次闭环仿真任务的所有变量和状态，替代全局变量
// 说明：管理测试床的所有组件，包括时钟、路网、车辆、规划器、输出等
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool
	// 是否向可视化器发送目标路点
	debug bool

	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 用于初始化的输入
	initRes *input.Input
	// 随机数引擎（出生车道抽取与路口机动抽签共用）
	engine *randengine.Engine
	// tick遥测输出
	recorder *output.Recorder

	// 路网
	roadnet *roadnet.Network
	// 被控车辆
	vehicle *vehicle.Vehicle
	// 局部规划器
	planner *agent.LocalPlanner
}

// NewContext 创建新的仿真任务上下文
// 功能：加载输入数据并初始化配置、时钟、随机源与输出
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - debug: 是否启用调试可视化
//
// 返回：初始化完成的Context实例
func NewContext(job string, c config.Config, debug bool) *Context {
	ctx := &Context{
		job:   job,
		debug: debug,
	}
	ctx.clock = clock.New(c.Control.Step)

	// 下载所有测试床启动所需的数据
	ctx.initRes = input.Init(c)

	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	ctx.engine = randengine.New(c.Control.Seed)
	ctx.recorder = output.New(c.Output, job)
	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) RoadNet() *roadnet.Network {
	return ctx.roadnet
}

func (ctx *Context) Vehicle() *vehicle.Vehicle {
	return ctx.vehicle
}

func (ctx *Context) Planner() *agent.LocalPlanner {
	return ctx.planner
}

// Init 初始化仿真组件
// 功能：构建路网，放置被控车辆，组装控制律与局部规划器
// 算法说明：
// 1. 重置时钟到起始步
// 2. 根据输入数据构建路网
// 3. 确定出生路点（配置指定车道，或按车道长度加权随机抽取）
// 4. 在出生路点创建车辆并朝向车道切向
// 5. 组装PID控制律与局部规划器（独占车辆句柄）
func (ctx *Context) Init() {
	ctx.clock.Init()

	mapData := ctx.initRes.Map
	log.Infof("Lane: %v", len(mapData.Lanes))
	ctx.roadnet = roadnet.New(mapData)

	spawn := ctx.spawnWaypoint()
	log.Infof("vehicle spawns at %v", spawn)
	ctx.vehicle = vehicle.New(0, spawn.Position(), spawn.Heading())

	p := &ctx.runtimeConfig.Planner
	controller := agent.NewVehiclePIDController(ctx.vehicle, p.Lateral, p.Longitudinal, p.DT)
	planner, err := agent.NewLocalPlanner(ctx.roadnet, ctx.vehicle, controller, ctx.engine, p, true)
	if err != nil {
		log.Panicf("failed to create local planner: %v", err)
	}
	ctx.planner = planner
	if ctx.debug {
		ctx.planner.SetVisualizer(&debugVisualizer{})
	}
}

// spawnWaypoint 确定被控车辆的出生路点
// 算法说明：
// 1. 配置指定车道时直接使用，S坐标截断到车道长度以内
// 2. 未指定时按车道长度加权抽取车道，再在车道上均匀抽取S坐标
func (ctx *Context) spawnWaypoint() entity.IWaypoint {
	lanes := ctx.roadnet.Lanes()
	vc := ctx.runtimeConfig.All.Vehicle
	if vc.LaneID != nil {
		l, ok := lanes[*vc.LaneID]
		if !ok {
			log.Panicf("spawn lane %d does not exist", *vc.LaneID)
		}
		return l.WaypointAt(lo.Clamp(vc.S, 0, l.Length()))
	}
	// 车道ID排序保证抽取结果只由种子决定
	ids := lo.Keys(lanes)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	weights := lo.Map(ids, func(id int32, _ int) float64 { return lanes[id].Length() })
	l := lanes[ids[ctx.engine.DiscreteDistribution(weights)]]
	return l.WaypointAt(ctx.engine.Float64() * l.Length())
}

// debugVisualizer 调试可视化
// 功能：将规划器当前跟踪的目标路点写入调试日志
type debugVisualizer struct{}

func (v *debugVisualizer) Draw(waypoints []entity.IWaypoint, z float64) {
	for _, wp := range waypoints {
		pos := wp.Position()
		log.Debugf("target waypoint lane %d s %.2f at (%.2f, %.2f, %.2f)",
			wp.LaneID(), wp.S(), pos.X, pos.Y, z)
	}
}

// Close 关闭仿真任务
// 功能：关闭规划器（归还车辆句柄）并冲刷输出
func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.closed.Store(true)
	if ctx.planner != nil {
		ctx.planner.Close()
	}
	ctx.recorder.Close()
}
