package task

import (
	"flag"
)

const (
	SelfName = "drivesim" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：推进时钟并定期输出心跳日志
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f)",
			ctx.clock.InternalStep,
			hour, minute, second,
		)
	}
}

// update 更新阶段，每步执行一次
// 功能：执行一个控制tick并将控制指令积分到车辆运动学状态
// 算法说明：
// 1. 规划器计算本tick的控制指令
// 2. 车辆按控制周期积分运动
// 3. 将车辆状态与指令写入输出记录器
func (ctx *Context) update() {
	cmd := ctx.planner.RunStep(ctx.debug)
	ctx.vehicle.ApplyControl(cmd, ctx.clock.DT)
	ctx.recorder.Write(
		ctx.clock.InternalStep,
		ctx.clock.T,
		ctx.vehicle,
		cmd,
		ctx.planner.TargetWaypoint(),
		ctx.planner.TargetManeuver(),
	)
}

// Run 运行
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	for {
		ctx.prepare()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if ctx.clock.Done() || ctx.closed.Load() {
			break
		}
	}
	log.Infof("engine complete")
	ctx.Close()
}
