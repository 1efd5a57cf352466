package agent

import (
	"errors"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/container"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/randengine"
)

// LocalPlanner 局部规划器
// 功能：沿在线生成的路点轨迹驱动车辆，每个tick输出一条底层控制指令
// 说明：
//  1. 轨迹队列按采样半径逐点向前扩展，路口分叉时在各候选机动中等概率抽签
//  2. 路点缓冲是从队列头部弹出的近视界窗口，控制律始终跟踪缓冲头部
//  3. 队列与缓冲均为有界FIFO，任何时刻长度不超过容量
//  4. 单线程使用，队列与缓冲的修改只允许发生在驱动tick的线程上
type LocalPlanner struct {
	roadnet    entity.IRoadNet
	vehicle    entity.IVehicle
	controller entity.IController
	engine     *randengine.Engine // 路口抽签用随机源（显式注入，保证可复现）
	params     *config.PlannerParams
	visualizer entity.IVisualizer // 可选

	queue  *container.Ring[entity.TrajectoryEntry] // 轨迹队列
	buffer *container.Ring[entity.TrajectoryEntry] // 路点缓冲

	currentWaypoint entity.IWaypoint // 车辆当前位置对应的路点
	targetWaypoint  entity.IWaypoint // 当前跟踪目标
	targetManeuver  entity.Maneuver  // 当前跟踪目标的机动类型
	targetSpeed     float64          // 巡航目标速度（km/h）

	globalPlan bool // 全局规划已锁存，自动扩展永久停用
	owning     bool // 是否独占车辆句柄（Close时归还）
	closed     bool
}

// NewLocalPlanner 创建局部规划器
// 功能：校验依赖、定位车辆所在路点、播种并预填充轨迹队列
// 参数：
//   - roadnet: 路网（几何查询源）
//   - veh: 被控车辆
//   - controller: 横向+纵向控制律
//   - engine: 随机数引擎，路口机动抽签用
//   - params: 解析完缺省值的规划器参数
//   - owning: 是否独占车辆句柄，独占时Close会将车辆归还外部世界（恰好一次）
//
// 返回：规划器指针；依赖缺失或出生点前方没有路网时返回错误
func NewLocalPlanner(
	roadnet entity.IRoadNet,
	veh entity.IVehicle,
	controller entity.IController,
	engine *randengine.Engine,
	params *config.PlannerParams,
	owning bool,
) (*LocalPlanner, error) {
	if veh == nil {
		return nil, errors.New("agent: vehicle must not be nil")
	}
	if roadnet == nil {
		return nil, errors.New("agent: road network must not be nil")
	}
	if controller == nil {
		return nil, errors.New("agent: controller must not be nil")
	}
	if engine == nil {
		return nil, errors.New("agent: random engine must not be nil")
	}
	p := &LocalPlanner{
		roadnet:        roadnet,
		vehicle:        veh,
		controller:     controller,
		engine:         engine,
		params:         params,
		queue:          container.NewRing[entity.TrajectoryEntry](params.QueueCapacity),
		buffer:         container.NewRing[entity.TrajectoryEntry](params.BufferSize),
		targetManeuver: entity.ManeuverLaneFollow,
		targetSpeed:    params.TargetSpeed,
		owning:         owning,
	}
	// 播种：以出生点前方第一个后继作为队列的初始元素
	p.currentWaypoint = roadnet.GetWaypoint(veh.Position())
	nexts := p.currentWaypoint.Next(params.SamplingRadius)
	if len(nexts) == 0 {
		return nil, fmt.Errorf("agent: no road ahead of spawn waypoint %v", p.currentWaypoint)
	}
	p.queue.PushBack(entity.TrajectoryEntry{
		Waypoint: nexts[0],
		Maneuver: entity.ManeuverLaneFollow,
	})
	p.extend(params.PrefillCount)
	return p, nil
}

// SetSpeed 修改巡航目标速度
// 参数：speed-新目标速度（km/h）
func (p *LocalPlanner) SetSpeed(speed float64) {
	p.targetSpeed = speed
}

// SetVisualizer 设置调试可视化（可选）
func (p *LocalPlanner) SetVisualizer(v entity.IVisualizer) {
	p.visualizer = v
}

// TargetWaypoint 获取当前跟踪目标路点
func (p *LocalPlanner) TargetWaypoint() entity.IWaypoint {
	return p.targetWaypoint
}

// TargetManeuver 获取当前跟踪目标的机动类型
func (p *LocalPlanner) TargetManeuver() entity.Maneuver {
	return p.targetManeuver
}

// QueueLen 获取轨迹队列当前长度
func (p *LocalPlanner) QueueLen() int {
	return p.queue.Len()
}

// BufferLen 获取路点缓冲当前长度
func (p *LocalPlanner) BufferLen() int {
	return p.buffer.Len()
}

// GlobalPlanActive 查询全局规划是否已锁存
func (p *LocalPlanner) GlobalPlanActive() bool {
	return p.globalPlan
}

// extend 向轨迹队列尾部扩展路点
// 参数：k-期望扩展的路点数
// 算法说明：
// 1. k截断到队列剩余容量，容量不足不是错误
// 2. 每次迭代对当前队尾路点查询采样半径处的后继：
//   - 0个后继 → 路网尽头，静默停止，放弃剩余迭代
//   - 1个后继 → 机动为LANEFOLLOW
//   - 多个后继 → 逐个判别机动类型，在返回的标签中等概率抽签，
//     配对的路点取第一个命中抽中标签的下标（重复标签按下标靠前者）
func (p *LocalPlanner) extend(k int) {
	if free := p.queue.Free(); k > free {
		k = free
	}
	for i := 0; i < k; i++ {
		last, ok := p.queue.Back()
		if !ok {
			// 队列被清空且没有种子，无从扩展
			return
		}
		nexts := last.Waypoint.Next(p.params.SamplingRadius)
		if len(nexts) == 0 {
			return
		}
		var e entity.TrajectoryEntry
		if len(nexts) == 1 {
			e = entity.TrajectoryEntry{
				Waypoint: nexts[0],
				Maneuver: entity.ManeuverLaneFollow,
			}
		} else {
			maneuvers := retrieveManeuvers(last.Waypoint, nexts)
			choice, _ := randengine.Choice(p.engine, maneuvers)
			e = entity.TrajectoryEntry{
				Waypoint: nexts[lo.IndexOf(maneuvers, choice)],
				Maneuver: choice,
			}
		}
		p.queue.PushBack(e)
	}
}

// SetGlobalPlan 设置全局规划
// 功能：清空轨迹队列并整体替换为外部提供的(路点, 机动)序列，
// 永久锁存globalPlan，此后自动扩展不再触发
// 说明：超出队列容量的部分被截断（记入日志，非错误）
func (p *LocalPlanner) SetGlobalPlan(plan []entity.TrajectoryEntry) {
	p.queue.Clear()
	for i, e := range plan {
		if !p.queue.PushBack(e) {
			log.Warnf("global plan truncated to queue capacity: %d of %d entries kept", i, len(plan))
			break
		}
	}
	p.targetManeuver = entity.ManeuverLaneFollow
	p.globalPlan = true
}

// fullStop 失效保护指令：全力制动
func fullStop() entity.ControlCommand {
	return entity.ControlCommand{
		Steer:           0,
		Throttle:        0,
		Brake:           1,
		HandBrake:       false,
		Reverse:         false,
		ManualGearShift: false,
	}
}

// RunStep 执行一个控制tick
// 参数：debug-是否向可视化器发送当前目标路点
// 返回：本tick的控制指令
// 算法说明（顺序固定）：
// 1. 自动补充：未锁存全局规划且队列长度低于容量一半时扩展一批
// 2. 失效保护：队列与缓冲同时为空时返回全力制动，不调用控制律
// 3. 缓冲补充：缓冲为空时从队列头部弹出填充，直到缓冲满或队列耗尽
// 4. 位姿读取：由车辆位置查询当前路点（只读）
// 5. 目标选择：目标为缓冲头部（不弹出）
// 6. 控制计算：(目标速度, 目标路点)交给控制律
// 7. 倒车覆盖：目标机动为REVERSE时覆盖为油门0.5、刹车0、倒挡
// 8. 清除：缓冲中从头到尾最后一个进入到达判定距离的下标及其之前的
//    元素全部弹出丢弃；清除是单调的，弹出的元素不会重新入队
// 9. 可选副作用：向可视化器发送目标路点
func (p *LocalPlanner) RunStep(debug bool) entity.ControlCommand {
	// 1. 自动补充
	if !p.globalPlan && p.queue.Len() < p.queue.Cap()/2 {
		p.extend(p.params.RefillBatch)
	}

	// 2. 失效保护
	if p.queue.Len() == 0 && p.buffer.Len() == 0 {
		return fullStop()
	}

	// 3. 缓冲补充
	if p.buffer.Len() == 0 {
		for p.buffer.Len() < p.params.BufferSize {
			e, ok := p.queue.PopFront()
			if !ok {
				break
			}
			p.buffer.PushBack(e)
		}
	}

	// 4. 位姿读取
	vehiclePos := p.vehicle.Position()
	p.currentWaypoint = p.roadnet.GetWaypoint(vehiclePos)

	// 5. 目标选择
	target := p.buffer.At(0)
	p.targetWaypoint = target.Waypoint
	p.targetManeuver = target.Maneuver

	// 6. 控制计算
	cmd := p.controller.Compute(p.targetSpeed, target.Waypoint)

	// 7. 倒车覆盖
	if target.Maneuver == entity.ManeuverReverse {
		cmd.Throttle = 0.5
		cmd.Brake = 0
		cmd.Reverse = true
	}

	// 8. 清除到达的路点
	maxIndex := -1
	for i := 0; i < p.buffer.Len(); i++ {
		if distance2D(p.buffer.At(i).Waypoint.Position(), vehiclePos) < p.params.MinDistance {
			maxIndex = i
		}
	}
	for i := 0; i <= maxIndex; i++ {
		p.buffer.PopFront()
	}

	// 9. 调试可视化
	if debug && p.visualizer != nil {
		p.visualizer.Draw([]entity.IWaypoint{target.Waypoint}, vehiclePos.Z+1.0)
	}

	return cmd
}

// Close 关闭规划器
// 功能：丢弃队列与缓冲；独占模式下将车辆句柄归还外部世界（恰好一次）
func (p *LocalPlanner) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.queue.Clear()
	p.buffer.Clear()
	if p.owning {
		p.vehicle.Release()
	}
}

func distance2D(a, b geometry.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
