package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// Maneuver 两个相邻路点之间的连接类型
// 功能：描述从当前路点到下一路点的机动动作（直行、转向、沿车道行驶等）
// 说明：数值与测试床既有输出格式保持兼容，不可随意调整
type Maneuver int32

const (
	ManeuverVoid            Maneuver = -1 // 无效机动
	ManeuverLeft            Maneuver = 1  // 左转
	ManeuverRight           Maneuver = 2  // 右转
	ManeuverStraight        Maneuver = 3  // 直行
	ManeuverLaneFollow      Maneuver = 4  // 沿车道行驶
	ManeuverChangeLaneLeft  Maneuver = 5  // 向左变道
	ManeuverChangeLaneRight Maneuver = 6  // 向右变道
	ManeuverReverse         Maneuver = 7  // 倒车（大角度折返）
)

func (m Maneuver) String() string {
	switch m {
	case ManeuverVoid:
		return "VOID"
	case ManeuverLeft:
		return "LEFT"
	case ManeuverRight:
		return "RIGHT"
	case ManeuverStraight:
		return "STRAIGHT"
	case ManeuverLaneFollow:
		return "LANEFOLLOW"
	case ManeuverChangeLaneLeft:
		return "CHANGELANELEFT"
	case ManeuverChangeLaneRight:
		return "CHANGELANERIGHT"
	case ManeuverReverse:
		return "REVERSE"
	default:
		return fmt.Sprintf("Maneuver(%d)", int32(m))
	}
}

// ControlCommand 底层控制指令
// 功能：规划器每个tick输出的低层控制量，直接作用于车辆执行器
type ControlCommand struct {
	Steer           float64 // 转向，[-1, 1]
	Throttle        float64 // 油门，[0, 1]
	Brake           float64 // 刹车，[0, 1]
	HandBrake       bool    // 手刹
	Reverse         bool    // 倒挡
	ManualGearShift bool    // 手动换挡
}

func (c ControlCommand) String() string {
	return fmt.Sprintf(
		"ControlCommand{Steer: %.3f, Throttle: %.3f, Brake: %.3f, Reverse: %v}",
		c.Steer, c.Throttle, c.Brake, c.Reverse,
	)
}

// TrajectoryEntry 轨迹队列元素，路点与到达该路点的机动类型的不可变配对
type TrajectoryEntry struct {
	Waypoint IWaypoint // 路点（引用，路网所有）
	Maneuver Maneuver  // 机动类型
}

func (e TrajectoryEntry) String() string {
	return fmt.Sprintf("TrajectoryEntry{%v, %v}", e.Waypoint, e.Maneuver)
}

// entity/roadnet/waypoint.go的依赖倒置
// 路点是路网上的离散采样点，规划器只持有引用，底层路网图归路网模块所有
type IWaypoint interface {
	String() string

	LaneID() int32                     // 获取所在Lane的ID
	S() float64                        // 获取在Lane上的位置S坐标
	Position() geometry.Point          // 获取路点坐标
	Heading() float64                  // 获取路点朝向（度，[0, 360)）
	Next(distance float64) []IWaypoint // 获取前方distance米处的后继路点（0个表示路网尽头，多个表示路口）
}

// entity/roadnet/network.go的依赖倒置
type IRoadNet interface {
	GetWaypoint(pos geometry.Point) IWaypoint // 将坐标映射到最近车道上的路点
	Lanes() map[int32]IWaypointLane           // 获取所有车道（Lane ID -> Lane）
}

// 路网车道的对外只读视图
type IWaypointLane interface {
	ID() int32                      // 获取Lane ID
	Length() float64                // 获取Lane长度
	MaxV() float64                  // 获取车道限速
	WaypointAt(s float64) IWaypoint // 获取车道上s坐标处的路点
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	String() string

	ID() int32                                   // 获取车辆ID
	Position() geometry.Point                    // 获取车辆坐标
	Heading() float64                            // 获取车辆朝向（度）
	V() float64                                  // 获取车辆速度（米/秒）
	ApplyControl(cmd ControlCommand, dt float64) // 施加控制指令并推进运动学状态
	Release()                                    // 将车辆归还给外部世界，只允许调用一次
}

// 控制律的依赖倒置：由横向+纵向控制器计算原始控制指令
type IController interface {
	Compute(targetSpeed float64, target IWaypoint) ControlCommand // targetSpeed单位km/h
}

// 调试可视化的依赖倒置，可选、可跳过
type IVisualizer interface {
	Draw(waypoints []IWaypoint, zOffset float64)
}
