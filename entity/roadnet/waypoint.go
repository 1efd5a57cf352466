package roadnet

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
)

// Waypoint 路点，(车道, s坐标)二元组
// 功能：路网上的离散采样点，提供位置、朝向与后继查询
// 说明：路点是轻量值对象，底层路网图归Network所有
type Waypoint struct {
	lane *Lane
	s    float64
}

func (w *Waypoint) String() string {
	return fmt.Sprintf("Waypoint{lane: %d, s: %.2f}", w.lane.id, w.s)
}

// LaneID 获取所在Lane的ID
func (w *Waypoint) LaneID() int32 {
	return w.lane.id
}

// S 获取在Lane上的位置S坐标
func (w *Waypoint) S() float64 {
	return w.s
}

// Position 获取路点坐标
func (w *Waypoint) Position() geometry.Point {
	return w.lane.getPositionByS(w.s)
}

// Heading 获取路点朝向
// 返回：车道切向角度（度，[0, 360)，x轴正方向为0，逆时针为正）
func (w *Waypoint) Heading() float64 {
	direction := w.lane.getDirectionByS(w.s)
	deg := math.Mod(direction.Direction*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Next 获取前方distance米处的后继路点
// 返回：0个表示路网尽头，1个表示沿车道行驶，多个表示路口分叉
func (w *Waypoint) Next(distance float64) []entity.IWaypoint {
	return w.lane.forward(w.s, distance)
}
