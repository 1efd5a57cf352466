package roadnet

import (
	"fmt"
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/input"
)

// Lane 路网车道
// 功能：以折线中心线表示的一段车道，末端连接零个、一个或多个后继车道
// 说明：后继超过一个表示车道末端是路口分叉；零个表示可达路网的尽头
type Lane struct {
	id   int32
	maxV float64 // 车道限速（米/秒）

	line           []geometry.Point             // 转成Point的中心线折线
	lineLengths    []float64                    // 中心线折线的累积长度
	lineDirections []geometry.PolylineDirection // 中心线折线段每一段的方向（atan2）
	length         float64                      // 车道总长度

	successors []*Lane // 后继车道
}

func newLane(base input.Lane) *Lane {
	l := &Lane{
		id:   base.ID,
		maxV: base.MaxV,
	}
	l.line = lo.Map(base.Line, func(p input.Point, _ int) geometry.Point {
		return geometry.Point{X: p.X, Y: p.Y, Z: p.Z}
	})
	l.lineLengths = geometry.GetPolylineLengths2D(l.line)
	l.lineDirections = geometry.GetPolylineDirections(l.line)
	l.length = l.lineLengths[len(l.lineLengths)-1]
	return l
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{id: %d, length: %.2f}", l.id, l.length)
}

// ID 获取Lane ID
func (l *Lane) ID() int32 {
	return l.id
}

// Length 获取Lane长度
func (l *Lane) Length() float64 {
	return l.length
}

// MaxV 获取车道限速
func (l *Lane) MaxV() float64 {
	return l.maxV
}

// WaypointAt 获取车道上s坐标处的路点
func (l *Lane) WaypointAt(s float64) entity.IWaypoint {
	return &Waypoint{lane: l, s: lo.Clamp(s, 0, l.length)}
}

// 将当前车道s坐标转换为xy(z)坐标
func (l *Lane) getPositionByS(s float64) (pos geometry.Point) {
	s = lo.Clamp(s, l.lineLengths[0], l.lineLengths[len(l.lineLengths)-1])
	if i := sort.SearchFloat64s(l.lineLengths, s); i == 0 {
		pos = l.line[0]
	} else {
		sHigh, sLow := l.lineLengths[i], l.lineLengths[i-1]
		k := (s - sLow) / (sHigh - sLow)
		pos = geometry.Blend(l.line[i-1], l.line[i], k)
	}
	return
}

// 根据本车道s坐标计算切向角度（弧度）
func (l *Lane) getDirectionByS(s float64) (direction geometry.PolylineDirection) {
	s = lo.Clamp(s, l.lineLengths[0], l.lineLengths[len(l.lineLengths)-1])
	if i := sort.SearchFloat64s(l.lineLengths, s); i <= 1 {
		direction = l.lineDirections[0]
	} else {
		direction = l.lineDirections[i-1]
	}
	return
}

// 将xyz坐标投影到车道折线上，计算出对应的s坐标与投影距离
func (l *Lane) projectToLane(pos geometry.Point) (s, distance float64) {
	s = geometry.GetClosestPolylineSToPoint2D(l.line, l.lineLengths, pos)
	s = lo.Clamp(s, 0, l.length)
	closest := l.getPositionByS(s)
	return s, math.Hypot(closest.X-pos.X, closest.Y-pos.Y)
}

// forward 从s坐标出发沿行进方向前进distance米，返回所有可达的路点
// 算法说明：
// 1. 若本车道剩余长度足够，返回本车道上的单个路点
// 2. 否则将剩余距离摊到每个后继车道上递归前进，结果按后继顺序拼接
// 3. 没有后继（路网尽头）时返回空列表
func (l *Lane) forward(s, distance float64) []entity.IWaypoint {
	if s+distance <= l.length {
		return []entity.IWaypoint{&Waypoint{lane: l, s: s + distance}}
	}
	remaining := distance - (l.length - s)
	wps := make([]entity.IWaypoint, 0, len(l.successors))
	for _, suc := range l.successors {
		wps = append(wps, suc.forward(0, remaining)...)
	}
	return wps
}
