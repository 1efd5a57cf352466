package roadnet

import (
	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/input"
)

// Network 路网
// 功能：管理所有车道并提供坐标到路点的映射
type Network struct {
	lanes map[int32]*Lane // Lane ID -> Lane
}

// New 根据输入数据构建路网
// 功能：两趟构建，先创建所有车道再连接后继关系
// 参数：m-路网输入数据（已由input模块校验）
// 返回：构建完成的路网指针
func New(m *input.MapData) *Network {
	n := &Network{
		lanes: make(map[int32]*Lane, len(m.Lanes)),
	}
	for _, base := range m.Lanes {
		n.lanes[base.ID] = newLane(base)
	}
	for _, base := range m.Lanes {
		l := n.lanes[base.ID]
		for _, sucID := range base.Successors {
			l.successors = append(l.successors, n.lanes[sucID])
		}
	}
	log.Debugf("network built with %d lanes", len(n.lanes))
	return n
}

// Lanes 获取所有车道（Lane ID -> Lane）
func (n *Network) Lanes() map[int32]entity.IWaypointLane {
	lanes := make(map[int32]entity.IWaypointLane, len(n.lanes))
	for id, l := range n.lanes {
		lanes[id] = l
	}
	return lanes
}

// Get 根据ID获取车道
func (n *Network) Get(id int32) *Lane {
	l, ok := n.lanes[id]
	if !ok {
		log.Panicf("network: no lane with id %d", id)
	}
	return l
}

// GetWaypoint 将坐标映射到最近车道上的路点
// 算法说明：
// 1. 将坐标投影到每条车道的中心线折线上
// 2. 取投影距离最小的车道，返回其投影点处的路点
func (n *Network) GetWaypoint(pos geometry.Point) entity.IWaypoint {
	var best *Waypoint
	minDistance := mathutil.INF
	for _, l := range n.lanes {
		s, distance := l.projectToLane(pos)
		if distance < minDistance {
			minDistance = distance
			best = &Waypoint{lane: l, s: s}
		}
	}
	if best == nil {
		log.Panic("network: GetWaypoint on empty network")
	}
	return best
}
