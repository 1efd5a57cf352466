package agent

import (
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
)

// ComputeRouteWaypoints 批量构建有限路径
// 功能：从起点出发按外部给定的机动计划逐步前进，预先生成一条有限路径
// 参数：
//   - start: 起点路点
//   - end: 终点路点，仅作记录，不用于引导或终止构建
//   - resolution: 每步的前进距离（米）
//   - plan: 有序机动计划，为空时默认为单个LANEFOLLOW
//   - maxSteps: 步数上限
//
// 返回：(路点, 机动)序列，长度为min(len(plan), maxSteps)，
// 路网提前终止时更短（属预期结果，不是错误）
// 算法说明：
// 1. 逐个消费计划中的机动：查询当前点resolution米处的后继，
//    只取返回的第一个（本调用不解析多路分叉）
// 2. 没有后继时提前停止（路网尽头）
// 3. 机动标签原样复制自输入计划，不校验后继几何是否与其相符
// 4. 达到步数上限时停止并记录诊断日志（非致命）
func ComputeRouteWaypoints(
	start, end entity.IWaypoint,
	resolution float64,
	plan []entity.Maneuver,
	maxSteps int,
) []entity.TrajectoryEntry {
	if len(plan) == 0 {
		plan = []entity.Maneuver{entity.ManeuverLaneFollow}
	}
	route := make([]entity.TrajectoryEntry, 0, max(min(len(plan), maxSteps), 0))
	current := start
	steps := 0
	for _, maneuver := range plan {
		nexts := current.Next(resolution)
		if len(nexts) == 0 {
			break
		}
		current = nexts[0]
		route = append(route, entity.TrajectoryEntry{
			Waypoint: current,
			Maneuver: maneuver,
		})
		steps++
		if steps >= maxSteps {
			log.Warnf("route: max steps (%d) reached during route planning", maxSteps)
			break
		}
	}
	return route
}
