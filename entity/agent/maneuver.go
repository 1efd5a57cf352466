package agent

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
)

// 判别路口机动时向候选路点前方额外探测的距离（米）
// 路口入口处的切向变化很小，只看候选点本身的朝向会把转弯误判成直行，
// 因此取候选点再往前一段距离处的朝向参与判别
const lookFurtherDistance = 3.0

// ClassifyConnection 判别两个朝向之间的机动类型
// 功能：根据当前路点朝向与前方路点朝向的夹角给出机动标签
// 参数：currentHeading-当前路点朝向（度），nextHeading-前方路点朝向（度）
// 返回：机动类型
// 算法说明：
// 1. 两个朝向归一化到[0, 360)
// 2. 取差值的劣弧：diff > 180时取360 - diff
// 3. 按固定顺序分支（边界条件与既有输出格式保持兼容，不可调整）：
//   - diff < 1.0 → 直行
//   - 90.0 < diff < 135.0 → 左转
//   - diff ≥ 135.0 → 倒车（大角度折返）
//   - 其余（[1.0, 90.0]，含90.0）→ 右转
func ClassifyConnection(currentHeading, nextHeading float64) entity.Maneuver {
	c := normalizeHeading(currentHeading)
	n := normalizeHeading(nextHeading)
	diff := math.Abs(n - c)
	if diff > 180 {
		diff = 360 - diff
	}
	switch {
	case diff < 1.0:
		return entity.ManeuverStraight
	case diff > 90.0 && diff < 135.0:
		return entity.ManeuverLeft
	case diff >= 135.0:
		return entity.ManeuverReverse
	default:
		return entity.ManeuverRight
	}
}

// retrieveManeuvers 判别当前路点到每个候选后继路点的机动类型
// 说明：每个候选点都再向前探测lookFurtherDistance米后取朝向，
// 探测不到（路网尽头）时退化为候选点本身的朝向
func retrieveManeuvers(current entity.IWaypoint, candidates []entity.IWaypoint) []entity.Maneuver {
	return lo.Map(candidates, func(candidate entity.IWaypoint, _ int) entity.Maneuver {
		heading := candidate.Heading()
		if further := candidate.Next(lookFurtherDistance); len(further) > 0 {
			heading = further[0].Heading()
		}
		return ClassifyConnection(current.Heading(), heading)
	})
}

func normalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
