package agent

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/container"
)

const (
	lateralErrBufferSize      = 10 // 横向PID误差窗口长度
	longitudinalErrBufferSize = 30 // 纵向PID误差窗口长度
)

// pidController 单通道PID控制器
// 功能：对误差序列做比例-微分-积分运算，积分项在有界误差窗口上累加
type pidController struct {
	gains     config.PIDGains
	dt        float64
	errBuffer *container.Ring[float64] // 误差历史窗口
}

func newPIDController(gains config.PIDGains, dt float64, bufferSize int) *pidController {
	return &pidController{
		gains:     gains,
		dt:        dt,
		errBuffer: container.NewRing[float64](bufferSize),
	}
}

// step 输入本周期误差，输出未限幅的控制量
func (p *pidController) step(err float64) float64 {
	var de, ie float64
	if last, ok := p.errBuffer.Back(); ok {
		de = (err - last) / p.dt
	}
	if p.errBuffer.Free() == 0 {
		p.errBuffer.PopFront()
	}
	p.errBuffer.PushBack(err)
	for _, e := range p.errBuffer.Values() {
		ie += e
	}
	ie *= p.dt
	return p.gains.KP*err + p.gains.KD*de + p.gains.KI*ie
}

// VehiclePIDController 横向+纵向组合PID控制律
// 功能：由目标速度与目标路点计算原始控制指令
// 说明：纵向通道以km/h速度误差驱动油门，横向通道以车头指向与
// 目标路点连线的带符号夹角（弧度）驱动转向
type VehiclePIDController struct {
	vehicle      entity.IVehicle
	lateral      *pidController
	longitudinal *pidController
}

// NewVehiclePIDController 创建组合PID控制律
// 参数：vehicle-被控车辆，lateral/longitudinal-两通道增益，dt-控制周期（秒）
func NewVehiclePIDController(
	vehicle entity.IVehicle,
	lateral, longitudinal config.PIDGains,
	dt float64,
) *VehiclePIDController {
	return &VehiclePIDController{
		vehicle:      vehicle,
		lateral:      newPIDController(lateral, dt, lateralErrBufferSize),
		longitudinal: newPIDController(longitudinal, dt, longitudinalErrBufferSize),
	}
}

// Compute 计算一个控制周期的原始控制指令
// 参数：targetSpeed-目标速度（km/h），target-目标路点
// 返回：控制指令，油门限幅到[0, 1]，转向限幅到[-1, 1]，刹车为0
func (c *VehiclePIDController) Compute(targetSpeed float64, target entity.IWaypoint) entity.ControlCommand {
	throttle := lo.Clamp(c.longitudinal.step(targetSpeed-c.vehicle.V()*3.6), 0, 1)
	steer := lo.Clamp(c.lateral.step(c.headingError(target)), -1, 1)
	return entity.ControlCommand{
		Steer:    steer,
		Throttle: throttle,
	}
}

// headingError 计算车头指向与目标路点连线的带符号夹角（弧度）
// 算法说明：
// 1. 由车辆朝向构造前向单位向量
// 2. 取车辆位置指向目标路点的向量
// 3. 夹角由点积反余弦给出，叉积z分量为负时取负号
func (c *VehiclePIDController) headingError(target entity.IWaypoint) float64 {
	yaw := c.vehicle.Heading() * math.Pi / 180
	fx, fy := math.Cos(yaw), math.Sin(yaw)
	pos := c.vehicle.Position()
	tpos := target.Position()
	wx, wy := tpos.X-pos.X, tpos.Y-pos.Y
	norm := math.Hypot(wx, wy)
	if norm < 1e-9 {
		return 0
	}
	angle := math.Acos(lo.Clamp((fx*wx+fy*wy)/norm, -1, 1))
	if fx*wy-fy*wx < 0 {
		angle = -angle
	}
	return angle
}
