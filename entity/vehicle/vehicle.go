package vehicle

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
)

var log = logrus.WithField("module", "vehicle")

const (
	maxSteerAngle = 70.0 * math.Pi / 180 // 最大前轮转角（弧度）
	wheelBase     = 2.875                // 轴距（米）
	maxA          = 3.5                  // 油门全开时的加速度（米/秒²）
	maxBrakingA   = 8.0                  // 刹车全开时的减速度（米/秒²）
	dragFactor    = 0.05                 // 无输入时的速度衰减系数
)

// Vehicle 被控车辆
// 功能：维护车辆的运动学状态（位置、朝向、速度），将控制指令积分为运动
// 说明：采用简化的自行车模型，仅服务于闭环测试床，不追求动力学保真度
type Vehicle struct {
	id int32

	pos geometry.Point // 位置坐标
	yaw float64        // 朝向（度，[0, 360)）
	v   float64        // 速度（米/秒），倒挡时为负

	released bool // 是否已归还给外部世界
}

// New 创建车辆
// 参数：id-车辆ID，pos-初始位置，yaw-初始朝向（度）
func New(id int32, pos geometry.Point, yaw float64) *Vehicle {
	return &Vehicle{
		id:  id,
		pos: pos,
		yaw: normalizeDeg(yaw),
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id: %d, pos: (%.2f, %.2f), yaw: %.1f, v: %.2f}",
		v.id, v.pos.X, v.pos.Y, v.yaw, v.v)
}

// ID 获取车辆ID
func (v *Vehicle) ID() int32 {
	return v.id
}

// Position 获取车辆坐标
func (v *Vehicle) Position() geometry.Point {
	return v.pos
}

// Heading 获取车辆朝向（度）
func (v *Vehicle) Heading() float64 {
	return v.yaw
}

// V 获取车辆速度（米/秒）
func (v *Vehicle) V() float64 {
	return math.Abs(v.v)
}

// ApplyControl 施加控制指令并推进运动学状态
// 参数：cmd-控制指令，dt-时间步长（秒）
// 算法说明：
// 1. 加速度 = 油门×maxA - 刹车×maxBrakingA，倒挡时沿反方向推进
// 2. 速度积分后按自行车模型更新朝向：dyaw = v/L × tan(前轮转角) × dt
// 3. 位置沿当前朝向积分
func (v *Vehicle) ApplyControl(cmd entity.ControlCommand, dt float64) {
	if v.released {
		log.Panicf("vehicle %d: ApplyControl after release", v.id)
	}
	throttle := lo.Clamp(cmd.Throttle, 0, 1)
	brake := lo.Clamp(cmd.Brake, 0, 1)
	steer := lo.Clamp(cmd.Steer, -1, 1)

	a := throttle*maxA - brake*maxBrakingA
	if cmd.HandBrake {
		a = -maxBrakingA
	}
	direction := 1.0
	if cmd.Reverse {
		direction = -1.0
	}
	speed := math.Abs(v.v)
	speed += a * dt
	if throttle == 0 && brake == 0 {
		speed -= speed * dragFactor
	}
	speed = math.Max(speed, 0)
	v.v = direction * speed

	yawRad := v.yaw * math.Pi / 180
	yawRad += v.v / wheelBase * math.Tan(steer*maxSteerAngle) * dt
	v.yaw = normalizeDeg(yawRad * 180 / math.Pi)

	v.pos.X += v.v * math.Cos(yawRad) * dt
	v.pos.Y += v.v * math.Sin(yawRad) * dt
}

// Release 将车辆归还给外部世界
// 说明：只允许生效一次，重复调用是无害的空操作（记录日志便于排查双重释放）
func (v *Vehicle) Release() {
	if v.released {
		log.Warnf("vehicle %d: double release ignored", v.id)
		return
	}
	v.released = true
	log.Infof("vehicle %d released", v.id)
}

// Released 查询车辆是否已归还
func (v *Vehicle) Released() bool {
	return v.released
}

func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
