package agent_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/agent"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
)

const controllerDT = 1.0 / 20.0

func newTestController(veh entity.IVehicle) *agent.VehiclePIDController {
	return agent.NewVehiclePIDController(
		veh,
		config.PIDGains{KP: 1.95, KD: 0.01, KI: 1.4},
		config.PIDGains{KP: 1.0, KD: 0, KI: 1.0},
		controllerDT,
	)
}

func TestPIDControllerLongitudinal(t *testing.T) {
	veh := &stubVehicle{heading: 0, v: 0}
	target := &stubWaypoint{lane: 1, pos: geometry.Point{X: 10}}

	// standing still below the target speed: accelerate, do not brake
	cmd := newTestController(veh).Compute(20, target)
	assert.Greater(t, cmd.Throttle, 0.0)
	assert.LessOrEqual(t, cmd.Throttle, 1.0)
	assert.Zero(t, cmd.Brake)

	// exactly at the target speed (20 km/h): zero error, zero throttle
	veh = &stubVehicle{heading: 0, v: 20 / 3.6}
	cmd = newTestController(veh).Compute(20, target)
	assert.Zero(t, cmd.Throttle)

	// a huge error saturates at the clamp
	veh = &stubVehicle{heading: 0, v: 0}
	cmd = newTestController(veh).Compute(1000, target)
	assert.Equal(t, 1.0, cmd.Throttle)
}

func TestPIDControllerLateral(t *testing.T) {
	// target straight ahead: no steering
	veh := &stubVehicle{heading: 0}
	cmd := newTestController(veh).Compute(20, &stubWaypoint{pos: geometry.Point{X: 10}})
	assert.InDelta(t, 0, cmd.Steer, 1e-9)

	// target to the left (+y with heading 0): positive steer
	cmd = newTestController(&stubVehicle{heading: 0}).Compute(20, &stubWaypoint{pos: geometry.Point{X: 5, Y: 5}})
	assert.Greater(t, cmd.Steer, 0.0)

	// target to the right: negative steer
	cmd = newTestController(&stubVehicle{heading: 0}).Compute(20, &stubWaypoint{pos: geometry.Point{X: 5, Y: -5}})
	assert.Less(t, cmd.Steer, 0.0)

	// target almost behind: saturates at the clamp
	cmd = newTestController(&stubVehicle{heading: 0}).Compute(20, &stubWaypoint{pos: geometry.Point{X: -10, Y: 0.1}})
	assert.Equal(t, 1.0, cmd.Steer)

	// degenerate case: target on top of the vehicle
	cmd = newTestController(&stubVehicle{heading: 0}).Compute(20, &stubWaypoint{pos: geometry.Point{}})
	assert.Zero(t, cmd.Steer)
}

func TestPIDControllerHeadingIndependence(t *testing.T) {
	// the lateral error is relative to the vehicle heading, not the world frame
	veh := &stubVehicle{heading: 90}
	cmd := newTestController(veh).Compute(20, &stubWaypoint{pos: geometry.Point{X: 0, Y: 10}})
	assert.InDelta(t, 0, cmd.Steer, 1e-9)
}
