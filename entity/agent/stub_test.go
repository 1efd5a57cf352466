package agent_test

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
)

// scripted waypoint: successors are wired by hand, Next ignores the
// requested distance and counts how often it was queried
type stubWaypoint struct {
	lane      int32
	s         float64
	pos       geometry.Point
	heading   float64
	nexts     []entity.IWaypoint
	nextCalls int
}

func (w *stubWaypoint) String() string {
	return fmt.Sprintf("stubWaypoint{lane: %d, s: %.1f}", w.lane, w.s)
}

func (w *stubWaypoint) LaneID() int32 {
	return w.lane
}

func (w *stubWaypoint) S() float64 {
	return w.s
}

func (w *stubWaypoint) Position() geometry.Point {
	return w.pos
}

func (w *stubWaypoint) Heading() float64 {
	return w.heading
}

func (w *stubWaypoint) Next(distance float64) []entity.IWaypoint {
	w.nextCalls++
	return w.nexts
}

// road network stub: every position maps to the same waypoint
type stubNet struct {
	wp entity.IWaypoint
}

func (n *stubNet) GetWaypoint(pos geometry.Point) entity.IWaypoint {
	return n.wp
}

func (n *stubNet) Lanes() map[int32]entity.IWaypointLane {
	return nil
}

type stubVehicle struct {
	pos      geometry.Point
	heading  float64
	v        float64
	released int
}

func (s *stubVehicle) String() string {
	return "stubVehicle"
}

func (s *stubVehicle) ID() int32 {
	return 0
}

func (s *stubVehicle) Position() geometry.Point {
	return s.pos
}

func (s *stubVehicle) Heading() float64 {
	return s.heading
}

func (s *stubVehicle) V() float64 {
	return s.v
}

func (s *stubVehicle) ApplyControl(cmd entity.ControlCommand, dt float64) {}

func (s *stubVehicle) Release() {
	s.released++
}

// control law stub returning a fixed command and recording invocations
type stubController struct {
	cmd       entity.ControlCommand
	calls     int
	lastSpeed float64
}

func (c *stubController) Compute(targetSpeed float64, target entity.IWaypoint) entity.ControlCommand {
	c.calls++
	c.lastSpeed = targetSpeed
	return c.cmd
}

func testParams() *config.PlannerParams {
	return &config.PlannerParams{
		DT:             1.0 / 20.0,
		TargetSpeed:    20,
		SamplingRadius: 5,
		MinDistance:    4.5,
		QueueCapacity:  50,
		BufferSize:     5,
		RefillBatch:    10,
		PrefillCount:   10,
		Lateral:        config.PIDGains{KP: 1.95, KD: 0.01, KI: 1.4},
		Longitudinal:   config.PIDGains{KP: 1.0, KD: 0, KI: 1.0},
	}
}

// straight chain of single-successor waypoints spaced `gap` meters along +x,
// starting at (gap, 0); returns the spawn waypoint (at the origin) and the chain
func buildChain(n int, gap float64) (*stubWaypoint, []*stubWaypoint) {
	chain := make([]*stubWaypoint, n)
	for i := range chain {
		chain[i] = &stubWaypoint{
			lane: 1,
			s:    float64(i+1) * gap,
			pos:  geometry.Point{X: float64(i+1) * gap},
		}
	}
	for i := 0; i < n-1; i++ {
		chain[i].nexts = []entity.IWaypoint{chain[i+1]}
	}
	spawn := &stubWaypoint{lane: 1, nexts: []entity.IWaypoint{chain[0]}}
	return spawn, chain
}
