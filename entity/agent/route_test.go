package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/agent"
)

func TestComputeRouteWaypoints(t *testing.T) {
	start, chain := buildChain(6, 2)
	plan := []entity.Maneuver{
		entity.ManeuverLeft,
		entity.ManeuverStraight,
		entity.ManeuverRight,
		entity.ManeuverLaneFollow,
		entity.ManeuverReverse,
	}

	route := agent.ComputeRouteWaypoints(start, chain[5], 2, plan, 3)
	require.Len(t, route, 3)
	for i, e := range route {
		// labels are copied from the plan as-is, geometry is not checked
		assert.Equal(t, plan[i], e.Maneuver)
		assert.Same(t, entity.IWaypoint(chain[i]), e.Waypoint)
	}
}

func TestComputeRouteWaypointsDeadEnd(t *testing.T) {
	start, chain := buildChain(2, 2)
	plan := []entity.Maneuver{
		entity.ManeuverLaneFollow,
		entity.ManeuverLaneFollow,
		entity.ManeuverLaneFollow,
		entity.ManeuverLaneFollow,
		entity.ManeuverLaneFollow,
	}

	// the road ends after two steps: a shorter route, not an error
	route := agent.ComputeRouteWaypoints(start, chain[1], 2, plan, 10)
	require.Len(t, route, 2)
	assert.Same(t, entity.IWaypoint(chain[1]), route[1].Waypoint)
}

func TestComputeRouteWaypointsDefaultPlan(t *testing.T) {
	start, chain := buildChain(3, 2)

	route := agent.ComputeRouteWaypoints(start, chain[2], 2, nil, 10)
	require.Len(t, route, 1)
	assert.Equal(t, entity.ManeuverLaneFollow, route[0].Maneuver)
	assert.Same(t, entity.IWaypoint(chain[0]), route[0].Waypoint)
}

func TestComputeRouteWaypointsEndIgnored(t *testing.T) {
	start, chain := buildChain(4, 2)
	plan := []entity.Maneuver{entity.ManeuverLaneFollow, entity.ManeuverLaneFollow}

	// the destination does not guide or stop the construction
	a := agent.ComputeRouteWaypoints(start, chain[0], 2, plan, 10)
	b := agent.ComputeRouteWaypoints(start, chain[3], 2, plan, 10)
	require.Len(t, a, 2)
	assert.Equal(t, a, b)
}
