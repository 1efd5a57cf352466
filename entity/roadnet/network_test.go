package roadnet_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/roadnet"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/input"
)

// a 100m straight lane heading +x, forking at its end into a
// continuation (+x) and a left turn (+y)
func forkMap() *input.MapData {
	return &input.MapData{
		Lanes: []input.Lane{
			{
				ID:         1,
				MaxV:       8.33,
				Line:       []input.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
				Successors: []int32{2, 3},
			},
			{
				ID:   2,
				MaxV: 8.33,
				Line: []input.Point{{X: 100, Y: 0}, {X: 200, Y: 0}},
			},
			{
				ID:   3,
				MaxV: 8.33,
				Line: []input.Point{{X: 100, Y: 0}, {X: 100, Y: 100}},
			},
		},
	}
}

func TestWaypointAlongLane(t *testing.T) {
	n := roadnet.New(forkMap())
	wp := n.Get(1).WaypointAt(0)

	assert.Equal(t, int32(1), wp.LaneID())
	assert.InDelta(t, 0.0, wp.Heading(), 1e-9)

	nexts := wp.Next(10)
	assert.Len(t, nexts, 1)
	assert.Equal(t, int32(1), nexts[0].LaneID())
	assert.InDelta(t, 10.0, nexts[0].S(), 1e-9)
	assert.InDelta(t, 10.0, nexts[0].Position().X, 1e-9)
}

func TestWaypointAcrossJunction(t *testing.T) {
	n := roadnet.New(forkMap())
	wp := n.Get(1).WaypointAt(95)

	// 10m ahead crosses the lane end: one continuation per successor
	nexts := wp.Next(10)
	assert.Len(t, nexts, 2)
	assert.Equal(t, int32(2), nexts[0].LaneID())
	assert.InDelta(t, 5.0, nexts[0].S(), 1e-9)
	assert.Equal(t, int32(3), nexts[1].LaneID())
	assert.InDelta(t, 5.0, nexts[1].S(), 1e-9)
	// the turn successor heads +y
	assert.InDelta(t, 90.0, nexts[1].Heading(), 1e-9)
}

func TestWaypointDeadEnd(t *testing.T) {
	n := roadnet.New(forkMap())
	wp := n.Get(2).WaypointAt(95)
	assert.Empty(t, wp.Next(10))
}

func TestGetWaypointProjection(t *testing.T) {
	n := roadnet.New(forkMap())
	// a point slightly off lane 1 projects back onto it
	wp := n.GetWaypoint(geometry.Point{X: 40, Y: 2})
	assert.Equal(t, int32(1), wp.LaneID())
	assert.InDelta(t, 40.0, wp.S(), 1e-6)
}
