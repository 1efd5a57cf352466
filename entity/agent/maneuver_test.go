package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity/agent"
)

func TestClassifyConnection(t *testing.T) {
	cases := []struct {
		current, next float64
		want          entity.Maneuver
	}{
		{0, 0, entity.ManeuverStraight},
		{0, 0.9, entity.ManeuverStraight},
		// 1.0 is not "straight"
		{0, 1.0, entity.ManeuverRight},
		{0, 45, entity.ManeuverRight},
		{0, 89.9, entity.ManeuverRight},
		// exactly 90 still falls through to the right branch
		{0, 90.0, entity.ManeuverRight},
		{0, 90.1, entity.ManeuverLeft},
		{0, 134.9, entity.ManeuverLeft},
		{0, 135.0, entity.ManeuverReverse},
		{0, 160, entity.ManeuverReverse},
		{0, 180, entity.ManeuverReverse},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, agent.ClassifyConnection(c.current, c.next),
			"current=%.1f next=%.1f", c.current, c.next)
	}
}

func TestClassifyConnectionWrapAround(t *testing.T) {
	// the minor arc is used: 350° vs 10° is a 20° difference
	assert.Equal(t, entity.ManeuverRight, agent.ClassifyConnection(350, 10))
	// negative headings are normalized into [0, 360) first
	assert.Equal(t, entity.ManeuverRight, agent.ClassifyConnection(-10, 10))
	assert.Equal(t, entity.ManeuverStraight, agent.ClassifyConnection(-90, 270))
	// symmetric in both directions
	assert.Equal(t, entity.ManeuverLeft, agent.ClassifyConnection(100, 0))
}
