package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	g := NewGroup(453, 448)
	assert.Equal(t, 453, g.Tag())
	assert.Equal(t, 448, g.Delim())
	assert.Equal(t, OrderNormal, g.Order().Mode())

	g = NewGroupWithOrder(453, 448, []int{448, 447, 452})
	assert.Equal(t, OrderGroup, g.Order().Mode())
	assert.Equal(t, 452, g.Order().Largest())
}

func TestNewGroupPanics(t *testing.T) {
	assert.Panics(t, func() { NewGroupWithOrder(453, 448, nil) })
	assert.Panics(t, func() { NewGroup(0, 448) })
	assert.Panics(t, func() { NewGroup(453, -1) })
}

func TestGroupDeclaredOrder(t *testing.T) {
	g := NewGroupWithOrder(453, 448, []int{448, 447, 452})
	g.Set(452, "3")
	g.Set(447, "D")
	g.Set(448, "BROKER")

	assert.Equal(t, "448=BROKER\x01447=D\x01452=3\x01", string(g.Bytes()))
}

func TestNestedGroups(t *testing.T) {
	leg := NewGroupWithOrder(555, 600, []int{600, 539})
	leg.Set(600, "AAPL")

	for _, id := range []string{"P1", "P2"} {
		party := NewGroupWithOrder(539, 524, []int{524, 525})
		party.Set(524, id)
		leg.AddGroup(party)
	}

	m := NewFieldMap(NormalOrder())
	m.AddGroup(leg)

	assert.Equal(t, "555=1\x01600=AAPL\x01539=2\x01524=P1\x01524=P2\x01", string(m.Bytes()))

	got, err := m.Group(555, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.GroupCount(539))

	second, err := got.Group(539, 2)
	require.NoError(t, err)
	v, _ := second.Get(524)
	assert.Equal(t, "P2", v)
}

func TestGroupCloneAndEmpty(t *testing.T) {
	g := NewGroupWithOrder(453, 448, []int{448, 447})
	g.Set(448, "X")

	cpy := g.Clone()
	cpy.Set(448, "Y")
	v, _ := g.Get(448)
	assert.Equal(t, "X", v)
	assert.Equal(t, g.Tag(), cpy.Tag())
	assert.Equal(t, g.Delim(), cpy.Delim())

	empty := g.Empty()
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 453, empty.Tag())
	assert.Equal(t, OrderGroup, empty.Order().Mode())
}
