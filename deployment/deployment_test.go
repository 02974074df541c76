package deployment

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/shadowing/random"
	"github.com/wiless/vlib"
)

func TestTxRxModeString(t *testing.T) {
	assert.Equal(t, "Duplex", Duplex.String())
	assert.Equal(t, "Unknown-TxRxMode", TxRxMode(9).String())
	assert.True(t, Duplex.CanTransmit())
	assert.False(t, ReceiveOnly.CanTransmit())
}

func TestNodeValidate(t *testing.T) {
	n := Node{Type: "UE", Location: vlib.Location3D{X: 1, Y: 2, Z: 3}}
	assert.NoError(t, n.Validate())

	n.Location.Y = math.NaN()
	assert.True(t, errors.Is(n.Validate(), ErrInvalidLocation))

	n.Location.Y = math.Inf(-1)
	assert.True(t, errors.Is(n.Validate(), ErrInvalidLocation))
}

func TestDropLinear(t *testing.T) {
	d := NewDropSystem()
	tx := d.NewNode("BS", TransmitOnly)
	ids, err := d.DropLinear("UE", vlib.Location3D{}, []float64{200, 250, 300}, ReceiveOnly, 0)
	require.NoError(t, err)
	require.Equal(t, 3, ids.Size())

	txnode, err := d.Node(tx.ID)
	require.NoError(t, err)
	for i, want := range []float64{200, 250, 300} {
		rx, err := d.Node(ids[i])
		require.NoError(t, err)
		assert.InDelta(t, want, txnode.DistanceFrom(rx), 1e-9)
	}
	assert.Equal(t, vlib.VectorI{tx.ID}, d.TransmitterIDs())
	assert.Equal(t, ids, d.NodeIDsOfMode(ReceiveOnly))

	_, err = d.DropLinear("UE", vlib.Location3D{}, []float64{math.NaN()}, ReceiveOnly, 0)
	assert.True(t, errors.Is(err, ErrInvalidLocation))
	assert.Len(t, d.Nodes, 4)
}

func TestDropCircularReproducible(t *testing.T) {
	a, b := NewDropSystem(), NewDropSystem()
	sa, err := random.NewStream(4)
	require.NoError(t, err)
	sb, err := random.NewStream(4)
	require.NoError(t, err)

	ida := a.DropCircular("UE", vlib.Location3D{Z: 1.5}, 100, 20, ReceiveOnly, 0, sa)
	idb := b.DropCircular("UE", vlib.Location3D{Z: 1.5}, 100, 20, ReceiveOnly, 0, sb)
	require.Equal(t, ida, idb)
	for _, id := range ida {
		loc := a.Nodes[id].Location
		assert.Equal(t, loc, b.Nodes[id].Location)
		assert.LessOrEqual(t, loc.DistanceFrom(vlib.Location3D{Z: 1.5}), 100.0)
	}
}

func TestDropSystemJSON(t *testing.T) {
	d := NewDropSystem()
	bs := d.NewNode("BS", TransmitOnly)
	bs.TxPowerDBm = 46
	bs.Location.Z = 25
	require.NoError(t, d.Set(*bs))
	d.NewNode("UE", ReceiveOnly)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	restored := NewDropSystem()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, d.Nodes, restored.Nodes)

	next := restored.NewNode("UE", ReceiveOnly)
	assert.Equal(t, 2, next.ID)
}

func TestNodeErrors(t *testing.T) {
	d := NewDropSystem()
	_, err := d.Node(3)
	assert.True(t, errors.Is(err, ErrNoSuchNode))
	assert.True(t, errors.Is(d.Set(Node{ID: 3}), ErrNoSuchNode))
}
