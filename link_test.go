package shadowing

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/shadowing/deployment"
	"github.com/wiless/shadowing/pathloss"
	"github.com/wiless/vlib"
)

func setup(t *testing.T) (*deployment.DropSystem, int) {
	d := deployment.NewDropSystem()
	ue := d.NewNode("UE", deployment.ReceiveOnly)
	_, err := d.DropLinear("BS", vlib.Location3D{}, []float64{200, 100, 400}, deployment.TransmitOnly, 20)
	require.NoError(t, err)
	return d, ue.ID
}

func TestEvaluateLinkMetric(t *testing.T) {
	d, ueid := setup(t)
	model := pathloss.NewLogDistanceModel()
	require.NoError(t, model.SetPathLossExponent(3))

	w := NewWSystem()
	link, err := w.EvaluateLinkMetric(d, model, ueid)
	require.NoError(t, err)

	require.Equal(t, 3, link.TxNodesRSRP.Size())
	// strongest first: the BS at 100 m was dropped second
	assert.Equal(t, vlib.VectorI{2, 1, 3}, link.TxNodeIDs)
	assert.Equal(t, 2, link.BestRSRPNode)
	want := 20 - model.LossInDb(100)
	assert.InDelta(t, want, link.BestRSRP, 1e-9)
	for i := 1; i < link.TxNodesRSRP.Size(); i++ {
		assert.GreaterOrEqual(t, link.TxNodesRSRP[i-1], link.TxNodesRSRP[i])
	}

	lin := func(db float64) float64 { return math.Pow(10, db/10) }
	total := lin(link.TxNodesRSRP[0]) + lin(link.TxNodesRSRP[1]) + lin(link.TxNodesRSRP[2]) + lin(link.N0)
	assert.InDelta(t, 10*math.Log10(total), link.RSSI, 1e-6)
	assert.InDelta(t, link.BestRSRP-10*math.Log10(total-lin(link.BestRSRP)), link.BestSINR, 1e-6)
	assert.InDelta(t, -174+70, link.N0, 1e-9)
}

func TestEvaluateLinkMetricActiveCells(t *testing.T) {
	d, ueid := setup(t)
	w := NewWSystem()
	w.ActiveCells = vlib.VectorI{3}

	link, err := w.EvaluateLinkMetric(d, pathloss.NewLogDistanceModel(), ueid)
	require.NoError(t, err)
	assert.Equal(t, vlib.VectorI{3}, link.TxNodeIDs)
}

func TestEvaluateLinkMetricErrors(t *testing.T) {
	d, _ := setup(t)
	w := NewWSystem()

	_, err := w.EvaluateLinkMetric(d, pathloss.NewLogDistanceModel(), 1)
	assert.True(t, errors.Is(err, ErrNotReceiver))

	_, err = w.EvaluateLinkMetric(d, pathloss.NewLogDistanceModel(), 99)
	assert.True(t, errors.Is(err, deployment.ErrNoSuchNode))
}

func TestRxPowerBetweenNodes(t *testing.T) {
	m := pathloss.NewLogNormalShadowingModel()
	tx := deployment.Node{TxPowerDBm: 15}
	rx := deployment.Node{Location: vlib.Location3D{X: 100}}
	assert.InDelta(t, -81.6777, RxPowerBetweenNodes(m, tx, rx), 1e-9)
}
