// Package shadowing evaluates radio links between deployed nodes using the
// propagation-loss models in the pathloss package.
package shadowing

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/shadowing/deployment"
	"github.com/wiless/shadowing/pathloss"
	"github.com/wiless/vlib"
)

var ErrNotReceiver = errors.New("node cannot receive")

type LinkMetric struct {
	RxNodeID     int
	BandwidthMHz float64
	N0           float64 // thermal noise in dBm over BandwidthMHz
	TxNodeIDs    vlib.VectorI
	TxNodesRSRP  vlib.VectorF // sorted strongest first
	RSSI         float64
	BestRSRP     float64
	BestRSRPNode int
	BestSINR     float64
}

type WSystem struct {
	BandwidthMHz float64
	NoisePSDdBm  float64 // dBm/Hz
	ActiveCells  vlib.VectorI
}

func NewWSystem() WSystem {
	var result WSystem
	result.BandwidthMHz = 10.0
	result.NoisePSDdBm = -174.0
	return result
}

// NoiseDbm is the thermal noise power over the system bandwidth.
func (w WSystem) NoiseDbm() float64 {
	return w.NoisePSDdBm + vlib.Db(w.BandwidthMHz*1e6)
}

// RxPowerBetweenNodes evaluates model for a link using the transmitter's power.
func RxPowerBetweenNodes(model pathloss.Model, txnode, rxnode deployment.Node) float64 {
	return model.CalcRxPower(txnode.TxPowerDBm, txnode.Location, rxnode.Location)
}

// EvaluateLinkMetric computes the received power from every transmitter
// (or only ActiveCells when set) at node rxid, total RSSI and the SINR of the
// strongest link. Stochastic models are sampled once per link.
func (w WSystem) EvaluateLinkMetric(d *deployment.DropSystem, model pathloss.Model, rxid int) (LinkMetric, error) {
	var link LinkMetric
	rxnode, err := d.Node(rxid)
	if err != nil {
		return link, err
	}
	if !rxnode.Mode.CanReceive() || !rxnode.Active {
		return link, errors.Wrapf(ErrNotReceiver, "%s[%d] is %v", rxnode.Type, rxid, rxnode.Mode)
	}

	txids := w.ActiveCells
	if txids.Size() == 0 {
		txids = d.TransmitterIDs()
	}

	link.RxNodeID = rxid
	link.BandwidthMHz = w.BandwidthMHz
	link.N0 = w.NoiseDbm()
	link.BestRSRP = -1000
	link.BestRSRPNode = -1

	type entry struct {
		id   int
		rsrp float64
	}
	var entries []entry
	for _, txid := range txids {
		if txid == rxid {
			continue
		}
		txnode, err := d.Node(txid)
		if err != nil {
			return link, err
		}
		entries = append(entries, entry{txid, RxPowerBetweenNodes(model, txnode, rxnode)})
	}
	if len(entries) == 0 {
		log.Debugf("EvaluateLinkMetric: %s[%d] has no transmitters", rxnode.Type, rxid)
		link.RSSI = link.N0
		return link, nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rsrp > entries[j].rsrp })
	for _, e := range entries {
		link.TxNodeIDs.AppendAtEnd(e.id)
		link.TxNodesRSRP.AppendAtEnd(e.rsrp)
	}

	rsrpLinr := vlib.InvDbF(link.TxNodesRSRP)
	totalrssi := vlib.Sum(rsrpLinr) + vlib.InvDb(link.N0)
	maxrsrp := rsrpLinr[0]

	link.RSSI = vlib.Db(totalrssi)
	link.BestRSRP = link.TxNodesRSRP[0]
	link.BestRSRPNode = link.TxNodeIDs[0]
	link.BestSINR = vlib.Db(maxrsrp) - vlib.Db(totalrssi-maxrsrp)
	return link, nil
}
