// Package deployment places the radio endpoints whose positions feed the
// propagation models.
package deployment

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/wiless/shadowing/random"
	"github.com/wiless/vlib"
	"golang.org/x/exp/rand"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrNoSuchNode      = errors.New("no such node")
)

type TxRxMode int

var TxRxModes = [...]string{
	"TransmitOnly",
	"ReceiveOnly",
	"Duplex",
	"Inactive",
}

func (c TxRxMode) String() string {
	if int(c) < 0 || int(c) >= len(TxRxModes) {
		return "Unknown-TxRxMode"
	}
	return TxRxModes[c]
}

// CanTransmit is true for TransmitOnly and Duplex nodes.
func (c TxRxMode) CanTransmit() bool {
	return c == TransmitOnly || c == Duplex
}

func (c TxRxMode) CanReceive() bool {
	return c == ReceiveOnly || c == Duplex
}

const (
	TransmitOnly TxRxMode = iota
	ReceiveOnly
	Duplex
	Inactive
)

// Node is one positioned radio endpoint. Its position stays fixed for the
// duration of a propagation query.
type Node struct {
	Type       string
	ID         int
	Location   vlib.Location3D
	TxPowerDBm float64
	Mode       TxRxMode `json:"TxRxMode" mapstructure:"TxRxMode"`
	Active     bool
}

// Validate rejects non-finite coordinates.
func (n Node) Validate() error {
	for _, v := range []float64{n.Location.X, n.Location.Y, n.Location.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidLocation, "%s[%d] at (%v,%v,%v)", n.Type, n.ID, n.Location.X, n.Location.Y, n.Location.Z)
		}
	}
	return nil
}

// DistanceFrom is the 3D distance between two nodes in meters.
func (n Node) DistanceFrom(other Node) float64 {
	return n.Location.DistanceFrom(other.Location)
}

// DropSystem owns a set of nodes keyed by ID.
type DropSystem struct {
	Nodes  map[int]Node
	lastID int
}

func NewDropSystem() *DropSystem {
	return &DropSystem{Nodes: make(map[int]Node)}
}

// NewNode creates an active node at the origin and adds it to the system.
func (d *DropSystem) NewNode(ntype string, mode TxRxMode) *Node {
	if d.Nodes == nil {
		d.Nodes = make(map[int]Node)
	}
	node := Node{Type: ntype, ID: d.lastID, Mode: mode, Active: true}
	d.Nodes[node.ID] = node
	d.lastID++
	return &node
}

// Set stores a modified node back into the system.
func (d *DropSystem) Set(node Node) error {
	if _, ok := d.Nodes[node.ID]; !ok {
		return errors.Wrapf(ErrNoSuchNode, "id %d", node.ID)
	}
	if err := node.Validate(); err != nil {
		return err
	}
	d.Nodes[node.ID] = node
	return nil
}

func (d *DropSystem) Node(id int) (Node, error) {
	node, ok := d.Nodes[id]
	if !ok {
		return Node{}, errors.Wrapf(ErrNoSuchNode, "id %d", id)
	}
	return node, nil
}

// DropLinear places one node per distance at origin+(distance,0,0), the layout
// used to sample a model at fixed separations.
func (d *DropSystem) DropLinear(ntype string, origin vlib.Location3D, distances []float64, mode TxRxMode, txPowerDBm float64) (vlib.VectorI, error) {
	var ids vlib.VectorI
	for _, dist := range distances {
		node := d.NewNode(ntype, mode)
		node.Location = origin
		node.Location.X += dist
		node.TxPowerDBm = txPowerDBm
		if err := d.Set(*node); err != nil {
			delete(d.Nodes, node.ID)
			return ids, err
		}
		ids.AppendAtEnd(node.ID)
	}
	return ids, nil
}

// DropCircular places N nodes uniformly inside a disc of radius around
// centre at height centre.Z. Positions come from the given stream so a drop
// can be reproduced.
func (d *DropSystem) DropCircular(ntype string, centre vlib.Location3D, radius float64, N int, mode TxRxMode, txPowerDBm float64, stream *random.Stream) vlib.VectorI {
	rnd := rand.New(stream)
	var ids vlib.VectorI
	for i := 0; i < N; i++ {
		r := math.Sqrt(rnd.Float64()) * radius
		theta := rnd.Float64() * 2 * math.Pi
		node := d.NewNode(ntype, mode)
		node.Location = vlib.Location3D{X: centre.X + r*math.Cos(theta), Y: centre.Y + r*math.Sin(theta), Z: centre.Z}
		node.TxPowerDBm = txPowerDBm
		d.Nodes[node.ID] = *node
		ids.AppendAtEnd(node.ID)
	}
	return ids
}

// NodeIDsOfMode returns the sorted IDs of active nodes in mode.
func (d *DropSystem) NodeIDsOfMode(mode TxRxMode) vlib.VectorI {
	ids := make([]int, 0, len(d.Nodes))
	for id, node := range d.Nodes {
		if node.Active && node.Mode == mode {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return vlib.VectorI(ids)
}

// TransmitterIDs returns the sorted IDs of active nodes able to transmit.
func (d *DropSystem) TransmitterIDs() vlib.VectorI {
	ids := make([]int, 0, len(d.Nodes))
	for id, node := range d.Nodes {
		if node.Active && node.Mode.CanTransmit() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return vlib.VectorI(ids)
}

func (d *DropSystem) MarshalJSON() ([]byte, error) {
	type obj struct {
		ID      int
		NodeObj Node
	}
	ids := make([]int, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	nodes := make([]obj, len(ids))
	for i, id := range ids {
		nodes[i] = obj{id, d.Nodes[id]}
	}
	return json.Marshal(struct {
		Nodes  []obj
		LastID int
	}{nodes, d.lastID})
}

func (d *DropSystem) UnmarshalJSON(jsondata []byte) error {
	dec := json.NewDecoder(bytes.NewBuffer(jsondata))
	customobject := make(map[string]interface{})
	if err := dec.Decode(&customobject); err != nil {
		return err
	}

	type obj struct {
		ID      int
		NodeObj Node
	}
	var nodes []obj
	if err := ms.Decode(customobject["Nodes"], &nodes); err != nil {
		return errors.Wrap(err, "decode nodes")
	}
	d.Nodes = make(map[int]Node, len(nodes))
	for _, val := range nodes {
		if err := val.NodeObj.Validate(); err != nil {
			return err
		}
		d.Nodes[val.ID] = val.NodeObj
	}
	if last, ok := customobject["LastID"].(float64); ok {
		d.lastID = int(last)
	}
	return nil
}
