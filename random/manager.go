package random

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AutoStreamBase is the first index handed out to streams that were never
// assigned one explicitly. Explicit indices must stay below it.
const AutoStreamBase uint64 = 1 << 63

const (
	DefaultSeed uint64 = 1
	DefaultRun  uint64 = 1
)

// ErrStreamIndex is returned when an explicit index falls in the automatic range.
var ErrStreamIndex = errors.New("stream index out of range")

var manager = struct {
	sync.Mutex
	seed     uint64
	run      uint64
	nextAuto uint64
}{seed: DefaultSeed, run: DefaultRun, nextAuto: AutoStreamBase}

// SetSeed sets the global seed used by streams created afterwards.
func SetSeed(seed uint64) {
	manager.Lock()
	defer manager.Unlock()
	manager.seed = seed
	log.Debugf("random: global seed %d", seed)
}

func Seed() uint64 {
	manager.Lock()
	defer manager.Unlock()
	return manager.seed
}

// SetRun selects an independent replication under the same seed.
func SetRun(run uint64) {
	manager.Lock()
	defer manager.Unlock()
	manager.run = run
	log.Debugf("random: run %d", run)
}

func Run() uint64 {
	manager.Lock()
	defer manager.Unlock()
	return manager.run
}

// NewStream returns the stream with the given explicit index under the
// current global seed and run.
func NewStream(index uint64) (*Stream, error) {
	if index >= AutoStreamBase {
		return nil, errors.Wrapf(ErrStreamIndex, "index %d must be < %d", index, AutoStreamBase)
	}
	manager.Lock()
	defer manager.Unlock()
	return newStream(manager.seed, manager.run, index), nil
}

// NewAutoStream allocates the next automatic index.
func NewAutoStream() *Stream {
	manager.Lock()
	defer manager.Unlock()
	index := manager.nextAuto
	manager.nextAuto++
	return newStream(manager.seed, manager.run, index)
}

// ResetAutoStreams restarts automatic allocation from AutoStreamBase.
func ResetAutoStreams() {
	manager.Lock()
	defer manager.Unlock()
	manager.nextAuto = AutoStreamBase
}
