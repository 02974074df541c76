// Package random provides reproducible, independently seeded random streams
// for the stochastic propagation models.
//
// A Stream is identified by the global seed, the run number and a stream
// index. Objects that are explicitly given an index keep their sequence no
// matter how many other random objects exist in the simulation; objects
// never assigned an index pick one from the automatic range starting at
// AutoStreamBase.
package random

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Stream is a PCG source whose state is derived from (seed, run, index).
// It satisfies rand.Source and can be handed to gonum distributions.
// A Stream is not safe for concurrent use.
type Stream struct {
	seed  uint64
	run   uint64
	index uint64
	src   rand.PCGSource
	draws uint64
}

var _ rand.Source = (*Stream)(nil)

func newStream(seed, run, index uint64) *Stream {
	s := new(Stream)
	s.reset(seed, run, index)
	return s
}

func (s *Stream) reset(seed, run, index uint64) {
	s.seed, s.run, s.index = seed, run, index
	s.src.Seed(derive(seed, run, index))
	s.draws = 0
}

// Uint64 returns the next value and advances the stream.
func (s *Stream) Uint64() uint64 {
	s.draws++
	return s.src.Uint64()
}

// Seed re-seeds the stream keeping its run and index.
func (s *Stream) Seed(seed uint64) {
	s.reset(seed, s.run, s.index)
}

// Reseed moves the stream to a new (seed, index) pair under the current global run.
func (s *Stream) Reseed(seed, index uint64) {
	s.reset(seed, Run(), index)
}

// Reset rewinds the stream to the start of its sequence.
func (s *Stream) Reset() {
	s.reset(s.seed, s.run, s.index)
}

// Clone returns a stream with identical state. Both copies then produce the
// same sequence, so it should only be used when a shared stream is wanted.
func (s *Stream) Clone() *Stream {
	c := *s
	return &c
}

func (s *Stream) Index() uint64 { return s.index }

func (s *Stream) SeedValue() uint64 { return s.seed }

func (s *Stream) RunValue() uint64 { return s.run }

// Draws is the number of 64-bit values consumed since the last (re)seed.
func (s *Stream) Draws() uint64 { return s.draws }

// IsAuto reports whether the index lies in the automatic range.
func (s *Stream) IsAuto() bool { return s.index >= AutoStreamBase }

func (s *Stream) String() string {
	return fmt.Sprintf("Stream{seed=%d run=%d index=%d}", s.seed, s.run, s.index)
}

// derive folds the triple into a single PCG seed. Each step is a splitmix64
// finalizer so neighbouring indices land far apart in the PCG state space.
func derive(seed, run, index uint64) uint64 {
	x := splitmix64(seed)
	x = splitmix64(x ^ run)
	x = splitmix64(x ^ index)
	return x
}

func splitmix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
