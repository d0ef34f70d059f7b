package nodes

import (
	"time"

	"github.com/zeusync/behave/internal/core/bt"
)

// Node-scoped blackboards. Each one carries the state a process needs to pick
// up where it left off after a suspension.

type SelectorBoard struct {
	LastIdx int
}

func (b *SelectorBoard) Create() { b.LastIdx = 0 }
func (b *SelectorBoard) Clear()  { b.LastIdx = 0 }

type SequenceBoard struct {
	LastIdx int
}

func (b *SequenceBoard) Create() { b.LastIdx = 0 }
func (b *SequenceBoard) Clear()  { b.LastIdx = 0 }

// ParallelBoard caches the terminal results of children within one activation.
type ParallelBoard struct {
	Results map[bt.NodeID]bt.Ret
}

func (b *ParallelBoard) Create() {
	if b.Results == nil {
		b.Results = make(map[bt.NodeID]bt.Ret)
	}
	clear(b.Results)
}

func (b *ParallelBoard) Clear() { clear(b.Results) }

type WaitBoard struct {
	Deadline time.Time
}

func (b *WaitBoard) Create() { b.Deadline = time.Time{} }
func (b *WaitBoard) Clear()  { b.Deadline = time.Time{} }

// MoveBoard remembers when MoveTo last stepped.
type MoveBoard struct {
	Last time.Time
}

func (b *MoveBoard) Create() { b.Last = time.Time{} }
func (b *MoveBoard) Clear()  { b.Last = time.Time{} }

type RepeatBoard struct {
	Count int
}

func (b *RepeatBoard) Create() { b.Count = 0 }
func (b *RepeatBoard) Clear()  { b.Count = 0 }

type TimeoutBoard struct {
	Deadline time.Time
}

func (b *TimeoutBoard) Create() { b.Deadline = time.Time{} }
func (b *TimeoutBoard) Clear()  { b.Deadline = time.Time{} }
