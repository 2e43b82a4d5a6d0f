/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package progress notifies observers of block-level pipeline events,
// keeping the core compress/decompress path collaborator-agnostic: a
// CLI progress bar, a quiet logger, or a test harness can all subscribe
// as a Listener without the pipeline importing any of them.
package progress

import (
	"fmt"
	"time"
)

const (
	EvtCompressStart   = iota // Archive creation/append starts
	EvtDecompressStart        // Extraction starts
	EvtBlockStart             // A worker picked up a block
	EvtBlockDone              // A block finished coding and passed its checksum
	EvtCompressEnd            // Archive creation/append ends
	EvtDecompressEnd          // Extraction ends

	HashNone   = 0
	Hash32Bits = 32
)

// Event reports one pipeline milestone: a run boundary, or a single
// block's start or completion.
type Event struct {
	kind     int
	id       uint32
	size     int64
	checksum uint32
	hashType int
	at       time.Time
	msg      string
}

// NewEventFromString builds a plain, message-carrying event — used for
// run-boundary events that have no single block id to report.
func NewEventFromString(kind int, msg string, at time.Time) *Event {
	if at.IsZero() {
		at = time.Now()
	}
	return &Event{kind: kind, id: 0, msg: msg, at: at}
}

// NewBlockEvent builds an event reporting a specific block's id, size,
// and (once known) CRC-32 checksum.
func NewBlockEvent(kind int, id uint32, size int64, checksum uint32, hashType int, at time.Time) *Event {
	if at.IsZero() {
		at = time.Now()
	}
	return &Event{kind: kind, id: id, size: size, checksum: checksum, hashType: hashType, at: at}
}

func (e *Event) Kind() int            { return e.kind }
func (e *Event) ID() uint32           { return e.id }
func (e *Event) Time() time.Time      { return e.at }
func (e *Event) Size() int64          { return e.size }
func (e *Event) Checksum() uint32     { return e.checksum }
func (e *Event) HashType() int        { return e.hashType }

// String renders a one-line summary, used by the default logging
// listener.
func (e *Event) String() string {
	if len(e.msg) > 0 {
		return e.msg
	}

	kind := ""
	switch e.kind {
	case EvtCompressStart:
		kind = "compress-start"
	case EvtDecompressStart:
		kind = "decompress-start"
	case EvtBlockStart:
		kind = "block-start"
	case EvtBlockDone:
		kind = "block-done"
	case EvtCompressEnd:
		kind = "compress-end"
	case EvtDecompressEnd:
		kind = "decompress-end"
	}

	if e.hashType != HashNone {
		return fmt.Sprintf("%s id=%d size=%d checksum=%#08x", kind, e.id, e.size, e.checksum)
	}
	return fmt.Sprintf("%s id=%d size=%d", kind, e.id, e.size)
}

// Listener receives pipeline events. Implementations must return
// quickly: ProcessEvent is called synchronously, for block events from
// the pipeline's single writer goroutine as blocks are delivered in id
// order.
type Listener interface {
	ProcessEvent(evt *Event)
}

// Notifier fans an event out to every registered Listener. The zero
// value is ready to use.
type Notifier struct {
	listeners []Listener
}

func (n *Notifier) AddListener(l Listener) {
	n.listeners = append(n.listeners, l)
}

func (n *Notifier) Notify(evt *Event) {
	for _, l := range n.listeners {
		l.ProcessEvent(evt)
	}
}
