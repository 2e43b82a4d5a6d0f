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

package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	events []*Event
}

func (r *recordingListener) ProcessEvent(evt *Event) {
	r.events = append(r.events, evt)
}

func TestNotifierFansOutToEveryListener(t *testing.T) {
	var n Notifier
	l1 := &recordingListener{}
	l2 := &recordingListener{}
	n.AddListener(l1)
	n.AddListener(l2)

	evt := NewBlockEvent(EvtBlockDone, 3, 128, 0xDEADBEEF, Hash32Bits, time.Now())
	n.Notify(evt)

	require.Len(t, l1.events, 1)
	require.Len(t, l2.events, 1)
	require.Same(t, evt, l1.events[0])
}

func TestNotifierWithNoListenersIsSafe(t *testing.T) {
	var n Notifier
	n.Notify(NewEventFromString(EvtCompressStart, "", time.Now()))
}

func TestBlockEventString(t *testing.T) {
	evt := NewBlockEvent(EvtBlockDone, 7, 42, 0xD3D99E8B, Hash32Bits, time.Now())
	require.Contains(t, evt.String(), "id=7")
	require.Contains(t, evt.String(), "size=42")
	require.Contains(t, evt.String(), "0xd3d99e8b")
}

func TestNewEventFromStringPrefersMessage(t *testing.T) {
	evt := NewEventFromString(EvtCompressEnd, "done in 2s", time.Now())
	require.Equal(t, "done in 2s", evt.String())
}

func TestZeroTimeDefaultsToNow(t *testing.T) {
	before := time.Now()
	evt := NewEventFromString(EvtCompressStart, "", time.Time{})
	require.False(t, evt.Time().Before(before))
}
