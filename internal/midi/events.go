// ABOUTME: MIDI note events delivered alongside an audio block
// ABOUTME: Note-on triggers the sample, note-off stops it
package midi

import "fmt"

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypeControlChange
)

// Event is a timestamped MIDI message inside a block
type Event interface {
	Type() EventType
	Channel() uint8
	SampleOffset() int32
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Offset       int32
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) SampleOffset() int32 {
	return e.Offset
}

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d, offset:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d, offset:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}",
		e.EventChannel, e.Controller, e.Value, e.Offset)
}

// IsNoteOn reports a note-on with non-zero velocity
func IsNoteOn(e Event) bool {
	on, ok := e.(NoteOnEvent)
	return ok && on.Velocity > 0
}

// IsNoteOff reports a note-off, including the running-status form of a
// note-on with zero velocity
func IsNoteOff(e Event) bool {
	switch ev := e.(type) {
	case NoteOffEvent:
		return true
	case NoteOnEvent:
		return ev.Velocity == 0
	}
	return false
}

// Parse decodes a raw channel voice message. Messages other than note-on,
// note-off and control change return an error.
func Parse(data []byte, offset int32) (Event, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("short midi message: %d bytes", len(data))
	}
	base := BaseEvent{EventChannel: data[0] & 0x0F, Offset: offset}
	switch data[0] & 0xF0 {
	case 0x80:
		return NoteOffEvent{BaseEvent: base, NoteNumber: data[1], Velocity: data[2]}, nil
	case 0x90:
		return NoteOnEvent{BaseEvent: base, NoteNumber: data[1], Velocity: data[2]}, nil
	case 0xB0:
		return ControlChangeEvent{BaseEvent: base, Controller: data[1], Value: data[2]}, nil
	}
	return nil, fmt.Errorf("unsupported midi status 0x%02X", data[0])
}
