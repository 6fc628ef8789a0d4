package telnet

import (
	"bytes"
	"errors"
	"testing"
)

// decodeAll drains every complete event out of input, returning the events
// and whatever tail input was left undecided (to be prepended the next time
// more bytes arrive).
func decodeAll(t *testing.T, dec *Decoder, input []byte) ([]Event, []byte) {
	t.Helper()
	var events []Event
	for {
		ev, ok, err := dec.Decode(&input)
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if !ok {
			return events, input
		}
		events = append(events, ev)
	}
}

func TestDecodeNoEventOnIncompleteLine(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte("Hello world")
	ev, ok, err := dec.Decode(&input)
	if err != nil || ok {
		t.Fatalf("expected no event, got %v ok=%v err=%v", ev, ok, err)
	}
}

func TestDecodeLineLF(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte("Hello world\n")
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventMessage || events[0].Text != "Hello world" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestDecodeLineCRLF(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte("Hello world\r\n")
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventMessage || events[0].Text != "Hello world" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestDecodeEscapedIACLossyUTF8(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFF, 'a', 'b', 'c', 0x0A}
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventMessage {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Text != "�abc" {
		t.Errorf("expected replacement-char prefixed message, got %q", events[0].Text)
	}
}

func TestDecodeNegotiationInterleavedWithMessage(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{
		'a',
		0xFF, 0xFD, 0x00,
		'b',
		0xFF, 0xFB, 0x1F,
		'c',
		0xFF, 0xFC, 0x13,
		0x0A,
	}
	events, _ := decodeAll(t, dec, input)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != EventDo || events[0].Option != BinaryTransmission {
		t.Errorf("event 0: %+v", events[0])
	}
	if events[1].Kind != EventWill || events[1].Option != NegotiateAboutWindowSize {
		t.Errorf("event 1: %+v", events[1])
	}
	if events[2].Kind != EventWont || events[2].Option != ByteMacro {
		t.Errorf("event 2: %+v", events[2])
	}
	if events[3].Kind != EventMessage || events[3].Text != "abc" {
		t.Errorf("event 3: %+v", events[3])
	}
}

func TestDecodeNAWSSubnegotiation(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFA, 0x1F, 0, 100, 0, 120, 0xFF, 0xF0}
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventSubnegotiation {
		t.Fatalf("unexpected events: %+v", events)
	}
	p := events[0].Payload
	if p.Kind != PayloadNAWS || p.Width != 100 || p.Height != 120 {
		t.Errorf("unexpected NAWS payload: %+v", p)
	}
}

func TestDecodeNAWSWrongLength(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFA, 0x1F, 0, 100, 0, 120, 0, 0xFF, 0xF0}
	_, ok, err := dec.Decode(&input)
	if ok || !errors.Is(err, ErrInvalidSubnegotiationSequence) {
		t.Fatalf("expected ErrInvalidSubnegotiationSequence, got ok=%v err=%v", ok, err)
	}
}

func TestDecodeOtherSubnegotiation(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFA, 0x00, 1, 2, 3, 4, 5, 0xFF, 0xF0}
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventSubnegotiation {
		t.Fatalf("unexpected events: %+v", events)
	}
	p := events[0].Payload
	if p.Kind != PayloadOther || p.Option != BinaryTransmission {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if !bytes.Equal(p.Bytes, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("unexpected payload bytes: %v", p.Bytes)
	}
}

func TestDecodeSubnegotiationInvalidInnerEscape(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFA, 0x00, 1, 2, 3, 4, 5, 0xFF, 0x1F, 0xFF, 0xF0}
	_, ok, err := dec.Decode(&input)
	if ok || !errors.Is(err, ErrInvalidSubnegotiationSequence) {
		t.Fatalf("expected ErrInvalidSubnegotiationSequence, got ok=%v err=%v", ok, err)
	}
	if len(input) != 0 {
		t.Errorf("expected the whole malformed frame to be consumed, %d bytes remain", len(input))
	}
}

func TestDecodeChunkedFeedingMatchesWholeStream(t *testing.T) {
	whole := []byte{
		'a', 'b', 'c',
		0xFF, 0xFD, 0x00,
		'd', 'e', 'f',
		0xFF, 0xFA, 0x1F, 0, 80, 0, 24, 0xFF, 0xF0,
		'g', 'h', 'i', '\r', '\n',
	}

	full := append([]byte(nil), whole...)
	decFull := NewDecoder(4096)
	wantEvents, _ := decodeAll(t, decFull, full)

	for split := 0; split <= len(whole); split++ {
		dec := NewDecoder(4096)
		buf := append([]byte(nil), whole[:split]...)
		events, undecided := decodeAll(t, dec, buf)

		// Whatever Decode couldn't yet resolve from the prefix must be
		// represented to the next call, same as a transport collaborator
		// appending freshly-read bytes to its still-unconsumed tail.
		buf = append(append([]byte(nil), undecided...), whole[split:]...)
		more, _ := decodeAll(t, dec, buf)
		events = append(events, more...)

		if len(events) != len(wantEvents) {
			t.Fatalf("split at %d: expected %d events, got %d", split, len(wantEvents), len(events))
		}
		for i := range wantEvents {
			if events[i].Kind != wantEvents[i].Kind {
				t.Errorf("split at %d, event %d: kind mismatch got %v want %v", split, i, events[i].Kind, wantEvents[i].Kind)
			}
		}
	}
}

func TestDecodeLineBufferCap(t *testing.T) {
	dec := NewDecoder(4)
	input := []byte("abcdefgh\n")
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Kind != EventMessage {
		t.Fatalf("unexpected events: %+v", events)
	}
	if len(events[0].Text) > 4 {
		t.Errorf("expected message capped at 4 bytes, got %q", events[0].Text)
	}
}

func TestDecodeIncompleteIACSplitAcrossCalls(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF}
	_, ok, err := dec.Decode(&input)
	if ok || err != nil {
		t.Fatalf("expected no event for lone IAC, got ok=%v err=%v", ok, err)
	}
	if len(input) != 1 {
		t.Fatalf("expected the lone IAC to remain unconsumed, got %d bytes left", len(input))
	}

	input = append(input, 0xFD, 0x01)
	ev, ok, err := dec.Decode(&input)
	if err != nil || !ok {
		t.Fatalf("expected DO event, got ok=%v err=%v", ok, err)
	}
	if ev.Kind != EventDo || ev.Option != Echo {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestDecodeNoDuplicationAcrossPartialCalls(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte("Hello ")
	_, ok, _ := dec.Decode(&input)
	if ok {
		t.Fatalf("expected no event yet")
	}

	input = append(input, []byte("world\n")...)
	events, _ := decodeAll(t, dec, input)
	if len(events) != 1 || events[0].Text != "Hello world" {
		t.Fatalf("expected a single clean message, got %+v", events)
	}
}

func TestDecodeSubnegotiationTruncationLeavesFrameIntact(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte{0xFF, 0xFA, 0x1F, 0, 100}
	_, ok, err := dec.Decode(&input)
	if ok || err != nil {
		t.Fatalf("expected no event for truncated subnegotiation, got ok=%v err=%v", ok, err)
	}
	if len(input) != 5 {
		t.Fatalf("expected the whole SB header to remain for retry, got %d bytes left", len(input))
	}

	input = append(input, 0, 120, 0xFF, 0xF0)
	ev, ok, err := dec.Decode(&input)
	if err != nil || !ok {
		t.Fatalf("expected NAWS event on retry, got ok=%v err=%v", ok, err)
	}
	if ev.Payload.Width != 100 || ev.Payload.Height != 120 {
		t.Errorf("unexpected payload: %+v", ev.Payload)
	}
}

func TestDecodeCharModeBasic(t *testing.T) {
	dec := NewDecoder(4096)
	dec.SGA = true
	input := []byte{'a', 0xFF, 0xFF, 0xFF, 0xF7, 0xFF, 0xF8}

	ev, ok, err := dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventCharacter || ev.Char != 'a' {
		t.Fatalf("unexpected first event: %+v ok=%v err=%v", ev, ok, err)
	}

	ev, ok, err = dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventCharacter || ev.Char != 0xFF {
		t.Fatalf("unexpected escaped-IAC event: %+v ok=%v err=%v", ev, ok, err)
	}

	ev, ok, err = dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventEraseCharacter {
		t.Fatalf("unexpected EC event: %+v ok=%v err=%v", ev, ok, err)
	}

	ev, ok, err = dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventEraseLine {
		t.Fatalf("unexpected EL event: %+v ok=%v err=%v", ev, ok, err)
	}
}

func TestDecodeCharModeInvalidIAC(t *testing.T) {
	dec := NewDecoder(4096)
	dec.SGA = true
	input := []byte{0xFF, 0x05}
	_, ok, err := dec.Decode(&input)
	if ok || !errors.Is(err, ErrInvalidIACSequence) {
		t.Fatalf("expected ErrInvalidIACSequence, got ok=%v err=%v", ok, err)
	}
	if len(input) != 0 {
		t.Errorf("expected both bytes consumed, %d remain", len(input))
	}
}

func TestDecodeCharModePreemptsPendingLineBuffer(t *testing.T) {
	dec := NewDecoder(4096)
	input := []byte("partial")
	_, ok, _ := dec.Decode(&input)
	if ok {
		t.Fatalf("expected no event yet in line mode")
	}

	dec.SGA = true
	input = append(input, 'X')
	ev, ok, err := dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventMessage || ev.Text != "partial" {
		t.Fatalf("expected the pending line to be flushed as a message, got %+v ok=%v err=%v", ev, ok, err)
	}

	ev, ok, err = dec.Decode(&input)
	if err != nil || !ok || ev.Kind != EventCharacter || ev.Char != 'X' {
		t.Fatalf("expected the new byte to decode in character mode, got %+v ok=%v err=%v", ev, ok, err)
	}
}
