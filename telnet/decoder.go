package telnet

import "strings"

// Decoder is a resumable, single-threaded parser over an incoming Telnet
// byte stream. It is fed by repeatedly calling Decode with a caller-owned
// buffer: each call consumes as large a prefix of that buffer as it can
// fully interpret, emits at most one Event, and leaves whatever it could
// not yet interpret in place for the next call.
//
// A Decoder is never thread-safe and never performs I/O; it holds only the
// character-mode flag, the in-progress line buffer, and the buffer's cap.
type Decoder struct {
	// SGA selects character-at-a-time mode (true) or line mode (false).
	// The owner flips this directly in response to a negotiated
	// SuppressGoAhead option; the decoder performs no negotiation policy
	// of its own. The new mode takes effect on the next Decode call.
	SGA bool

	buffer          []byte
	maxBufferLength int
}

// NewDecoder constructs a Decoder whose in-progress line buffer never grows
// past maxBufferLength bytes. Bytes arriving once the cap is reached are
// silently dropped - the only lossy behavior on the line-mode path.
func NewDecoder(maxBufferLength int) *Decoder {
	return &Decoder{maxBufferLength: maxBufferLength}
}

// MaxBufferLength returns the cap this Decoder was constructed with.
func (d *Decoder) MaxBufferLength() int {
	return d.maxBufferLength
}

func (d *Decoder) appendBuffer(b byte) {
	if len(d.buffer) < d.maxBufferLength {
		d.buffer = append(d.buffer, b)
	}
}

func (d *Decoder) drainBufferAsMessage() Event {
	text := utf8Lossy(d.buffer)
	d.buffer = d.buffer[:0]
	return MessageEvent(text)
}

func utf8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// Decode consumes as much of *input as it can fully interpret and returns at
// most one Event. Three outcomes are possible:
//
//   - (event, true, nil): an event was framed; the consumed prefix has been
//     removed from *input.
//   - (zero, false, nil): *input doesn't yet hold a complete event. Bytes
//     that were unambiguously consumed (folded into the line buffer, or
//     resolved IAC escapes) have still been removed from *input; whatever
//     remains is the undecided tail that Decode needs more bytes to resolve.
//   - (zero, false, err): the offending frame has been consumed in full, and
//     the Decoder remains usable for the next call.
func (d *Decoder) Decode(input *[]byte) (Event, bool, error) {
	if d.SGA {
		return d.decodeCharMode(input)
	}
	return d.decodeLineMode(input)
}

func (d *Decoder) decodeCharMode(input *[]byte) (Event, bool, error) {
	// Pre-emption: a mode flip from line mode to character mode can leave
	// a partially-accumulated line behind. Flush it before looking at any
	// new bytes.
	if len(d.buffer) > 0 {
		return d.drainBufferAsMessage(), true, nil
	}

	in := *input
	if len(in) == 0 {
		return Event{}, false, nil
	}

	if in[0] != cmdIAC {
		*input = in[1:]
		return CharacterEvent(in[0]), true, nil
	}

	if len(in) < 2 {
		return Event{}, false, nil
	}

	switch in[1] {
	case cmdIAC:
		*input = in[2:]
		return CharacterEvent(0xFF), true, nil
	case cmdEC:
		*input = in[2:]
		return EraseCharacterEvent, true, nil
	case cmdEL:
		*input = in[2:]
		return EraseLineEvent, true, nil
	default:
		*input = in[2:]
		return Event{}, false, ErrInvalidIACSequence
	}
}

func (d *Decoder) decodeLineMode(input *[]byte) (Event, bool, error) {
	in := *input
	x := 0
	committed := 0

	for {
		if x >= len(in) {
			*input = in[committed:]
			return Event{}, false, nil
		}

		b := in[x]

		if b == '\n' {
			if len(d.buffer) > 0 && d.buffer[len(d.buffer)-1] == '\r' {
				d.buffer = d.buffer[:len(d.buffer)-1]
			}
			*input = in[x+1:]
			return d.drainBufferAsMessage(), true, nil
		}

		if b != cmdIAC {
			d.appendBuffer(b)
			x++
			committed = x
			continue
		}

		// b == IAC
		if x+1 >= len(in) {
			*input = in[committed:]
			return Event{}, false, nil
		}

		switch in[x+1] {
		case cmdIAC:
			d.appendBuffer(0xFF)
			x += 2
			committed = x
			continue
		case cmdEL:
			d.buffer = d.buffer[:0]
			x += 2
			committed = x
			continue
		case cmdEC:
			if len(d.buffer) > 0 {
				d.buffer = d.buffer[:len(d.buffer)-1]
			}
			x += 2
			committed = x
			continue
		case cmdDO, cmdDONT, cmdWILL, cmdWONT:
			if x+2 >= len(in) {
				*input = in[committed:]
				return Event{}, false, nil
			}
			cmd := in[x+1]
			opt := OptionFromByte(in[x+2])
			*input = in[x+3:]
			return negotiationEvent(cmd, opt), true, nil
		case cmdSB:
			return d.decodeSubnegotiation(input, in, x)
		case cmdNOP:
			x += 2
			committed = x
			continue
		default:
			// Open question resolved: an unrecognised command byte after
			// IAC in line mode is skipped silently rather than erroring.
			x += 2
			committed = x
			continue
		}
	}
}

func negotiationEvent(cmd byte, opt Option) Event {
	switch cmd {
	case cmdDO:
		return DoEvent(opt)
	case cmdDONT:
		return DontEvent(opt)
	case cmdWILL:
		return WillEvent(opt)
	default: // cmdWONT
		return WontEvent(opt)
	}
}

// decodeSubnegotiation parses an IAC SB ... IAC SE frame starting at in[start].
// On truncation it leaves *input untouched at start (the safer rule spec.md
// §9 Q2 recommends over the original source's behavior, which advanced past
// a truncated header and could lose the SB marker on resume).
func (d *Decoder) decodeSubnegotiation(input *[]byte, in []byte, start int) (Event, bool, error) {
	if start+2 >= len(in) {
		*input = in[start:]
		return Event{}, false, nil
	}

	optByte := in[start+2]
	payload := make([]byte, 0, 8)
	invalid := false

	idx := start + 3
	for {
		if idx >= len(in) {
			*input = in[start:]
			return Event{}, false, nil
		}

		b := in[idx]
		if b != cmdIAC {
			payload = append(payload, b)
			idx++
			continue
		}

		if idx+1 >= len(in) {
			*input = in[start:]
			return Event{}, false, nil
		}

		switch in[idx+1] {
		case cmdSE:
			*input = in[idx+2:]
			if invalid {
				return Event{}, false, ErrInvalidSubnegotiationSequence
			}
			return dispatchSubnegotiation(optByte, payload)
		case cmdIAC:
			payload = append(payload, 0xFF)
			idx += 2
		default:
			// Drain to the closing IAC SE before failing, so the stream
			// stays framed even though this escape is malformed.
			invalid = true
			idx += 2
		}
	}
}

func dispatchSubnegotiation(optByte byte, payload []byte) (Event, bool, error) {
	if optByte == optNegotiateAboutWindowSize {
		if len(payload) != 4 {
			return Event{}, false, ErrInvalidSubnegotiationSequence
		}
		width := uint16(payload[0])<<8 | uint16(payload[1])
		height := uint16(payload[2])<<8 | uint16(payload[3])
		return SubnegotiationEvent(NAWSPayload(width, height)), true, nil
	}
	return SubnegotiationEvent(OtherPayload(OptionFromByte(optByte), payload)), true, nil
}
