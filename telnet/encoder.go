package telnet

import (
	"bytes"
)

// Sink is the append-only byte buffer an Encoder writes into. *bytes.Buffer
// satisfies it. The encoder never reads from or truncates the sink - it
// only inspects the existing tail once, to decide whether a Message needs a
// trailing CRLF, which lets callers assemble output across several Encode
// calls into the same buffer.
type Sink interface {
	Write(p []byte) (int, error)
	Bytes() []byte
}

// Encode serialises event onto the end of sink. It keeps no internal state
// and never blocks. Subnegotiation and Message events are first assembled in
// a temporary buffer allocated per call and then written to sink, so an
// Encode call allocates beyond what sink itself needs. Nop is recognised and silently
// discarded; Character, EraseCharacter, and EraseLine are not meaningfully
// produced by this side of the wire and are also discarded, since they only
// ever arrive from the decoder side of a character-mode peer.
func Encode(event Event, sink Sink) error {
	switch event.Kind {
	case EventDo:
		_, err := sink.Write([]byte{cmdIAC, cmdDO, event.Option.Byte()})
		return err
	case EventDont:
		_, err := sink.Write([]byte{cmdIAC, cmdDONT, event.Option.Byte()})
		return err
	case EventWill:
		_, err := sink.Write([]byte{cmdIAC, cmdWILL, event.Option.Byte()})
		return err
	case EventWont:
		_, err := sink.Write([]byte{cmdIAC, cmdWONT, event.Option.Byte()})
		return err
	case EventSubnegotiation:
		return encodeSubnegotiation(event.Payload, sink)
	case EventMessage:
		return encodeMessage(event.Text, sink)
	default:
		// Character, EraseCharacter, EraseLine, Nop: nothing to send.
		return nil
	}
}

func encodeSubnegotiation(p Payload, sink Sink) error {
	var buf bytes.Buffer

	switch p.Kind {
	case PayloadNAWS:
		buf.Grow(9)
		buf.Write([]byte{cmdIAC, cmdSB, optNegotiateAboutWindowSize})
		// NAWS is fixed-width and self-framed by length, not by byte
		// content, so its size fields are sent verbatim - an 0xFF size
		// byte here is a legitimate width/height component, not an escape.
		buf.WriteByte(byte(p.Width >> 8))
		buf.WriteByte(byte(p.Width))
		buf.WriteByte(byte(p.Height >> 8))
		buf.WriteByte(byte(p.Height))
		buf.Write([]byte{cmdIAC, cmdSE})
	default:
		buf.Grow(5 + len(p.Bytes))
		buf.Write([]byte{cmdIAC, cmdSB, p.Option.Byte()})
		for _, b := range p.Bytes {
			buf.WriteByte(b)
			if b == cmdIAC {
				buf.WriteByte(cmdIAC)
			}
		}
		buf.Write([]byte{cmdIAC, cmdSE})
	}

	_, err := sink.Write(buf.Bytes())
	return err
}

func encodeMessage(text string, sink Sink) error {
	var buf bytes.Buffer
	data := []byte(text)
	buf.Grow(len(data) + 2)

	for _, b := range data {
		buf.WriteByte(b)
		if b == cmdIAC {
			buf.WriteByte(cmdIAC)
		}
	}

	if _, err := sink.Write(buf.Bytes()); err != nil {
		return err
	}

	// The terminator check inspects the sink's existing tail rather than
	// this call's own output, so chunked assembly across several Encode
	// calls into the same sink still ends up CRLF-terminated exactly once.
	tail := sink.Bytes()
	if bytes.HasSuffix(tail, []byte("\r\n")) {
		return nil
	}
	if bytes.HasSuffix(tail, []byte("\r")) {
		_, err := sink.Write([]byte{'\n'})
		return err
	}
	_, err := sink.Write([]byte{'\r', '\n'})
	return err
}
