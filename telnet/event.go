package telnet

import "strconv"

// EventKind discriminates the variants of Event. The zero value has no
// corresponding EventKind - always construct an Event through one of the
// constructor functions below.
type EventKind int

const (
	_ EventKind = iota
	// EventDo is a request that the option be activated locally.
	EventDo
	// EventDont is a demand that the option be deactivated locally.
	EventDont
	// EventWill is a notice that the option has been, or will be, activated remotely.
	EventWill
	// EventWont is a notice that the option has been, or will be, refused remotely.
	EventWont
	// EventSubnegotiation carries a completed IAC SB ... IAC SE payload.
	EventSubnegotiation
	// EventMessage is a completed line of user data, decoded as UTF-8 (lossy).
	EventMessage
	// EventCharacter is a single byte delivered in character-at-a-time mode.
	EventCharacter
	// EventEraseCharacter is the EC editing signal.
	EventEraseCharacter
	// EventEraseLine is the EL editing signal.
	EventEraseLine
	// EventNop is a no-op, always discarded by the Encoder.
	EventNop
)

func (k EventKind) String() string {
	switch k {
	case EventDo:
		return "Do"
	case EventDont:
		return "Dont"
	case EventWill:
		return "Will"
	case EventWont:
		return "Wont"
	case EventSubnegotiation:
		return "Subnegotiation"
	case EventMessage:
		return "Message"
	case EventCharacter:
		return "Character"
	case EventEraseCharacter:
		return "EraseCharacter"
	case EventEraseLine:
		return "EraseLine"
	case EventNop:
		return "Nop"
	default:
		return "Unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is the decoded/encoded unit of the Telnet wire protocol: option
// negotiation, a subnegotiation payload, a completed line of text, a single
// character, an editing signal, or a no-op. Only the fields relevant to Kind
// are populated.
type Event struct {
	Kind    EventKind
	Option  Option  // Do, Dont, Will, Wont
	Payload Payload // Subnegotiation
	Text    string  // Message
	Char    byte    // Character
}

// DoEvent constructs an Event requesting that opt be activated locally.
func DoEvent(opt Option) Event { return Event{Kind: EventDo, Option: opt} }

// DontEvent constructs an Event demanding that opt be deactivated locally.
func DontEvent(opt Option) Event { return Event{Kind: EventDont, Option: opt} }

// WillEvent constructs an Event announcing activation of opt remotely.
func WillEvent(opt Option) Event { return Event{Kind: EventWill, Option: opt} }

// WontEvent constructs an Event announcing refusal of opt remotely.
func WontEvent(opt Option) Event { return Event{Kind: EventWont, Option: opt} }

// SubnegotiationEvent constructs an Event carrying a completed subnegotiation payload.
func SubnegotiationEvent(p Payload) Event { return Event{Kind: EventSubnegotiation, Payload: p} }

// MessageEvent constructs an Event carrying one completed, newline-terminated line of text.
func MessageEvent(text string) Event { return Event{Kind: EventMessage, Text: text} }

// CharacterEvent constructs an Event carrying a single character-mode byte.
func CharacterEvent(b byte) Event { return Event{Kind: EventCharacter, Char: b} }

// EraseCharacterEvent is the EC editing signal.
var EraseCharacterEvent = Event{Kind: EventEraseCharacter}

// EraseLineEvent is the EL editing signal.
var EraseLineEvent = Event{Kind: EventEraseLine}

// NopEvent is a no-op; the Encoder discards it silently.
var NopEvent = Event{Kind: EventNop}

// CommandByte projects an Event to the single representative wire byte used
// where this library needs one value to stand in for the event (logging,
// dispatch tables). For negotiation events this is the command byte, for
// Subnegotiation it's SB, for Character it's the character itself, and for
// Message it's 0x00 (there being no single representative byte for a whole line).
func (e Event) CommandByte() byte {
	switch e.Kind {
	case EventDo:
		return cmdDO
	case EventDont:
		return cmdDONT
	case EventWill:
		return cmdWILL
	case EventWont:
		return cmdWONT
	case EventSubnegotiation:
		return cmdSB
	case EventEraseCharacter:
		return cmdEC
	case EventEraseLine:
		return cmdEL
	case EventNop:
		return cmdNOP
	case EventCharacter:
		return e.Char
	case EventMessage:
		return 0x00
	default:
		return 0x00
	}
}

func (e Event) String() string {
	switch e.Kind {
	case EventDo, EventDont, EventWill, EventWont:
		return "IAC " + commandNames[e.CommandByte()] + " " + e.Option.String()
	case EventSubnegotiation:
		return "IAC SB " + e.Payload.String() + " IAC SE"
	case EventMessage:
		return strconv.Quote(e.Text)
	case EventCharacter:
		return "CHAR(" + strconv.Itoa(int(e.Char)) + ")"
	default:
		return "IAC " + e.Kind.String()
	}
}
