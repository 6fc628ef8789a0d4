package telnet

import "strconv"

// Option identifies one of the 256 single-byte Telnet option codes (RFC 854
// and the option-specific RFCs layered on top of it). Every byte value has a
// representation: the options with a registered IANA meaning get a named
// case, and everything else falls back to Other.
type Option struct {
	code  byte
	named bool
}

// The standard Telnet options this codec names explicitly. Every other byte
// value round-trips through Other.
const (
	optBinaryTransmission              byte = 0x00
	optEcho                            byte = 0x01
	optReconnection                    byte = 0x02
	optSuppressGoAhead                 byte = 0x03
	optApproxMessageSizeNegotiation    byte = 0x04
	optStatus                          byte = 0x05
	optTimingMark                      byte = 0x06
	optRemoteControlledTransAndEcho    byte = 0x07
	optOutputLineWidth                 byte = 0x08
	optOutputPageSize                  byte = 0x09
	optOutputCarriageReturnDisposition byte = 0x0A
	optOutputHorizontalTabStops        byte = 0x0B
	optOutputHorizontalTabDisposition  byte = 0x0C
	optOutputFormfeedDisposition       byte = 0x0D
	optOutputVerticalTabstops          byte = 0x0E
	optOutputVerticalTabDisposition    byte = 0x0F
	optOutputLinefeedDisposition       byte = 0x10
	optExtendedASCII                   byte = 0x11
	optLogout                          byte = 0x12
	optByteMacro                       byte = 0x13
	optDataEntryTerminal               byte = 0x14
	optSUPDUP                          byte = 0x15
	optSUPDUPOutput                    byte = 0x16
	optSendLocation                    byte = 0x17
	optTerminalType                    byte = 0x18
	optEndOfRecord                     byte = 0x19
	optTACACSUserIdentification        byte = 0x1A
	optOutputMarking                   byte = 0x1B
	optTerminalLocationNumber          byte = 0x1C
	optTelnet3270Regime                byte = 0x1D
	optX3Pad                           byte = 0x1E
	optNegotiateAboutWindowSize        byte = 0x1F
	optTerminalSpeed                   byte = 0x20
	optRemoteFlowControl               byte = 0x21
	optLinemode                        byte = 0x22
	optXDisplayLocation                byte = 0x23
	optExtendedOptionsList             byte = 0xFF
)

// Named Option values. Each one equals what OptionFromByte returns for its
// code. The zero Option{} is not among them: it carries code 0x00 but is not
// named, so it compares unequal to BinaryTransmission.
var (
	BinaryTransmission              = Option{optBinaryTransmission, true}
	Echo                            = Option{optEcho, true}
	Reconnection                    = Option{optReconnection, true}
	SuppressGoAhead                 = Option{optSuppressGoAhead, true}
	ApproxMessageSizeNegotiation    = Option{optApproxMessageSizeNegotiation, true}
	Status                          = Option{optStatus, true}
	TimingMark                      = Option{optTimingMark, true}
	RemoteControlledTransAndEcho    = Option{optRemoteControlledTransAndEcho, true}
	OutputLineWidth                 = Option{optOutputLineWidth, true}
	OutputPageSize                  = Option{optOutputPageSize, true}
	OutputCarriageReturnDisposition = Option{optOutputCarriageReturnDisposition, true}
	OutputHorizontalTabStops        = Option{optOutputHorizontalTabStops, true}
	OutputHorizontalTabDisposition  = Option{optOutputHorizontalTabDisposition, true}
	OutputFormfeedDisposition       = Option{optOutputFormfeedDisposition, true}
	OutputVerticalTabstops          = Option{optOutputVerticalTabstops, true}
	OutputVerticalTabDisposition    = Option{optOutputVerticalTabDisposition, true}
	OutputLinefeedDisposition       = Option{optOutputLinefeedDisposition, true}
	ExtendedASCII                   = Option{optExtendedASCII, true}
	Logout                          = Option{optLogout, true}
	ByteMacro                       = Option{optByteMacro, true}
	DataEntryTerminal               = Option{optDataEntryTerminal, true}
	SUPDUP                          = Option{optSUPDUP, true}
	SUPDUPOutput                    = Option{optSUPDUPOutput, true}
	SendLocation                    = Option{optSendLocation, true}
	TerminalType                    = Option{optTerminalType, true}
	EndOfRecord                     = Option{optEndOfRecord, true}
	TACACSUserIdentification        = Option{optTACACSUserIdentification, true}
	OutputMarking                   = Option{optOutputMarking, true}
	TerminalLocationNumber          = Option{optTerminalLocationNumber, true}
	Telnet3270Regime                = Option{optTelnet3270Regime, true}
	X3Pad                           = Option{optX3Pad, true}
	NegotiateAboutWindowSize        = Option{optNegotiateAboutWindowSize, true}
	TerminalSpeed                   = Option{optTerminalSpeed, true}
	RemoteFlowControl               = Option{optRemoteFlowControl, true}
	Linemode                        = Option{optLinemode, true}
	XDisplayLocation                = Option{optXDisplayLocation, true}
	ExtendedOptionsList             = Option{optExtendedOptionsList, true}
)

var optionNames = map[byte]string{
	optBinaryTransmission:              "BINARY-TRANSMISSION",
	optEcho:                            "ECHO",
	optReconnection:                    "RECONNECTION",
	optSuppressGoAhead:                 "SUPPRESS-GO-AHEAD",
	optApproxMessageSizeNegotiation:    "APPROX-MESSAGE-SIZE-NEGOTIATION",
	optStatus:                          "STATUS",
	optTimingMark:                      "TIMING-MARK",
	optRemoteControlledTransAndEcho:    "REMOTE-CONTROLLED-TRANS-AND-ECHO",
	optOutputLineWidth:                 "OUTPUT-LINE-WIDTH",
	optOutputPageSize:                  "OUTPUT-PAGE-SIZE",
	optOutputCarriageReturnDisposition: "OUTPUT-CARRIAGE-RETURN-DISPOSITION",
	optOutputHorizontalTabStops:        "OUTPUT-HORIZONTAL-TAB-STOPS",
	optOutputHorizontalTabDisposition:  "OUTPUT-HORIZONTAL-TAB-DISPOSITION",
	optOutputFormfeedDisposition:       "OUTPUT-FORMFEED-DISPOSITION",
	optOutputVerticalTabstops:          "OUTPUT-VERTICAL-TABSTOPS",
	optOutputVerticalTabDisposition:    "OUTPUT-VERTICAL-TAB-DISPOSITION",
	optOutputLinefeedDisposition:       "OUTPUT-LINEFEED-DISPOSITION",
	optExtendedASCII:                   "EXTENDED-ASCII",
	optLogout:                          "LOGOUT",
	optByteMacro:                       "BYTE-MACRO",
	optDataEntryTerminal:               "DATA-ENTRY-TERMINAL",
	optSUPDUP:                          "SUPDUP",
	optSUPDUPOutput:                    "SUPDUP-OUTPUT",
	optSendLocation:                    "SEND-LOCATION",
	optTerminalType:                    "TERMINAL-TYPE",
	optEndOfRecord:                     "END-OF-RECORD",
	optTACACSUserIdentification:        "TACACS-USER-IDENTIFICATION",
	optOutputMarking:                   "OUTPUT-MARKING",
	optTerminalLocationNumber:          "TERMINAL-LOCATION-NUMBER",
	optTelnet3270Regime:                "TELNET-3270-REGIME",
	optX3Pad:                           "X3-PAD",
	optNegotiateAboutWindowSize:        "NAWS",
	optTerminalSpeed:                   "TERMINAL-SPEED",
	optRemoteFlowControl:               "REMOTE-FLOW-CONTROL",
	optLinemode:                        "LINEMODE",
	optXDisplayLocation:                "X-DISPLAY-LOCATION",
	optExtendedOptionsList:             "EXTENDED-OPTIONS-LIST",
}

// OptionFromByte maps a raw wire byte to its named Option, or to Other(byte)
// if the byte has no registered meaning in this table.
func OptionFromByte(b byte) Option {
	if _, ok := optionNames[b]; ok {
		return Option{b, true}
	}
	return Option{b, false}
}

// OtherOption builds an unnamed option. If b happens to match a registered
// code, the result is indistinguishable from the named constant - the
// bijection only has one representation per byte.
func OtherOption(b byte) Option {
	return OptionFromByte(b)
}

// Byte returns the wire representation of this option. Byte(OptionFromByte(b)) == b
// for every b, and this is the inverse of OptionFromByte.
func (o Option) Byte() byte {
	return o.code
}

// IsNamed reports whether this option has a registered name, as opposed to
// being an Other(byte) fallback.
func (o Option) IsNamed() bool {
	return o.named
}

// String renders the option's registered name, or "OPT(n)" for an
// unregistered code.
func (o Option) String() string {
	if name, ok := optionNames[o.code]; ok {
		return name
	}
	return "OPT(" + strconv.Itoa(int(o.code)) + ")"
}
