// Command telnetgateway is a minimal TCP acceptor that terminates the
// Telnet wire protocol for each connection and exposes decoded Events to a
// trivial echo handler. It plays the role of the "transport collaborator"
// the telnet package assumes: it owns the socket, the read buffer, and all
// I/O errors, and drives telnet.Decoder/telnet.Encode with them.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cannibalvox/telnetcodec/telnet"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML/TOML/JSON config file (optional)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "telnetgateway:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "telnetgateway:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("gateway exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	listener, err := net.Listen("tcp", cfg.Listen.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Listen.Addr(), err)
	}
	defer listener.Close()

	logger.Info("telnet gateway listening", zap.String("addr", cfg.Listen.Addr()))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	group, groupCtx := errgroup.WithContext(ctx)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Warn("accept failed", zap.Error(err))
			continue
		}

		connID := uuid.New()
		connLogger := logger.With(zap.String("conn_id", connID.String()), zap.String("remote_addr", conn.RemoteAddr().String()))

		group.Go(func() error {
			return serveConn(groupCtx, conn, cfg.Codec, connLogger)
		})
	}

	return group.Wait()
}

// serveConn owns one accepted connection end to end: the read loop that
// feeds telnet.Decoder, the opening greeting and NAWS bookkeeping, and
// the write path through telnet.Encode. Incoming negotiation events get no
// reply. It returns when the connection
// closes or ctx is cancelled.
func serveConn(ctx context.Context, conn net.Conn, codecCfg CodecConfig, logger *zap.Logger) error {
	defer conn.Close()
	logger.Info("connection accepted")
	defer logger.Info("connection closed")

	session := newSession(conn, codecCfg, logger)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	if err := session.greet(); err != nil {
		return err
	}

	return session.readLoop()
}

// session pairs one net.Conn with the decoder/encoder state needed to speak
// Telnet over it, plus the most recent NAWS dimensions. Those are recorded
// and logged only; the echo handler does not send them back to the client.
type session struct {
	conn        net.Conn
	dec         *telnet.Decoder
	logger      *zap.Logger
	idleTimeout time.Duration

	pending []byte
	width   uint16
	height  uint16
}

func newSession(conn net.Conn, codecCfg CodecConfig, logger *zap.Logger) *session {
	return &session{
		conn:        conn,
		dec:         telnet.NewDecoder(codecCfg.MaxLineLength),
		logger:      logger,
		idleTimeout: codecCfg.IdleTimeout,
	}
}

func (s *session) greet() error {
	var out []byte
	out = s.encodeInto(out, telnet.DoEvent(telnet.NegotiateAboutWindowSize))
	out = s.encodeInto(out, telnet.WillEvent(telnet.SuppressGoAhead))
	out = s.encodeInto(out, telnet.MessageEvent("Connected. Type something and press enter."))
	_, err := s.conn.Write(out)
	return err
}

func (s *session) encodeInto(out []byte, ev telnet.Event) []byte {
	sink := &byteSliceSink{buf: out}
	if err := telnet.Encode(ev, sink); err != nil {
		s.logger.Warn("encode failed", zap.Error(err))
		return out
	}
	return sink.buf
}

func (s *session) readLoop() error {
	readBuf := make([]byte, 4096)
	for {
		if s.idleTimeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
				return err
			}
		}
		n, err := s.conn.Read(readBuf)
		if n > 0 {
			s.pending = append(s.pending, readBuf[:n]...)
			if writeErr := s.drain(); writeErr != nil {
				return writeErr
			}
		}
		if err != nil {
			return err
		}
	}
}

func (s *session) drain() error {
	for {
		ev, ok, err := s.dec.Decode(&s.pending)
		if err != nil {
			s.logger.Warn("protocol error", zap.Error(err))
			continue
		}
		if !ok {
			return nil
		}

		if reply, shouldReply := s.handle(ev); shouldReply {
			if _, err := s.conn.Write(reply); err != nil {
				return err
			}
		}
	}
}

// handle reacts to one decoded Event and returns wire bytes to send back,
// if any. This gateway has no negotiation policy of its own beyond
// recording NAWS and echoing completed lines - real policy belongs to
// whatever application sits behind this transport.
func (s *session) handle(ev telnet.Event) ([]byte, bool) {
	switch ev.Kind {
	case telnet.EventSubnegotiation:
		if ev.Payload.Kind == telnet.PayloadNAWS {
			s.width, s.height = ev.Payload.Width, ev.Payload.Height
			s.logger.Debug("window size negotiated", zap.Uint16("width", s.width), zap.Uint16("height", s.height))
		}
		return nil, false
	case telnet.EventMessage:
		return s.encodeInto(nil, telnet.MessageEvent("you said: "+ev.Text)), true
	default:
		return nil, false
	}
}

// byteSliceSink is the simplest telnet.Sink: an in-memory slice grown by
// append, handed off to a single conn.Write once a reply is assembled.
type byteSliceSink struct {
	buf []byte
}

func (s *byteSliceSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *byteSliceSink) Bytes() []byte {
	return s.buf
}
