package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"pdlog/pkg/pdlog"
)

const protocol = "quic-echo"

func main() {
	listenAddr := flag.String("listen", ":4433", "Listen address")
	debugFlag := flag.Bool("debug", false, "Enable debug logging regardless of build")
	manifest := flag.String("manifest", "", "Packaging manifest used to decide debug logging")
	pkg := flag.String("package", "pdlog/cmd/echo", "Package name looked up in -manifest")
	sinkType := flag.String("sink", "", fmt.Sprintf("Debug log sink %v (default: manifest log.type, else log)", pdlog.ListSinks()))
	logOutput := flag.String("log-output", "", "Debug log output: stderr, stdout or a file path")
	flag.Parse()

	dlog, err := newDebugLogger(debugOptions{
		force:    *debugFlag,
		manifest: *manifest,
		pkg:      *pkg,
		sink:     pdlog.SinkConfig{Type: *sinkType, Output: *logOutput},
	})
	if err != nil {
		log.Fatalf("Failed to set up debug logging: %v", err)
	}
	defer dlog.Close()

	tlsConfig, err := generateTLSConfig()
	if err != nil {
		log.Fatalf("Failed to create TLS config: %v", err)
	}

	listener, err := quic.ListenAddr(*listenAddr, tlsConfig, &quic.Config{
		MaxIdleTimeout: 60 * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	defer listener.Close()

	log.Printf("Echo server listening on %s", *listenAddr)
	log.Printf("Protocol: %s (debug log: %v)", protocol, dlog.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		listener.Close()
	}()

	srv := &server{log: dlog}
	srv.serve(ctx, listener)
}

// acceptor is the part of *quic.Listener the accept loop uses.
type acceptor interface {
	Accept(ctx context.Context) (*quic.Conn, error)
}

// server echoes every stream of every accepted connection.
type server struct {
	log *pdlog.Logger
}

// serve accepts connections until ctx is done. Accept failures are logged
// whether or not debug logging is on.
func (s *server) serve(ctx context.Context, ln acceptor) {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Accept error: %v", err)
			continue
		}

		go s.handleConnection(ctx, conn)
	}
}

func (s *server) handleConnection(ctx context.Context, conn *quic.Conn) {
	defer conn.CloseWithError(0, "bye")

	session := uuid.NewString()[:8]
	s.log.I(fmt.Sprintf("[%s] connection from %s (SNI: %s)",
		session,
		conn.RemoteAddr(),
		conn.ConnectionState().TLS.ServerName))

	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			s.log.D(fmt.Sprintf("[%s] connection closed: %v", session, err))
			return
		}

		go s.handleStream(session, stream)
	}
}

func (s *server) handleStream(session string, stream *quic.Stream) {
	defer stream.Close()

	s.log.D(fmt.Sprintf("[%s] stream %d opened", session, stream.StreamID()))

	// Echo all data back
	n, err := io.Copy(stream, stream)
	if err != nil {
		s.log.E(fmt.Sprintf("[%s] stream %d error: %v", session, stream.StreamID(), err))
		return
	}

	s.log.D(fmt.Sprintf("[%s] stream %d closed (echoed %d bytes)", session, stream.StreamID(), n))
}

// debugOptions decides whether and where the server writes debug lines.
type debugOptions struct {
	force    bool
	manifest string
	pkg      string
	sink     pdlog.SinkConfig
}

// newDebugLogger builds the server's debug logger. It is enabled when
// forced or when the build (or the manifest, if given) is debuggable.
// Without an explicit sink type, the manifest's log section picks the sink.
func newDebugLogger(opts debugOptions) (*pdlog.Logger, error) {
	var appCtx pdlog.AppContext = pdlog.BuildInfoContext{}
	cfg := opts.sink
	if opts.manifest != "" {
		mctx := pdlog.ManifestContext{Path: opts.manifest, Package: opts.pkg}
		appCtx = mctx
		if cfg.Type == "" {
			if app, err := mctx.Application(); err == nil && app.Log != nil {
				cfg = *app.Log
			}
		}
	}
	if cfg.Type == "" {
		cfg.Type = "log"
	}

	sink, err := pdlog.BuildSink(cfg)
	if err != nil {
		return nil, err
	}

	l := pdlog.New(sink)
	l.Enable(opts.force || pdlog.IsDebuggable(appCtx))
	return l, nil
}

// generateTLSConfig creates a self-signed TLS configuration.
func generateTLSConfig() (*tls.Config, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		DNSNames:     []string{"localhost", "echo.local"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, priv.Public(), priv)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{certDER},
			PrivateKey:  priv,
		}},
		NextProtos: []string{protocol},
	}, nil
}
