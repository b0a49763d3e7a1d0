package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener accepts viewers over ssh. Any user name is accepted without
// authentication.
type SshListener struct {
	host    string
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
}

func NewSshListener(host string, port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		host:    host,
		port:    port,
		cm:      cm,
		hostKey: hostKey,
	}
}

// Addr returns the address the listener binds to.
func (l *SshListener) Addr() string {
	return listenAddr(l.host, l.port)
}

func (l *SshListener) Start(ctx context.Context) error {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(l.hostKey)

	listener, err := net.Listen("tcp", l.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.Addr(), err)
	}

	slog.InfoContext(ctx, "listening for ssh", "addr", l.Addr())

	connCtx, cancelConns := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Close the listener when the parent context is canceled
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Check if shutdown was requested
			select {
			case <-ctx.Done():
				cancelConns()
				wg.Wait()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConnection(connCtx, conn, config)
		}()
	}
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		slog.ErrorContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	slog.InfoContext(ctx, "ssh connection established", "remote", conn.RemoteAddr(), "user", sshConn.User())

	// Close the SSH connection when the context is cancelled.
	// This unblocks the channel iteration loop below so handleConnection can return.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		// Wait for a shell or exec request before starting the session.
		// SSH clients won't forward input until they receive the reply.
		started := make(chan sessionRequest, 1)
		go serveSessionRequests(requests, started)

		var sr sessionRequest
		select {
		case sr = <-started:
		case <-ctx.Done():
			ch.Close()
			continue
		}

		rw := newCRLFReadWriter(ch)
		if sr.scene == "" {
			l.cm.AcceptConnection(ctx, rw)
		} else {
			l.cm.AcceptScene(ctx, rw, sr.scene)
		}

		_, err = ch.SendRequest("exit-status", false, ssh.Marshal(exitStatus{}))
		if err != nil {
			slog.DebugContext(ctx, "sending ssh exit status", "error", err)
		}
		ch.Close()
	}
}

// sessionRequest is how the client asked to start. An exec request names the
// scene to play; a shell request leaves scene empty.
type sessionRequest struct {
	scene string
}

type execPayload struct {
	Command string
}

type exitStatus struct {
	Status uint32
}

func serveSessionRequests(in <-chan *ssh.Request, started chan<- sessionRequest) {
	once := false
	for req := range in {
		switch req.Type {
		case "pty-req":
			// Reject PTY so the client keeps local echo and line buffering.
			_ = req.Reply(false, nil)

		case "shell":
			if once {
				_ = req.Reply(false, nil)
				continue
			}
			once = true
			_ = req.Reply(true, nil)
			started <- sessionRequest{}

		case "exec":
			var payload execPayload
			if once || ssh.Unmarshal(req.Payload, &payload) != nil {
				_ = req.Reply(false, nil)
				continue
			}
			once = true
			_ = req.Reply(true, nil)
			started <- sessionRequest{scene: strings.TrimSpace(payload.Command)}

		default:
			_ = req.Reply(false, nil)
		}
	}
}
