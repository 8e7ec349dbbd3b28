package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/studious/internal/app"
	"github.com/vovakirdan/studious/internal/config"
	"github.com/vovakirdan/studious/internal/core"
	"github.com/vovakirdan/studious/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.studious/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent sessions; each one runs its own frame loop.
	MaxSessions int

	// Runtime is the configuration every session is built from.
	Runtime config.StudiousConfig

	// Store records runs of all sessions; may be nil.
	Store *storage.Store
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		MaxSessions: 8,
		Runtime:     config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server that gives every connection its own
// session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger

	mu       sync.Mutex
	sessions map[int64]*app.Runtime
	nextID   int64
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "studious-ssh",
		})
	}

	srv := &SSHServer{
		config:   cfg,
		logger:   logger,
		sessions: make(map[int64]*app.Runtime),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".studious", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler builds a runtime for each SSH session and starts its frame loop.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Println(sshSession, "studious needs an interactive terminal (ssh -t)")
		return nil, nil
	}

	if s.config.MaxSessions > 0 && s.ActiveSessions() >= s.config.MaxSessions {
		s.logger.Warn("session rejected, server full", "user", sshSession.User())
		wish.Println(sshSession, "studious: server is full, try again later")
		return nil, nil
	}

	hud := NewHUD()
	rt, err := app.Build(app.Options{
		Config:   s.config.Runtime,
		Mode:     app.ModeSSH,
		Width:    pty.Window.Width,
		Height:   core.Max(pty.Window.Height-FooterHeight, 1),
		Store:    s.config.Store,
		Reporter: hud,
		Logger:   s.logger.With("user", sshSession.User()),
	})
	if err != nil {
		s.logger.Error("cannot build session", "user", sshSession.User(), "error", err)
		wish.Println(sshSession, "studious: "+err.Error())
		return nil, nil
	}

	id := s.track(rt)
	go func() {
		defer s.untrack(id)
		if err := rt.Run(); err != nil {
			s.logger.Error("session loop failed", "user", sshSession.User(), "error", err)
		}
	}()
	go func() {
		select {
		case <-sshSession.Context().Done():
			rt.Shutdown()
		case <-rt.Done():
		}
	}()

	return NewModel(rt, hud), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *SSHServer) track(rt *app.Runtime) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.sessions[s.nextID] = rt
	return s.nextID
}

func (s *SSHServer) untrack(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ActiveSessions returns the number of running session loops.
func (s *SSHServer) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops every session loop and then the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.mu.Lock()
	running := make([]*app.Runtime, 0, len(s.sessions))
	for _, rt := range s.sessions {
		running = append(running, rt)
	}
	s.mu.Unlock()

	for _, rt := range running {
		rt.Shutdown()
	}
	for _, rt := range running {
		select {
		case <-rt.Done():
		case <-ctx.Done():
			s.logger.Warn("session loop did not stop in time")
		}
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
