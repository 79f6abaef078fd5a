// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protocol

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/brltty-go/bridge"
)

// Server listens on a Unix domain socket and serves one Conn per
// accepted connection. Socket lifecycle (stale-socket detection,
// directory creation, removal on shutdown) mirrors how a Unix-socket
// daemon manages its own listener.
type Server struct {
	SocketPath string
	Services   *Services
	Logger     zerolog.Logger

	listener net.Listener
}

// NewServer returns a Server ready to Listen/Serve. Pass zerolog.Nop()
// for logger to discard all output.
func NewServer(socketPath string, services *Services, logger zerolog.Logger) *Server {
	return &Server{SocketPath: socketPath, Services: services, Logger: logger}
}

// socketDialTimeout bounds the stale-socket liveness probe.
const socketDialTimeout = 500 * time.Millisecond

// Listen creates the socket directory if needed, removes a stale socket
// left by a crashed prior instance, and binds the listener.
func (s *Server) Listen() error {
	if err := os.MkdirAll(filepath.Dir(s.SocketPath), 0o700); err != nil {
		return fmt.Errorf("braille bridge: create socket dir: %w", err)
	}

	if _, err := os.Stat(s.SocketPath); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.SocketPath, socketDialTimeout)
		if dialErr == nil {
			conn.Close()
			return fmt.Errorf("braille bridge: socket %s already has a live listener", s.SocketPath)
		}
		os.Remove(s.SocketPath)
	}

	ln, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("braille bridge: listen on %s: %w", s.SocketPath, err)
	}
	s.listener = ln
	s.Logger.Info().Str("socket", s.SocketPath).Msg("listening")
	return nil
}

// Close stops accepting new connections and removes the socket file.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	os.Remove(s.SocketPath)
	return err
}

// Serve accepts connections until the listener is closed, running each
// on its own goroutine. It returns once Close has been called.
func (s *Server) Serve() error {
	for {
		raw, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.serveOne(raw)
	}
}

func (s *Server) serveOne(raw net.Conn) {
	defer raw.Close()

	peer := s.resolvePeer(raw)
	conn := NewConn(raw, s.Services, peer)
	s.Logger.Debug().Str("client", conn.Client().ID.String()).Msg("connection accepted")
	err := conn.Serve()
	s.Logger.Debug().Str("client", conn.Client().ID.String()).Err(err).Msg("connection closed")
}

// RouteKey delivers a key event produced by the local BrailleDriver to
// the most deeply nested client focused on path whose range set accepts
// it, or falls back to Services.UnroutedKey for the local command
// dispatcher (spec §4.5.5).
func (s *Server) RouteKey(path []int, ev bridge.KeyEvent, modifiers uint32) {
	key := EncodeKey(ev.Key, modifiers)
	for depth := len(path); depth >= 0; depth-- {
		client := s.Services.Tree.FocusedClient(path[:depth])
		if client != nil && client.Ranges().Allows(key) {
			client.pushKey(ev)
			return
		}
	}
	if s.Services.UnroutedKey != nil {
		s.Services.UnroutedKey(ev)
	}
}

// resolvePeer extracts SO_PEERCRED credentials when raw is backed by a
// Unix socket file descriptor; zero PeerInfo otherwise.
func (s *Server) resolvePeer(raw net.Conn) PeerInfo {
	unixConn, ok := raw.(*net.UnixConn)
	if !ok {
		return PeerInfo{}
	}
	sysConn, err := unixConn.SyscallConn()
	if err != nil {
		return PeerInfo{}
	}
	var peer PeerInfo
	sysConn.Control(func(fd uintptr) {
		if p, err := PeerCredentials(int(fd)); err == nil {
			peer = p
		}
	})
	return peer
}
