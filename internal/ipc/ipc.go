package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"path/filepath"
)

// DefaultSocketPath is where echo-ctl finds the daemon.
var DefaultSocketPath = filepath.Join(os.TempDir(), "echo.sock")

const (
	CmdSay = "say"
)

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Server struct {
	ln   net.Listener
	path string
	done chan struct{}
}

// StartServer listens on a unix socket and calls handler for every message.
// Each connection carries one JSON message.
func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{ln: ln, path: path, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		for {
			conn, err := ln.Accept()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				log.Warn("ipc accept failed", "err", err)
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return s, nil
}

func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	os.Remove(s.path)
	return err
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Warn("ipc bad message", "err", err)
		return
	}
	handler(msg)
}

func SendCommand(path string, msg ControlMessage) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
