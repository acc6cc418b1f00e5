// Package admin exposes the client's runtime-mutable settings over a Unix
// domain socket so operators and tooling can adjust them without a
// restart.
//
// Protocol: line-delimited JSON.
//   - Client sends: {"type":"set_threshold","value":0.7}
//   - Server responds: {"status":"ok", ...} or {"status":"error","error":"msg"}
package admin

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/client"
)

// Command is one administrative request.
type Command struct {
	Type    string  `json:"type"`
	Value   float64 `json:"value,omitempty"`   // set_threshold (0..1), set_cooldown (seconds)
	Enabled bool    `json:"enabled,omitempty"` // set_fast_mode
	URL     string  `json:"url,omitempty"`     // set_url
}

// Response is sent back for every command. Status fields are populated
// only for the "status" command.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`

	State     string  `json:"state,omitempty"`
	ServerURL string  `json:"server_url,omitempty"`
	FastMode  *bool   `json:"fast_mode,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Cooldown  float64 `json:"cooldown_seconds,omitempty"`
	QueueLen  int     `json:"queue_len,omitempty"`
}

// Server answers admin commands against a live client.
type Server struct {
	client   *client.Client
	logger   *slog.Logger
	listener net.Listener
}

// Listen binds the Unix socket and starts accepting connections.
func Listen(socketPath string, c *client.Client, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", socketPath, err)
	}

	s := &Server{client: c, logger: logger, listener: listener}
	go s.acceptLoop(socketPath)
	logger.Info("admin socket listening", "path", socketPath)
	return s, nil
}

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) acceptLoop(socketPath string) {
	defer os.Remove(socketPath)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return
			}
			s.logger.Warn("admin accept error", "error", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		var cmd Command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			s.reply(encoder, Response{Status: "error", Error: fmt.Sprintf("parse command: %v", err)})
			continue
		}
		s.reply(encoder, s.apply(cmd))
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("admin scanner error", "error", err)
	}
}

func (s *Server) reply(encoder *json.Encoder, resp Response) {
	if err := encoder.Encode(resp); err != nil {
		s.logger.Warn("admin response failed", "error", err)
	}
}

func (s *Server) apply(cmd Command) Response {
	d := s.client.Dispatcher()

	switch cmd.Type {
	case "set_threshold":
		if cmd.Value < 0 || cmd.Value > 1 {
			return Response{Status: "error", Error: fmt.Sprintf("threshold %v out of [0,1]", cmd.Value)}
		}
		d.SetThreshold(cmd.Value)
		s.logger.Info("threshold updated", "threshold", cmd.Value)
		return Response{Status: "ok"}

	case "set_cooldown":
		if cmd.Value < 0 {
			return Response{Status: "error", Error: fmt.Sprintf("cooldown %v is negative", cmd.Value)}
		}
		d.SetCooldown(time.Duration(cmd.Value * float64(time.Second)))
		s.logger.Info("cooldown updated", "seconds", cmd.Value)
		return Response{Status: "ok"}

	case "set_fast_mode":
		s.client.SetFastMode(cmd.Enabled)
		s.logger.Info("fast mode updated", "enabled", cmd.Enabled)
		return Response{Status: "ok"}

	case "set_url":
		if cmd.URL == "" {
			return Response{Status: "error", Error: "url is required"}
		}
		s.client.SetServerURL(cmd.URL)
		s.logger.Info("server url updated", "url", cmd.URL)
		return Response{Status: "ok"}

	case "status":
		fast := s.client.FastMode()
		return Response{
			Status:    "ok",
			State:     s.client.State().String(),
			ServerURL: s.client.ServerURL(),
			FastMode:  &fast,
			Threshold: d.Threshold(),
			Cooldown:  d.Cooldown().Seconds(),
			QueueLen:  s.client.QueueLen(),
		}

	default:
		return Response{Status: "error", Error: fmt.Sprintf("unknown command type %q", cmd.Type)}
	}
}

// Send connects to an admin socket, sends one command and decodes the
// response. Used by command-line tooling and tests.
func Send(socketPath string, cmd Command) (Response, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return Response{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		return Response{}, fmt.Errorf("send command: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status == "error" {
		return resp, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return resp, nil
}
