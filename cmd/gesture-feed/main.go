// gesture-feed serves recorded gesture messages over a WebSocket endpoint
// so the client can be exercised without a live detector. Input is one
// JSON message per line, replayed to every connecting client at a fixed
// rate.
//
// Usage:
//
//	gesture-feed -addr :8765 -file session.ndjson -rate 10
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	var (
		addr = flag.String("addr", ":8765", "Listen address")
		path = flag.String("path", "/gestures", "WebSocket endpoint path")
		file = flag.String("file", "", "NDJSON file of messages to replay (default: stdin)")
		rate = flag.Float64("rate", 10, "Messages per second")
		loop = flag.Bool("loop", false, "Restart the file when exhausted")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	messages, err := loadMessages(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gesture-feed: %v\n", err)
		os.Exit(1)
	}
	if len(messages) == 0 {
		fmt.Fprintln(os.Stderr, "gesture-feed: no messages to replay")
		os.Exit(1)
	}
	logger.Info("loaded messages", "count", len(messages))

	interval := time.Duration(float64(time.Second) / *rate)

	http.HandleFunc(*path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		logger.Info("client connected", "remote", r.RemoteAddr)

		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"connected"}`)); err != nil {
			return
		}

		for {
			for _, msg := range messages {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					logger.Info("client disconnected", "remote", r.RemoteAddr)
					return
				}
				time.Sleep(interval)
			}
			if !*loop {
				break
			}
		}

		deadline := time.Now().Add(time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"), deadline)
	})

	logger.Info("serving", "addr", *addr, "path", *path, "rate", *rate)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "gesture-feed: %v\n", err)
		os.Exit(1)
	}
}

func loadMessages(path string) ([][]byte, error) {
	in := os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var out [][]byte
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		out = append(out, append([]byte(nil), line...))
	}
	return out, scanner.Err()
}
