// gesture-ctl sends administrative commands to a running gestured daemon
// over its Unix admin socket.
//
// Usage:
//
//	gesture-ctl -socket /run/gestured.sock status
//	gesture-ctl -socket /run/gestured.sock set-threshold 0.7
//	gesture-ctl -socket /run/gestured.sock set-cooldown 0.4
//	gesture-ctl -socket /run/gestured.sock fast-mode on|off
//	gesture-ctl -socket /run/gestured.sock set-url ws://detector:8765/gestures
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/admin"
)

func main() {
	socket := flag.String("socket", "/run/gestured.sock", "Path to the gestured admin socket")
	flag.Parse()

	if err := run(*socket, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "gesture-ctl: %v\n", err)
		os.Exit(1)
	}
}

func run(socket string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given (status, set-threshold, set-cooldown, fast-mode, set-url)")
	}

	cmd, err := buildCommand(args)
	if err != nil {
		return err
	}

	resp, err := admin.Send(socket, cmd)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func buildCommand(args []string) (admin.Command, error) {
	switch args[0] {
	case "status":
		return admin.Command{Type: "status"}, nil

	case "set-threshold":
		if len(args) != 2 {
			return admin.Command{}, fmt.Errorf("set-threshold needs a value in [0,1]")
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return admin.Command{}, fmt.Errorf("parse threshold: %w", err)
		}
		return admin.Command{Type: "set_threshold", Value: v}, nil

	case "set-cooldown":
		if len(args) != 2 {
			return admin.Command{}, fmt.Errorf("set-cooldown needs a value in seconds")
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return admin.Command{}, fmt.Errorf("parse cooldown: %w", err)
		}
		return admin.Command{Type: "set_cooldown", Value: v}, nil

	case "fast-mode":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return admin.Command{}, fmt.Errorf("fast-mode needs on or off")
		}
		return admin.Command{Type: "set_fast_mode", Enabled: args[1] == "on"}, nil

	case "set-url":
		if len(args) != 2 {
			return admin.Command{}, fmt.Errorf("set-url needs a websocket URL")
		}
		return admin.Command{Type: "set_url", URL: args[1]}, nil

	default:
		return admin.Command{}, fmt.Errorf("unknown command %q", args[0])
	}
}
