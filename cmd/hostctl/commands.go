// cmd/hostctl/commands.go
package main

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Config is the hostctl YAML file.
type Config struct {
	Port   string              `yaml:"port"`
	Baud   int                 `yaml:"baud"`
	Macros map[string][]string `yaml:"macros"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{Baud: 921600}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Port == "" {
		return cfg, errors.New("config: port is required")
	}
	return cfg, nil
}

type wireMsg struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// BuildLine turns one console command into a protocol line. Commands
// use shell quoting, so `text "Timer done"` carries the space.
func BuildLine(text string) ([]byte, error) {
	tokens, err := shlex.Split(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty command")
	}

	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case "time", "weather", "text", "emotion", "mode", "log":
		payload := ""
		if len(args) > 0 {
			payload = args[0]
		}
		return json.Marshal(wireMsg{Kind: cmd, Payload: payload})

	case "hello":
		return json.Marshal(wireMsg{Kind: "hello", Payload: "ping"})

	case "track":
		if len(args) < 2 {
			return nil, errors.New("usage: track <dx_px> <dy_px> [dt_ms]")
		}
		dx, err1 := strconv.ParseFloat(args[0], 32)
		dy, err2 := strconv.ParseFloat(args[1], 32)
		if err1 != nil || err2 != nil {
			return nil, errors.New("track: dx/dy must be numbers")
		}
		dt := 0
		if len(args) > 2 {
			if dt, err = strconv.Atoi(args[2]); err != nil {
				return nil, errors.New("track: dt_ms must be an integer")
			}
		}
		return json.Marshal(wireMsg{Kind: "track", Payload: map[string]any{
			"dx_px": dx, "dy_px": dy, "dt_ms": dt,
		}})

	case "servo":
		if len(args) < 2 {
			return nil, errors.New("usage: servo <yaw_deg> <pitch_deg>")
		}
		yaw, err1 := strconv.ParseFloat(args[0], 32)
		pitch, err2 := strconv.ParseFloat(args[1], 32)
		if err1 != nil || err2 != nil {
			return nil, errors.New("servo: angles must be numbers")
		}
		return json.Marshal(wireMsg{Kind: "servo", Payload: map[string]any{
			"yaw": yaw, "pitch": pitch,
		}})

	case "raw":
		if len(args) != 1 || !json.Valid([]byte(args[0])) {
			return nil, errors.New("usage: raw '<json object>'")
		}
		return []byte(args[0]), nil
	}
	return nil, errors.New("unknown command " + strconv.Quote(cmd))
}

// DecodeEvent parses one device event line.
func DecodeEvent(raw string) (kind, payload string, err error) {
	var ev struct {
		Kind    string `json:"kind"`
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return "", "", err
	}
	return ev.Kind, ev.Payload, nil
}
