// cmd/hostctl/main.go
//
// Interactive host console for the companion. Reads commands from
// stdin, translates them to the JSON line protocol, and prints every
// event the device sends back. A YAML config supplies the serial port
// settings and optional command macros.
package main

import (
	"bufio"
	"log"
	"os"
	"strings"

	"go.bug.st/serial"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: hostctl <config.yaml>")
	}

	cfg, err := LoadConfig(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	mode := &serial.Mode{BaudRate: cfg.Baud}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		log.Fatalf("open %s failed: %v", cfg.Port, err)
	}
	defer port.Close()
	log.Printf("connected to %s @%d", cfg.Port, cfg.Baud)

	// Reader: print device events as they arrive.
	go func() {
		sc := bufio.NewScanner(port)
		sc.Buffer(make([]byte, 4096), 4096)
		for sc.Scan() {
			printEvent(sc.Text())
		}
	}()

	send := func(line []byte) {
		if _, err := port.Write(append(line, '\n')); err != nil {
			log.Printf("write failed: %v", err)
		}
	}

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			return
		}
		if name, ok := strings.CutPrefix(text, "@"); ok {
			macro, found := cfg.Macros[name]
			if !found {
				log.Printf("unknown macro %q", name)
				continue
			}
			for _, m := range macro {
				runCommand(m, send)
			}
			continue
		}
		runCommand(text, send)
	}
}

func runCommand(text string, send func([]byte)) {
	line, err := BuildLine(text)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	send(line)
}

func printEvent(raw string) {
	kind, payload, err := DecodeEvent(raw)
	if err != nil {
		log.Printf("<- unparseable: %s", raw)
		return
	}
	switch {
	case kind == "hello" && payload == "ready":
		log.Printf("<- device ready")
	case kind == "hello":
		log.Printf("<- keepalive (%s)", payload)
	case kind == "log":
		log.Printf("<- %s", payload)
	default:
		log.Printf("<- %s: %s", kind, payload)
	}
}
