package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/danielpatrickdp/conscious-engine/internal/engine"
	"github.com/danielpatrickdp/conscious-engine/internal/eventlog"
	"github.com/danielpatrickdp/conscious-engine/internal/persist"
	"github.com/danielpatrickdp/conscious-engine/internal/replay"
)

// #region main
func main() {
	dbPath := envOr("ENGINE_DB", "conscious_engine.db")

	store, err := persist.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	e := engine.NewEngine(engine.DefaultConfig())
	e.SetFingerprintSink(store)
	e.Register(eventlog.NewRecorder(store.DB()))

	fmt.Println("Consciousness engine ready.")
	fmt.Printf("  DB: %s\n", dbPath)
	fmt.Println("Feed one tick per line as JSON (ctrl-D to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	tickNum := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		tickNum++
		var ft replay.FixtureTick
		if err := json.Unmarshal(line, &ft); err != nil {
			log.Printf("parse tick %d: %v", tickNum, err)
			continue
		}
		if ft.TickID == "" {
			ft.TickID = fmt.Sprintf("tick-%d", tickNum)
		}

		in, err := ft.ToTickInput()
		if err != nil {
			log.Printf("tick %s: %v", ft.TickID, err)
			continue
		}

		out, err := e.Tick(in)
		if err != nil {
			log.Printf("tick %s rejected: %v", ft.TickID, err)
			continue
		}

		record := replay.RecordOutcome(out)
		inputJSON, _ := json.Marshal(ft)
		outcomeJSON, _ := json.Marshal(record)
		if err := store.RecordTick(ft.TickID, string(inputJSON), string(outcomeJSON)); err != nil {
			log.Printf("record tick %s: %v", ft.TickID, err)
		}

		fmt.Printf("[%s] C=%.4f mode=%s winner=%s conflict=%v reflection=%v\n",
			ft.TickID, record.Consciousness, record.Mode,
			orDash(record.WinnerID), record.Conflict, record.Reflection)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// #endregion helpers
