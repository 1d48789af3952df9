package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/conscious-engine/internal/persist"
	"github.com/danielpatrickdp/conscious-engine/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to conscious_engine.db")
	last := flag.Int("last", 10, "number of most recent ticks to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath string, last int, outPath string) error {
	store, err := persist.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rows, err := store.ListTicks(0)
	if err != nil {
		return fmt.Errorf("list ticks: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no ticks found in tick_log")
	}
	// Keep the tail but preserve chronological order.
	if last > 0 && len(rows) > last {
		rows = rows[len(rows)-last:]
	}

	fixture := replay.Fixture{
		Description: fmt.Sprintf("Recorded session export: %d ticks from %s", len(rows), dbPath),
	}
	skipped := 0
	for _, row := range rows {
		var ft replay.FixtureTick
		if err := json.Unmarshal([]byte(row.InputJSON), &ft); err != nil {
			skipped++
			continue
		}
		if ft.TickID == "" {
			ft.TickID = row.TickID
		}
		if row.OutcomeJSON == "" {
			skipped++
			continue // no recorded outcome means no expectation to pin
		}
		var rec replay.OutcomeRecord
		if err := json.Unmarshal([]byte(row.OutcomeJSON), &rec); err != nil {
			skipped++
			continue
		}
		fixture.Ticks = append(fixture.Ticks, ft)
		fixture.ExpectedResults = append(fixture.ExpectedResults, rec.ToExpected(ft.TickID))
	}
	if len(fixture.Ticks) == 0 {
		return fmt.Errorf("no replayable ticks in last %d rows (%d skipped)", last, skipped)
	}
	if skipped > 0 {
		fmt.Printf("Skipped %d rows without parseable input and outcome\n", skipped)
	}

	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d ticks)\n", outPath, len(data), len(fixture.Ticks))
	return nil
}

// #endregion output
