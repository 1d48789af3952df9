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
	dbPath := flag.String("db", "", "path to conscious_engine.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/conscious_engine.db")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-extract

// loadRecordedFixture rebuilds a fixture from the tick_log: recorded inputs
// become ticks, recorded outcomes become the expected results.
func loadRecordedFixture(dbPath string) (*replay.Fixture, error) {
	store, err := persist.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rows, err := store.ListTicks(0)
	if err != nil {
		return nil, fmt.Errorf("list ticks: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no ticks found in tick_log")
	}

	f := &replay.Fixture{
		Description: fmt.Sprintf("Recorded session: %d ticks from %s", len(rows), dbPath),
	}
	for _, row := range rows {
		var ft replay.FixtureTick
		if err := json.Unmarshal([]byte(row.InputJSON), &ft); err != nil {
			return nil, fmt.Errorf("tick %s: parse input: %w", row.TickID, err)
		}
		if ft.TickID == "" {
			ft.TickID = row.TickID
		}
		f.Ticks = append(f.Ticks, ft)

		if row.OutcomeJSON == "" {
			continue
		}
		var rec replay.OutcomeRecord
		if err := json.Unmarshal([]byte(row.OutcomeJSON), &rec); err != nil {
			return nil, fmt.Errorf("tick %s: parse outcome: %w", row.TickID, err)
		}
		f.ExpectedResults = append(f.ExpectedResults, rec.ToExpected(ft.TickID))
	}
	return f, nil
}

func runDBMode(dbPath string) int {
	f, err := loadRecordedFixture(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	return runAndReport(f)
}

// #endregion db-extract

// #region output

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	return runAndReport(f)
}

func runAndReport(f *replay.Fixture) int {
	results, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	fmt.Printf("%-12s| %-11s| %-8s| %-8s| %-10s| %s\n",
		"Tick", "Mode", "C", "Winner", "Conflict", "Violations")
	for _, r := range results {
		winner := "—"
		if r.Outcome.Winner != nil {
			winner = r.Outcome.Winner.ID.String()[:8]
		}
		fmt.Printf("%-12s| %-11s| %-8.4f| %-8s| %-10v| %d\n",
			r.TickID, r.Outcome.Mode, r.Outcome.Metrics.Consciousness,
			winner, r.Outcome.Conflict, len(r.Violations))
		for _, v := range r.Violations {
			fmt.Printf("  ! %s\n", v)
		}
	}

	mismatches := replay.Verify(f, results)
	for _, m := range mismatches {
		fmt.Printf("DIFF: %s\n", m)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d ticks, %d transitions, %d winners, %d conflicts, %d reflections, final mode %s\n",
		s.TotalTicks, s.Transitions, s.Winners, s.Conflicts, s.Reflections, s.FinalMode)
	fmt.Printf("Expected: %d checked, %d diverge, %d invariant violations\n",
		len(f.ExpectedResults), len(mismatches), s.Violations)

	if len(mismatches) > 0 || s.Violations > 0 {
		return 1
	}
	return 0
}

// #endregion output
