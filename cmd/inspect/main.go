package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/danielpatrickdp/conscious-engine/internal/persist"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to conscious_engine.db")
	last := flag.Int("last", 20, "show N most recent rows")
	events := flag.Bool("events", false, "show the event log instead of fingerprints")
	ticks := flag.Bool("ticks", false, "show the tick log instead of fingerprints")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/conscious_engine.db [--last N] [--events] [--ticks] [--json]")
		os.Exit(2)
	}

	store, err := persist.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *events:
		err = runEventMode(store, *last, *jsonOut)
	case *ticks:
		err = runTickMode(store, *last, *jsonOut)
	default:
		err = runFingerprintMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region fingerprint-mode

type fingerprintRow struct {
	SelfID     string  `json:"self_id"`
	Revision   uint64  `json:"revision"`
	Norm       float64 `json:"norm"`
	Dispersion float64 `json:"dispersion"`
	CreatedAt  string  `json:"created_at"`
}

func runFingerprintMode(store *persist.Store, last int, jsonOut bool) error {
	rows, err := store.ListFingerprints(last)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no fingerprints found")
		return nil
	}

	out := make([]fingerprintRow, len(rows))
	for i, r := range rows {
		out[i] = fingerprintRow{
			SelfID:     r.SelfID,
			Revision:   r.Revision,
			Norm:       vectorNorm(r.Purpose),
			Dispersion: vectorDispersion(r.Purpose),
			CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("%-10s  %10s  %10s  %s\n", "Revision", "Norm", "Dispersion", "Time")
	fmt.Printf("%-10s+-%10s+-%10s+-%s\n",
		"----------", "----------", "----------", "--------------------")
	for _, r := range out {
		fmt.Printf("%-10d  %10.4f  %10.4f  %s\n", r.Revision, r.Norm, r.Dispersion, r.CreatedAt)
	}
	return nil
}

// #endregion fingerprint-mode

// #region event-mode

type eventRow struct {
	Kind      string `json:"kind"`
	Payload   string `json:"payload,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runEventMode(store *persist.Store, last int, jsonOut bool) error {
	rows, err := store.ListEvents(last)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no events found")
		return nil
	}

	out := make([]eventRow, len(rows))
	for i, r := range rows {
		out[i] = eventRow{
			Kind:      r.Kind,
			Payload:   r.PayloadJSON,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("%-22s  %-20s  %s\n", "Kind", "Time", "Payload")
	for _, r := range out {
		fmt.Printf("%-22s  %-20s  %s\n", r.Kind, r.CreatedAt, truncate(r.Payload, 80))
	}
	return nil
}

// #endregion event-mode

// #region tick-mode

type tickRow struct {
	TickID    string `json:"tick_id"`
	Input     string `json:"input"`
	Outcome   string `json:"outcome,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runTickMode(store *persist.Store, last int, jsonOut bool) error {
	rows, err := store.ListTicks(0)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no ticks found")
		return nil
	}
	if last > 0 && len(rows) > last {
		rows = rows[len(rows)-last:]
	}

	out := make([]tickRow, len(rows))
	for i, r := range rows {
		out[i] = tickRow{
			TickID:    r.TickID,
			Input:     r.InputJSON,
			Outcome:   r.OutcomeJSON,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("%-12s  %-20s  %s\n", "Tick", "Time", "Outcome")
	for _, r := range out {
		outcome := r.Outcome
		if outcome == "" {
			outcome = "—"
		}
		fmt.Printf("%-12s  %-20s  %s\n", r.TickID, r.CreatedAt, truncate(outcome, 80))
	}
	return nil
}

// #endregion tick-mode

// #region metrics

func vectorNorm(v [13]float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}

// vectorDispersion is the L1-normalized entropy of the component magnitudes,
// scaled to [0,1]. Zero vectors score zero.
func vectorDispersion(v [13]float32) float64 {
	var total float64
	for _, f := range v {
		total += math.Abs(float64(f))
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, f := range v {
		p := math.Abs(float64(f)) / total
		if p < 1e-6 {
			continue
		}
		h -= p * math.Log2(p)
	}
	return h / math.Log2(float64(len(v)))
}

// #endregion metrics

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// #endregion output
