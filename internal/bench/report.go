package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Stats summarizes the timed calls of one operation at one size.
type Stats struct {
	Iterations int           `json:"iterations"`
	Min        time.Duration `json:"min_ns"`
	Mean       time.Duration `json:"mean_ns"`
	Max        time.Duration `json:"max_ns"`
}

// Result is one timed operation.
type Result struct {
	Op    string `json:"op"`
	Size  int    `json:"size"`
	Stats Stats  `json:"stats"`
}

// Report is the outcome of a run.
type Report struct {
	RunID     string    `json:"run_id"`
	Plan      string    `json:"plan"`
	TypeCode  string    `json:"typecode"`
	Container string    `json:"container"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results"`
}

// WriteText renders the report as an aligned table, times in milliseconds.
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "run %s: plan %s, typecode %s, %s\n", r.RunID, r.Plan, r.TypeCode, r.Container)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "op\tsize\tmin ms\tmean ms\tmax ms\t")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t\n",
			res.Op, res.Size, ms(res.Stats.Min), ms(res.Stats.Mean), ms(res.Stats.Max))
	}
	return tw.Flush()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
