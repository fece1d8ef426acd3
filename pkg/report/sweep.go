package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/dd0wney/cluso-scan/pkg/scan"
)

// WriteSweep writes one row per sweep run: parameters, cluster and role
// counts and modularity. Failed runs show their error instead.
func WriteSweep(w io.Writer, results []scan.SweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "eps\tmu\tclusters\tcores\tborders\thubs\toutliers\tmodularity")
	for _, sr := range results {
		if sr.Err != nil {
			fmt.Fprintf(tw, "%g\t%d\terror: %v\n", sr.Params.Epsilon, sr.Params.Mu, sr.Err)
			continue
		}
		if sr.Result == nil {
			fmt.Fprintf(tw, "%g\t%d\tno result\n", sr.Params.Epsilon, sr.Params.Mu)
			continue
		}
		counts := sr.Result.RoleCounts()
		q, err := Modularity(sr.Result)
		qs := fmt.Sprintf("%.4f", q)
		if err != nil {
			qs = "-"
		}
		fmt.Fprintf(tw, "%g\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			sr.Params.Epsilon, sr.Params.Mu, sr.Result.NumClusters,
			counts[scan.RoleCore.String()], counts[scan.RoleBorder.String()],
			counts[scan.RoleHub.String()], counts[scan.RoleOutlier.String()], qs)
	}
	return tw.Flush()
}

// Best returns the successful sweep result with the highest modularity,
// the earliest one on ties, or nil when every run failed.
func Best(results []scan.SweepResult) *scan.Result {
	var best *scan.Result
	bestQ := math.Inf(-1)
	for _, sr := range results {
		if sr.Err != nil || sr.Result == nil {
			continue
		}
		q, err := Modularity(sr.Result)
		if err != nil {
			continue
		}
		if q > bestQ {
			best, bestQ = sr.Result, q
		}
	}
	return best
}
