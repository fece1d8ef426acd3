package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-scan/pkg/scan"
)

// WriteText writes comment header lines followed by one line per vertex in
// internal id order:
//
//	<external-id> TAB <cluster|hub|outlier> TAB <c|n>
func WriteText(w io.Writer, res *scan.Result) error {
	if res == nil {
		return ErrNilResult
	}
	counts := res.RoleCounts()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# run %s\n", res.RunID)
	fmt.Fprintf(bw, "# eps %g\n", res.Params.Epsilon)
	fmt.Fprintf(bw, "# mu %d\n", res.Params.Mu)
	fmt.Fprintf(bw, "# alpha %g\n", res.Params.Alpha)
	fmt.Fprintf(bw, "# clusters %d\n", res.NumClusters)
	fmt.Fprintf(bw, "# hubs %d\n", counts[scan.RoleHub.String()])
	fmt.Fprintf(bw, "# outliers %d\n", counts[scan.RoleOutlier.String()])

	for _, a := range res.Assignments {
		bw.WriteString(a.ExternalID)
		bw.WriteByte('\t')
		bw.WriteString(clusterColumn(a))
		bw.WriteByte('\t')
		if a.Core {
			bw.WriteByte('c')
		} else {
			bw.WriteByte('n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func clusterColumn(a scan.Assignment) string {
	switch a.Role {
	case scan.RoleHub:
		return "hub"
	case scan.RoleOutlier:
		return "outlier"
	default:
		return strconv.Itoa(a.Cluster)
	}
}
