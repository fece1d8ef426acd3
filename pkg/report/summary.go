package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-scan/pkg/scan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(12)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	clusterBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)
)

// summaryClusters caps the cluster list in Summary.
const summaryClusters = 10

// Summary renders a run overview for a terminal: parameters and role
// counts next to the largest clusters.
func Summary(res *scan.Result) string {
	if res == nil {
		return ""
	}
	counts := res.RoleCounts()

	var stats strings.Builder
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("run", res.RunID)
	row("eps", fmt.Sprintf("%g", res.Params.Epsilon))
	row("mu", fmt.Sprintf("%d", res.Params.Mu))
	row("vertices", fmt.Sprintf("%d", len(res.Assignments)))
	row("clusters", fmt.Sprintf("%d", res.NumClusters))
	for _, role := range []scan.Role{scan.RoleCore, scan.RoleBorder, scan.RoleHub, scan.RoleOutlier} {
		row(role.String()+"s", fmt.Sprintf("%d", counts[role.String()]))
	}
	if q, err := Modularity(res); err == nil {
		row("modularity", fmt.Sprintf("%.4f", q))
	}
	row("evaluated", fmt.Sprintf("%d", res.Stats.Similar+res.Stats.Dissimilar))

	statsBox := statsBoxStyle.Render(titleStyle.Render("SCAN run") + "\n\n" + strings.TrimRight(stats.String(), "\n"))
	if res.NumClusters == 0 {
		return statsBox
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, statsBox, clusterBoxStyle.Render(largestClusters(res)))
}

func largestClusters(res *scan.Result) string {
	clusters := res.Clusters()
	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(clusters[order[i]]) > len(clusters[order[j]])
	})

	var s strings.Builder
	s.WriteString(titleStyle.Render("Largest clusters") + "\n\n")
	for i, c := range order {
		if i == summaryClusters {
			fmt.Fprintf(&s, "… %d more", len(order)-summaryClusters)
			break
		}
		fmt.Fprintf(&s, "%s%d members\n", labelStyle.Render(fmt.Sprintf("#%d", c)), len(clusters[c]))
	}
	return strings.TrimRight(s.String(), "\n")
}
