package node

import "strings"

// formatAddrs renders a list of addresses the way log lines about
// connection fan-out present them: a quoted, comma-separated list, or a
// fixed placeholder when there is no one to report.
func formatAddrs(addrs []string) string {
	if len(addrs) == 0 {
		return "[no one]"
	}
	quoted := make([]string, len(addrs))
	for i, a := range addrs {
		quoted[i] = `"` + a + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
