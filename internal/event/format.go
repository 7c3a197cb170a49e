package event

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatEvent renders one event as a human-readable line for CLI output.
func FormatEvent(e Event) string {
	ts := time.UnixMilli(e.Timestamp).Format("15:04:05")
	t := string(e.Type)
	for len(t) < 24 {
		t += " "
	}
	return fmt.Sprintf("%s %s| %s", ts, t, formatData(e.Data))
}

// FormatAll renders events as a multi-line string, oldest first.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(parts, " ")
}
