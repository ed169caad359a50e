package metricdata

import "strings"

// NameSanitize normalizes a joint name into a filesystem-safe file stem.
// Comparison operators become words, spaces and separators are removed, and
// path-hostile characters collapse to single underscores.
func NameSanitize(name string) string {
	r := strings.NewReplacer(
		">", "gt", "<", "lt", "=", "eq",
		" ", "", ",", "", ";", "", "'", "", `"`, "",
		".", "_", "/", "_", "\\", "_",
		"(", "", ")", "",
		":", "_", "%", "_", "#", "_", "*", "_", "?", "_", "|", "_",
	)
	out := r.Replace(name)
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return out
}
