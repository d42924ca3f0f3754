package utils

// IsValidInterval reports whether the interval names a ClickHouse
// toStartOf* bucketing function suffix accepted by the stats queries.
func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

