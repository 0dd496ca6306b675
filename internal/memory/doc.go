// Package memory keeps the banner cache inside its container memory budget.
//
// [ConfigureFromEnv] sets the Go memory limit from MEMORY_LIMIT and
// MEMORY_RATIO (or leaves an explicit GOMEMLIMIT alone). A [Monitor] then
// samples heap usage; when usage crosses CriticalWaterMark it pauses banner
// scans until usage falls back under HighWaterMark. The scanner calls
// [Monitor.WaitIfPaused] before converting each banner.
package memory
