package fflag

// ParallelSpaceFetch lets the ClickUp client fetch spaces and lists
// concurrently. When disabled every sub-fetch runs sequentially.
const ParallelSpaceFetch = "parallel-space-fetch"

// IncludeTaskNames puts task names in the workspace summary sent to the
// model. When disabled only lists and counts are sent.
const IncludeTaskNames = "include-task-names"

var defaults = map[string]bool{
	ParallelSpaceFetch: true,
	IncludeTaskNames:   true,
}

// Default returns the value a flag takes when it is not configured.
func Default(flagName string) bool {
	return defaults[flagName]
}
