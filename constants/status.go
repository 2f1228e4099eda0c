package constants

// DocStatus is the canonical status for rows in documents.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusExtracted   DocStatus = "EXTRACTED"   // real text recovered
	DocStatusPlaceholder DocStatus = "PLACEHOLDER" // only a placeholder could be produced
)

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusOK      JobStatus = "OK"
	JobStatusFailed  JobStatus = "FAILED"
)
