package common

const (
	// AppName is the name of the application
	AppName = "recruiter-scraper"

	// RunStreamName is the JetStream stream holding run lifecycle events
	RunStreamName = "SCRAPE_RUNS"
	// RunSubjectPrefix prefixes run events, the run status is appended
	RunSubjectPrefix = "scrape.runs"

	// RunLockKeyPrefix prefixes the redis key guarding one platform run at a time
	RunLockKeyPrefix = "scrape:run:"

	// ArchiveObjectPrefix is the GCS folder for raw fetched pages
	ArchiveObjectPrefix = "raw-pages"
)
