// Package constants provides shared constants used throughout the dealsync codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to vendor APIs
	DefaultHTTPTimeout = 30 * time.Second

	// ConnectTimeout caps a single connect attempt against an external
	// system so a hung handshake cannot eat the run budget
	ConnectTimeout = 30 * time.Second

	// SyncTimeout is the default timeout for a full sync run
	SyncTimeout = 5 * time.Minute

	// NotifyTimeout is the timeout for sending a notification email
	NotifyTimeout = 30 * time.Second

	// ShutdownTimeout is how long the server waits for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like credentials (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// HistoryLimit is the number of sync results retained in memory
	HistoryLimit = 50

	// SheetColumnCount is the width of the merged-row spreadsheet table
	SheetColumnCount = 10

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100

	// EventBufferSize is the per-subscriber buffer for the results stream;
	// subscribers that fall this far behind are dropped
	EventBufferSize = 8
)

// Server constants
const (
	// DefaultServerHost is the default bind address for the HTTP API
	DefaultServerHost = "0.0.0.0"

	// DefaultServerPort is the default port for the HTTP API
	DefaultServerPort = 8000

	// ServerReadTimeout is the maximum duration for reading a request
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Sync runs execute inside POST /api/sync, so this must cover SyncTimeout.
	ServerWriteTimeout = 6 * time.Minute

	// ServerIdleTimeout is the keep-alive idle timeout
	ServerIdleTimeout = 60 * time.Second
)

// Default values
const (
	// DefaultSchedule is the default cron expression for scheduled syncs (07:00 daily)
	DefaultSchedule = "0 7 * * *"

	// DefaultSheetName is the spreadsheet tab written by a sync
	DefaultSheetName = "Master Data"

	// DefaultSheetRange is the column span cleared and rewritten each run
	DefaultSheetRange = "A:Z"

	// DefaultSMTPHost is the default SMTP relay
	DefaultSMTPHost = "smtp.gmail.com"

	// DefaultSMTPPort is the default SMTP submission port (STARTTLS)
	DefaultSMTPPort = 587

	// DefaultSalesforceDomain is the default Salesforce login domain
	DefaultSalesforceDomain = "login"
)

// Format constants
const (
	// TimeFormatSheet is the timestamp format written to the Last Synced column
	TimeFormatSheet = "2006-01-02 15:04:05"

	// TimeFormatEmail is the timestamp format used in report emails
	TimeFormatEmail = "2006-01-02 15:04:05 MST"
)
