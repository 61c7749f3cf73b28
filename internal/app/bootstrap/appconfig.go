// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to this service lives: the
// MongoDB connection, the document object store, audit logging policy,
// and bootstrap credentials.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Document object storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./documents")
	StorageLocalURL  string // URL prefix for locally stored objects

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "documents/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogDocument string // Folder and file events (create, rename, move, delete, upload, download)
	AuditLogSecurity string // Rejected uploads and denied downloads
	AuditLogAdmin    string // Facility administration events

	// Bootstrap API key seeding
	// When set and no active API key exists, a key with this name is
	// created at startup and printed to the log exactly once.
	SeedAPIKeyName string

	// Initial facility seeding
	// When both are set and no facility carries the code yet, a facility
	// is registered at startup so a fresh deployment has somewhere to
	// hang documents.
	SeedFacilityName string
	SeedFacilityCode string

	// Metrics endpoint toggle
	MetricsEnabled bool
}
