package models

// Config holds the server configuration parameters
type Config struct {
	// Cluster API connection settings
	APIToken string // token presented to the cluster API on every transport
	BaseURL  string // cluster management API URL, e.g. https://cluster.example:8080

	// Rate limiting configuration
	RequestRateLimit float64 // Maximum requests per second
	RequestRateBurst int     // Maximum burst capacity for requests

	// HTTPAddr switches the server from stdio to streamable HTTP when set,
	// e.g. ":8080"
	HTTPAddr string

	// Debug enables wire-level request/response logging
	Debug bool
}
