package api

// GJSON paths into backend payloads. Keys are matched literally.
const (
	// PathWrapped holds the payload when the backend wraps it as {"data": {...}}
	PathWrapped = "data"

	// Chat payload fields (relative to the unwrapped payload)
	PathOutput    = "output"
	PathTableData = "table_data"
	PathGeoData   = "geo_data"
	PathSQLQuery  = "sql_query"

	// Health payload fields
	PathHealthStatus  = "status"
	PathHealthMessage = "message"
)

// maxErrorBody bounds how much of a failed response body is kept for diagnostics
const maxErrorBody = 4096

// maxResponseBody bounds a successful response body
const maxResponseBody = 32 << 20
