package domain

// CacheStats summarises cache contents for the maintenance surface.
type CacheStats struct {
	// Count is the number of live entries.
	Count int64

	// TotalSizeMB is the total content size in megabytes, rounded to
	// two decimals.
	TotalSizeMB float64

	// OldestAgeDays is the age of the oldest entry in days, rounded to
	// one decimal, or nil when the cache is empty.
	OldestAgeDays *float64
}
