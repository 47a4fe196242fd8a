package tasks

import "time"

// Config holds configuration for the task queue.
type Config struct {
	// Workers is the number of concurrent workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite removes finished tasks. Default: 1h
	CleanupInterval time.Duration

	// DownloadRetention is how long finished download records and cached
	// archives are kept. Default: 7 days
	DownloadRetention time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:           2,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		DownloadRetention: 7 * 24 * time.Hour,
	}
}
