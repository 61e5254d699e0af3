package config

import "time"

// Server defaults
const (
	DefaultServerPort  = "8080"
	DefaultHTTPTimeout = 60 * time.Second
)

// Database defaults
const (
	DefaultMaxOpenConns     = 25
	DefaultMaxIdleConns     = 5
	DatabaseConnMaxLifetime = 5 * time.Minute
)

// Quiz serving defaults
const (
	DefaultQuestionPoolSize = 20
	DefaultLeaderboardLimit = 100
)

// Cache TTLs per key family
const (
	CacheTTLUserState    = 5 * time.Minute
	CacheTTLUserMetrics  = 2 * time.Minute
	CacheTTLQuestionPool = 10 * time.Minute
	CacheTTLLeaderboard  = 1 * time.Minute
)
