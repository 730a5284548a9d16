package cache

import (
	"strings"
	"time"
)

const (
	GlobalKeyPrefix = "quizai"

	// TopicsTTL bounds how stale the cached topic list may get.
	TopicsTTL = 5 * time.Minute
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// TopicsKey is the key of the cached topic list.
func TopicsKey() string {
	return GenerateCacheKey("quiz", "topics", "all")
}

// QuotaKey is the generation counter of userID for the window starting at
// windowStart.
func QuotaKey(userID string, windowStart time.Time) string {
	return GenerateCacheKey("generation", "quota", userID, windowStart.UTC().Format("20060102T1504"))
}
