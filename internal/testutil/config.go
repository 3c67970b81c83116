package testutil

import (
	"os"
	"strconv"
)

const (
	// Test key environment variables
	TestAPIKey    = "TEST_FREESTUFF_API_KEY"
	TestAPIDomain = "TEST_FREESTUFF_API_DOMAIN"

	// Default test values when environment variables are not set
	DefaultTestKey    = "test-key"
	DefaultTestDomain = "https://api.freestuffbot.xyz"
)

// GetTestValue returns a value from environment variable or default
func GetTestValue(envVar, defaultValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

// GetTestAPIKey returns the API key tests authenticate with
func GetTestAPIKey() string {
	return GetTestValue(TestAPIKey, DefaultTestKey)
}

// GetTestAPIDomain returns the API domain for live tests
func GetTestAPIDomain() string {
	return GetTestValue(TestAPIDomain, DefaultTestDomain)
}

// LiveTestsEnabled reports whether tests may call the real API. It needs both
// FREESTUFF_LIVE_TESTS=true and a real key.
func LiveTestsEnabled() bool {
	enabled, _ := strconv.ParseBool(os.Getenv("FREESTUFF_LIVE_TESTS"))
	return enabled && os.Getenv(TestAPIKey) != ""
}
