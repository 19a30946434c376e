/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingConfiguration is returned when a required variable is unset.
	ErrMissingConfiguration = errors.New("missing required configuration")

	// ErrInvalidConfiguration is returned when a variable cannot be parsed.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

const (
	DefaultRequestTimeout      = 30 * time.Second
	DefaultResponseTimeCeiling = 5 * time.Second
	DefaultPageSize            = 6
	DefaultClientID            = "users-api-tests/1.0"
	DefaultAPIKeyHeader        = "x-api-key"
)

// TestConfig is the session configuration. It is resolved once per test
// process and must be treated as read-only by every test case.
type TestConfig struct {
	BaseURL             string
	APIKey              string
	APIKeyHeader        string
	ClientID            string
	RequestTimeout      time.Duration
	ResponseTimeCeiling time.Duration
	DefaultPageSize     int
	RateLimit           float64
	UseStubServer       bool
	JUnitReport         string
	LogRequests         bool
	LogResponses        bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing or malformed.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	return loadTestConfig(os.Getenv)
}

func loadTestConfig(getenv func(string) string) (*TestConfig, error) {
	var problems []string

	requestTimeout, err := getSecondsWithDefault(getenv, "TIMEOUT", DefaultRequestTimeout)
	if err != nil {
		problems = append(problems, err.Error())
	}

	ceiling, err := getSecondsWithDefault(getenv, "RESPONSE_TIME_CEILING", DefaultResponseTimeCeiling)
	if err != nil {
		problems = append(problems, err.Error())
	}

	pageSize, err := getIntWithDefault(getenv, "DEFAULT_PAGE_SIZE", DefaultPageSize)
	if err != nil {
		problems = append(problems, err.Error())
	}

	rateLimit, err := getFloatWithDefault(getenv, "RATE_LIMIT", 0)
	if err != nil {
		problems = append(problems, err.Error())
	}

	config := &TestConfig{
		BaseURL:             strings.TrimSuffix(getenv("BASE_URL"), "/"),
		APIKey:              getenv("API_KEY"),
		APIKeyHeader:        getStringWithDefault(getenv, "API_KEY_HEADER", DefaultAPIKeyHeader),
		ClientID:            getStringWithDefault(getenv, "CLIENT_ID", DefaultClientID),
		RequestTimeout:      requestTimeout,
		ResponseTimeCeiling: ceiling,
		DefaultPageSize:     pageSize,
		RateLimit:           rateLimit,
		UseStubServer:       getBoolWithDefault(getenv, "USE_STUB_SERVER", false),
		JUnitReport:         getenv("JUNIT_REPORT"),
		LogRequests:         getBoolWithDefault(getenv, "LOG_REQUESTS", false),
		LogResponses:        getBoolWithDefault(getenv, "LOG_RESPONSES", false),
	}

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		if len(problems) == 0 {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %s; %w", ErrInvalidConfiguration, strings.Join(problems, "; "), err)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
	}

	return config, nil
}

// WithBaseURL returns a copy of the configuration targeting another service.
// The receiver is left untouched.
func (c TestConfig) WithBaseURL(baseURL string) *TestConfig {
	c.BaseURL = strings.TrimSuffix(baseURL, "/")

	return &c
}

// getSecondsWithDefault accepts plain seconds ("5", "2.5") as well as Go
// durations ("750ms").
func getSecondsWithDefault(getenv func(string) string, key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return defaultValue, nil
	}

	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("%s must be positive, got %q", key, value)
		}

		return time.Duration(seconds * float64(time.Second)), nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is neither seconds nor a duration: %q", key, value)
	}

	if duration <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, value)
	}

	return duration, nil
}

func getIntWithDefault(getenv func(string) string, key string, defaultValue int) (int, error) {
	value := getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}

	return intValue, nil
}

func getFloatWithDefault(getenv func(string) string, key string, defaultValue float64) (float64, error) {
	value := getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil || floatValue < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, value)
	}

	return floatValue, nil
}

func getStringWithDefault(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(getenv func(string) string, key string, defaultValue bool) bool {
	value := getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		".env",
		"../.env",       // From test/api
		"../../.env",    // From test/api/suites
		"../../../.env", // From test/contracts/consumer/*
	}

	var found []string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				found = append(found, absPath)
			}
		}
	}

	if len(found) == 0 {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// godotenv never overrides variables that are already exported.
	if err := godotenv.Load(found...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env files %v: %v\n", found, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	// The stub server supplies its own address.
	if config.UseStubServer && config.BaseURL == "" {
		return nil
	}

	if config.BaseURL == "" {
		return fmt.Errorf("%w: BASE_URL. Please set it in the environment or add it to a .env file", ErrMissingConfiguration)
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: BASE_URL must be an absolute http(s) URL, got %q", ErrInvalidConfiguration, config.BaseURL)
	}

	return nil
}
