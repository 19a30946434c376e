/*
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

package users

import (
	"time"

	"github.com/spf13/pflag"
)

// DefaultPageSize is the page size used when per_page is omitted or not positive.
const DefaultPageSize = 6

// MaxPageSize caps per_page.
const MaxPageSize = 100

type Options struct {
	// APIKey, when set, must be presented in APIKeyHeader on every request.
	APIKey string

	// APIKeyHeader names the header carrying the key.
	APIKeyHeader string

	// PageSize is the default page size.
	PageSize int

	// Latency is added to every response.
	Latency time.Duration
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.APIKey, "api-key", "", "API key required on every request, empty disables the check")
	f.StringVar(&o.APIKeyHeader, "api-key-header", "x-api-key", "Header carrying the API key")
	f.IntVar(&o.PageSize, "default-page-size", DefaultPageSize, "Page size used when per_page is omitted or zero")
	f.DurationVar(&o.Latency, "latency", 0, "Artificial latency added to every response")
}

func (o *Options) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}

	return o.PageSize
}

func (o *Options) apiKeyHeader() string {
	if o.APIKeyHeader == "" {
		return "x-api-key"
	}

	return o.APIKeyHeader
}
