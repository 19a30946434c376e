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

package api

import (
	"fmt"
	"slices"
	"time"

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
	"github.com/tidwall/gjson"
)

func toResponse(actual any) (*Response, error) {
	resp, ok := actual.(*Response)
	if !ok || resp == nil {
		return nil, fmt.Errorf("expected a non-nil *api.Response, got:\n%s", format.Object(actual, 1))
	}

	return resp, nil
}

func describe(resp *Response) string {
	return fmt.Sprintf("%s %s -> %d (trace ID: %s)\nbody: %s", resp.Method, resp.URL, resp.StatusCode, resp.TraceID, format.Object(string(resp.Body), 1))
}

// HaveStatus succeeds when the response status is one of the given codes.
// Passing several codes documents that the service's behaviour is ambiguous.
func HaveStatus(codes ...int) types.GomegaMatcher {
	return &statusMatcher{codes: codes}
}

type statusMatcher struct {
	codes []int
}

func (m *statusMatcher) Match(actual any) (bool, error) {
	resp, err := toResponse(actual)
	if err != nil {
		return false, err
	}

	return slices.Contains(m.codes, resp.StatusCode), nil
}

func (m *statusMatcher) FailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected status in %v\n%s", m.codes, describe(resp))
}

func (m *statusMatcher) NegatedFailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected status not in %v\n%s", m.codes, describe(resp))
}

// MatchShape succeeds when the response body satisfies the shape contract.
func MatchShape(shape *Shape) types.GomegaMatcher {
	return &shapeMatcher{shape: shape}
}

type shapeMatcher struct {
	shape *Shape
	err   error
}

func (m *shapeMatcher) Match(actual any) (bool, error) {
	resp, err := toResponse(actual)
	if err != nil {
		return false, err
	}

	m.err = m.shape.Validate(resp.Body)

	return m.err == nil, nil
}

func (m *shapeMatcher) FailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected body to match shape %s: %v\n%s", m.shape.Name(), m.err, describe(resp))
}

func (m *shapeMatcher) NegatedFailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected body not to match shape %s\n%s", m.shape.Name(), describe(resp))
}

// HaveNonNullField succeeds when the gjson path exists and is not null.
func HaveNonNullField(path string) types.GomegaMatcher {
	return &fieldMatcher{path: path}
}

type fieldMatcher struct {
	path string
}

func (m *fieldMatcher) Match(actual any) (bool, error) {
	resp, err := toResponse(actual)
	if err != nil {
		return false, err
	}

	value := resp.Get(m.path)

	return value.Exists() && value.Type != gjson.Null, nil
}

func (m *fieldMatcher) FailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected field %q to be present and non-null\n%s", m.path, describe(resp))
}

func (m *fieldMatcher) NegatedFailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected field %q to be absent or null\n%s", m.path, describe(resp))
}

// RespondWithin succeeds when the measured round trip is below the ceiling.
func RespondWithin(ceiling time.Duration) types.GomegaMatcher {
	return &durationMatcher{ceiling: ceiling}
}

type durationMatcher struct {
	ceiling time.Duration
}

func (m *durationMatcher) Match(actual any) (bool, error) {
	resp, err := toResponse(actual)
	if err != nil {
		return false, err
	}

	return resp.Duration < m.ceiling, nil
}

func (m *durationMatcher) FailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected round trip below %s, took %s\n%s", m.ceiling, resp.Duration, describe(resp))
}

func (m *durationMatcher) NegatedFailureMessage(actual any) string {
	resp, _ := toResponse(actual)

	return fmt.Sprintf("Expected round trip of at least %s, took %s\n%s", m.ceiling, resp.Duration, describe(resp))
}
