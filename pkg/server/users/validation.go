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
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
)

// validationError carries the status and message to return to the client.
type validationError struct {
	status  int
	message string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%d: %s", e.status, e.message)
}

// validateRequestBody checks the content type and the body against the
// operation's schema, returning the raw body for decoding.
func validateRequestBody(r *http.Request, op *openapi3.Operation) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	if len(body) == 0 {
		return nil, nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, &validationError{status: http.StatusUnsupportedMediaType, message: "Unsupported Media Type"}
	}

	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return body, nil
	}

	// openapi3filter consumes and restores the body itself.
	r.Body = io.NopCloser(bytes.NewReader(body))
	r.GetBody = nil

	input := &openapi3filter.RequestValidationInput{
		Request: r,
		Options: &openapi3filter.Options{
			SkipSettingDefaults: true,
		},
	}

	if err := openapi3filter.ValidateRequestBody(r.Context(), input, op.RequestBody.Value); err != nil {
		var rerr *openapi3filter.RequestError
		if errors.As(err, &rerr) {
			return nil, &validationError{status: http.StatusBadRequest, message: rerr.Error()}
		}

		return nil, fmt.Errorf("validating request body: %w", err)
	}

	return body, nil
}
