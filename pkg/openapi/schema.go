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

package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var ErrOperationNotFound = errors.New("operation not found")

//go:embed users.yaml
var document []byte

//nolint:gochecknoglobals
var loadSchema = sync.OnceValues(func() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("loading users schema: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating users schema: %w", err)
	}

	return doc, nil
})

// Schema returns the parsed, validated users API document.
func Schema() (*openapi3.T, error) {
	return loadSchema()
}

// Operation looks up an operation by path (relative to the server) and method.
func Operation(path, method string) (*openapi3.Operation, error) {
	doc, err := Schema()
	if err != nil {
		return nil, err
	}

	item := doc.Paths.Value(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, method, path)
	}

	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, method, path)
	}

	return op, nil
}
