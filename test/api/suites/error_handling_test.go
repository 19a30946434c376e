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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/users-api-tests/test/api"

	"k8s.io/utils/ptr"
)

var _ = Describe("Error Handling", Label("api", "error_handling"), func() {
	Context("When requesting a resource the service does not serve", func() {
		It("should return not found for an invalid endpoint", func() {
			resp, err := client.Get(ctx, client.Endpoints().Invalid())
			Expect(err).NotTo(HaveOccurred())

			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
		})

		It("should return an empty page beyond the last page", func() {
			list, err := client.ListUsersPage(ctx, api.ListUsersParams{Page: ptr.To(999)})
			Expect(err).NotTo(HaveOccurred())

			Expect(list.Page).To(Equal(999))
			Expect(list.Data).To(BeEmpty())
		})
	})

	Context("When the response is unsuccessful", func() {
		It("should correlate the failure with a trace ID", func() {
			resp, err := client.GetUser(ctx, 23)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp).To(api.HaveStatus(http.StatusNotFound))
			Expect(resp.TraceID).To(HaveLen(32))
		})

		It("should surface an unexpected status from a typed call", func() {
			_, err := client.LoginToken(ctx, api.ValidEmail, "")
			Expect(err).To(MatchError(api.ErrUnexpectedStatus))
		})
	})
})
