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
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/users-api-tests/test/api"
)

// expectCreated checks the common contract of a successful create.
func expectCreated(resp *api.Response) {
	GinkgoHelper()

	Expect(resp).To(api.HaveStatus(http.StatusCreated))
	Expect(resp).To(api.MatchShape(api.CreatedUserShape))
	Expect(resp).To(api.HaveNonNullField("id"))
	Expect(resp).To(api.HaveNonNullField("createdAt"))
}

var _ = Describe("Create User", Label("api", "users"), func() {
	Context("When creating a user", func() {
		Describe("Given a name and a job", func() {
			It("should echo the user with an identifier", Label("smoke"), func() {
				resp, err := client.CreateUser(ctx, api.NewUserPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				expectCreated(resp)
				Expect(resp.Get("name").String()).To(Equal(api.DefaultName))
				Expect(resp.Get("job").String()).To(Equal(api.DefaultJob))
			})

			DescribeTable("should accept different users",
				func(name, job string) {
					resp, err := client.CreateUser(ctx, api.NewUserPayload().WithName(name).WithJob(job).Build())
					Expect(err).NotTo(HaveOccurred())

					expectCreated(resp)
					Expect(resp.Get("name").String()).To(Equal(name))
					Expect(resp.Get("job").String()).To(Equal(job))
				},
				Entry("developer", "john", "developer"),
				Entry("designer", "jane", "designer"),
				Entry("tester", "test_user", "tester"),
				Entry("administrator", "admin", "administrator"),
			)

			It("should assign distinct identifiers", func() {
				first, err := client.CreateUser(ctx, api.NewUserPayload().WithName(api.GenerateTestName("first")).Build())
				Expect(err).NotTo(HaveOccurred())

				second, err := client.CreateUser(ctx, api.NewUserPayload().WithName(api.GenerateTestName("second")).Build())
				Expect(err).NotTo(HaveOccurred())

				expectCreated(first)
				expectCreated(second)
				Expect(second.Get("id").String()).NotTo(Equal(first.Get("id").String()))
			})
		})

		Describe("Given an incomplete payload", Label("error_handling"), func() {
			DescribeTable("should still create the user",
				func(payload map[string]any, echoed map[string]string) {
					resp, err := client.CreateUser(ctx, payload)
					Expect(err).NotTo(HaveOccurred())

					expectCreated(resp)

					for field, value := range echoed {
						Expect(resp.Get(field).String()).To(Equal(value), field)
					}
				},
				Entry("missing name", api.NewUserPayload().Without("name").Build(), map[string]string{"job": api.DefaultJob}),
				Entry("missing job", api.NewUserPayload().Without("job").Build(), map[string]string{"name": api.DefaultName}),
				Entry("empty payload", api.NewUserPayload().Empty().Build(), map[string]string(nil)),
			)
		})

		Describe("Given boundary values", func() {
			DescribeTable("should echo the submitted values",
				func(name, job string) {
					resp, err := client.CreateUser(ctx, api.NewUserPayload().WithName(name).WithJob(job).Build())
					Expect(err).NotTo(HaveOccurred())

					expectCreated(resp)
					Expect(resp.Get("name").Exists()).To(BeTrue())
					Expect(resp.Get("name").String()).To(Equal(name))
					Expect(resp.Get("job").Exists()).To(BeTrue())
					Expect(resp.Get("job").String()).To(Equal(job))
				},
				Entry("empty name", "", api.DefaultJob),
				Entry("empty job", api.DefaultName, ""),
				Entry("1000 character name", api.LongString(1000), api.DefaultJob),
				Entry("1000 character job", api.DefaultName, api.LongString(1000)),
			)
		})

		Describe("Given a non-JSON content type", Label("error_handling"), func() {
			It("should not fail the request outright", func() {
				body, err := json.Marshal(api.NewUserPayload().Build())
				Expect(err).NotTo(HaveOccurred())

				resp, err := client.CreateUserRaw(ctx, "text/plain", body)
				Expect(err).NotTo(HaveOccurred())

				// The service may reject, ignore or demand authentication.
				Expect(resp).To(api.HaveStatus(
					http.StatusBadRequest,
					http.StatusUnsupportedMediaType,
					http.StatusCreated,
					http.StatusUnauthorized,
				))
			})
		})
	})
})
