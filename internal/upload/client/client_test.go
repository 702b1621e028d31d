package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/upload/client"
)

func TestClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Client Suite")
}

var _ = Describe("HTTPClient", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	record := func() model.SwiftRecord {
		return model.SwiftRecord{
			SwiftCode:     "DEUTDEFFXXX",
			BankName:      "DEUTSCHE BANK AG",
			CountryISO2:   "DE",
			CountryName:   "GERMANY",
			IsHeadquarter: true,
		}
	}

	newClient := func(url string) *client.HTTPClient {
		return client.New(url, 5*time.Second, zap.NewNop())
	}

	Describe("Healthy", func() {
		It("should report healthy when the list endpoint answers 200", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/api/v1/swift-code/"))
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			Expect(newClient(srv.URL).Healthy(ctx)).To(BeTrue())
		})

		It("should report unhealthy on a non-OK status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			Expect(newClient(srv.URL).Healthy(ctx)).To(BeFalse())
		})

		It("should report unhealthy when the server is unreachable", func() {
			Expect(newClient("http://127.0.0.1:1").Healthy(ctx)).To(BeFalse())
		})
	})

	Describe("Create", func() {
		It("should classify 201 as created and send the record as JSON", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var rec model.SwiftRecord
				Expect(json.NewDecoder(r.Body).Decode(&rec)).To(Succeed())
				Expect(rec.SwiftCode).To(Equal("DEUTDEFFXXX"))

				w.WriteHeader(http.StatusCreated)
			}))
			defer srv.Close()

			res := newClient(srv.URL).Create(ctx, record())
			Expect(res.Status).To(Equal(client.StatusCreated))
			Expect(res.Detail).To(BeEmpty())
		})

		It("should classify 409 as a conflict naming the code", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
			}))
			defer srv.Close()

			res := newClient(srv.URL).Create(ctx, record())
			Expect(res.Status).To(Equal(client.StatusConflict))
			Expect(res.Detail).To(ContainSubstring("DEUTDEFFXXX"))
		})

		It("should classify any other status as failed with the status code", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"message":"invalid country code"}`))
			}))
			defer srv.Close()

			res := newClient(srv.URL).Create(ctx, record())
			Expect(res.Status).To(Equal(client.StatusFailed))
			Expect(res.Detail).To(ContainSubstring("422"))
			Expect(res.Detail).To(ContainSubstring("invalid country code"))
		})

		It("should classify transport errors as failed", func() {
			res := newClient("http://127.0.0.1:1").Create(ctx, record())
			Expect(res.Status).To(Equal(client.StatusFailed))
			Expect(res.Detail).To(ContainSubstring("error communicating with API"))
		})
	})
})
