package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	apihandler "github.com/mlukasik/swift-registry/internal/api/handler"
	"github.com/mlukasik/swift-registry/internal/api/router"
	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
	"github.com/mlukasik/swift-registry/tests/mocks"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

var _ = Describe("SwiftAPIApp", func() {
	var mockSvc *mocks.MockSwiftService

	newApp := func() *fiber.App {
		h := apihandler.NewSwiftHandler(mockSvc, zap.NewNop())
		return router.NewSwiftAPIApp(h, zap.NewNop())
	}

	BeforeEach(func() {
		mockSvc = &mocks.MockSwiftService{}
	})

	It("should route /count to the count handler, not the code lookup", func() {
		mockSvc.CountFunc = func(_ context.Context, _ repository.Filter) (int64, error) {
			return 3, nil
		}
		mockSvc.GetFunc = func(_ context.Context, code string) (*model.SwiftRecord, error) {
			Fail("code lookup should not handle /count")
			return nil, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/swift-code/count", nil)
		resp, err := newApp().Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var out map[string]int64
		Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
		Expect(out["count"]).To(Equal(int64(3)))
	})

	It("should route code lookups through the parameter route", func() {
		mockSvc.GetFunc = func(_ context.Context, code string) (*model.SwiftRecord, error) {
			Expect(code).To(Equal("DEUTDEFFXXX"))
			return &model.SwiftRecord{SwiftCode: "DEUTDEFFXXX", IsHeadquarter: true}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/swift-code/DEUTDEFFXXX", nil)
		resp, err := newApp().Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("should return 404 for unknown paths", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v2/other", nil)
		resp, err := newApp().Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
