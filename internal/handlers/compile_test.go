package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/handlers"
	"github.com/kubev2v/aql-compiler/internal/services"
	"github.com/kubev2v/aql-compiler/pkg/adapters"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

var _ = Describe("Compile Handlers", func() {
	var (
		mockCompiler *MockCompiler
		mockCatalog  *MockCatalog
		router       *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockCompiler = &MockCompiler{}
		mockCatalog = &MockCatalog{}
		handler := handlers.New(mockCompiler, &MockSchemaService{}, &MockSavedQueryService{}, mockCatalog)
		router = gin.New()
		v1.RegisterHandlers(router, handler)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/queries/compile", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("CompileQuery", func() {
		// Given a valid compile request with options
		// When we post it
		// Then the options should reach the compiler and the filter be returned
		It("should forward the request and return the filter", func() {
			// Arrange
			mockCompiler.CompileResult = services.CompileResult{
				Query: filter.CompiledQuery{
					ResultFilter:          `(specific_data.data.hostname == regex("a", "i"))`,
					OnlyExpressionsFilter: `(specific_data.data.hostname == regex("a", "i"))`,
				},
			}
			body := `{"session": "s1", "recompile": true, "meta": {"uniqueAdapters": true},
				"expressions": [{"field": "specific_data.data.hostname", "compOp": "contains", "value": "a"}]}`

			// Act
			w := post(body)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockCompiler.CompileCallCount).To(Equal(1))
			Expect(mockCompiler.LastRequest.Session).To(Equal("s1"))
			Expect(mockCompiler.LastRequest.Recompile).To(BeTrue())
			Expect(mockCompiler.LastRequest.Expand).To(BeFalse())
			Expect(mockCompiler.LastRequest.Meta.UniqueAdapters).To(BeTrue())
			Expect(mockCompiler.LastRequest.Expressions).To(HaveLen(1))
			Expect(mockCompiler.LastRequest.Expressions[0].CompOp).To(Equal(filter.OpContains))

			var response v1.CompileResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.ResultFilter).To(ContainSubstring("hostname"))
			Expect(response.Error).To(BeNil())
		})

		It("should recompile unless the request turns it off", func() {
			type testCase struct {
				name      string
				body      string
				recompile bool
			}

			tests := []testCase{
				{
					name:      "absent",
					body:      `{"session": "s1", "expressions": [{"field": "os.type", "compOp": "equals", "value": "Linux"}]}`,
					recompile: true,
				},
				{
					name:      "explicit false",
					body:      `{"session": "s1", "recompile": false, "expressions": []}`,
					recompile: false,
				},
			}

			for _, test := range tests {
				test := test
				By(test.name)
				w := post(test.body)
				Expect(w.Code).To(Equal(http.StatusOK))
				Expect(mockCompiler.LastRequest.Recompile).To(Equal(test.recompile))
			}
		})

		// Given a compile pass that collected validation errors
		// When we post the request
		// Then it should still answer 200 with the errors in the body
		It("should report validation errors with 200 OK", func() {
			// Arrange
			mockCompiler.CompileResult = services.CompileResult{
				Errors: []error{srvErrors.NewValidationError("Missing right bracket")},
			}

			// Act
			w := post(`{"expressions": [{"field": "x", "compOp": "equals", "value": "1", "leftBracket": true}]}`)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.CompileResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Error).NotTo(BeNil())
			Expect(*response.Error).To(Equal("Missing right bracket"))
			Expect(*response.Errors).To(HaveLen(1))
		})

		// Given a body without expressions
		// When we post it
		// Then it should be rejected before reaching the compiler
		It("should return 400 when expressions are missing", func() {
			// Act
			w := post(`{"session": "s1"}`)

			// Assert
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockCompiler.CompileCallCount).To(Equal(0))
		})

		It("should return 400 for invalid JSON", func() {
			w := post("not json")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		// Given an expansion that hits an unknown saved query
		// When we post the request
		// Then it should return 400 rather than 404
		It("should return 400 for an unresolvable reference", func() {
			// Arrange
			mockCompiler.CompileError = srvErrors.NewInvalidQueryError(srvErrors.NewSavedQueryNotFoundError("gone"))

			// Act
			w := post(`{"expand": true, "expressions": [{"field": "saved_query", "value": "gone"}]}`)

			// Assert
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockCompiler.LastRequest.Expand).To(BeTrue())
			var response map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response["error"]).To(ContainSubstring("gone"))
		})

		It("should return 500 with a generic message on store failure", func() {
			mockCompiler.CompileError = errors.New("database is locked")

			w := post(`{"expressions": []}`)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			var response map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response["error"]).To(Equal("failed to compile query"))
		})
	})

	Describe("GetOperators", func() {
		// Given a date-time field schema
		// When we request its operators
		// Then the date operators should be listed in display order
		It("should list operators for the field schema", func() {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/operators?type=string&format=date-time", nil)
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.OperatorList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			names := make([]string, 0, len(response.Operators))
			for _, op := range response.Operators {
				names = append(names, op.Name)
			}
			Expect(names).To(ContainElements(filter.OpDays, filter.OpHours, filter.OpExists))
		})

		It("should return 400 without a type", func() {
			req := httptest.NewRequest(http.MethodGet, "/operators", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should accept a comma separated enum", func() {
			req := httptest.NewRequest(http.MethodGet, "/operators?type=string&enum=Windows,Linux", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.OperatorList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Operators).To(HaveLen(3))
		})
	})

	Describe("ListAdapters", func() {
		It("should return the catalog", func() {
			// Arrange
			mockCatalog.EntriesResult = []adapters.Adapter{
				{Name: "aws_adapter", Title: "Amazon Web Services (AWS)"},
				{Name: "esx_adapter", Title: "VMware ESXi"},
			}
			req := httptest.NewRequest(http.MethodGet, "/adapters", nil)
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.AdapterList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Adapters).To(HaveLen(2))
			Expect(response.Adapters[1].Name).To(Equal("esx_adapter"))
		})
	})

	Describe("GetHealth", func() {
		It("should return ok", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"status":"ok"`))
		})
	})
})
