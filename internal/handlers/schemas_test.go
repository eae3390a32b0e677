package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/aql-compiler/api/v1"
	"github.com/kubev2v/aql-compiler/internal/handlers"
	"github.com/kubev2v/aql-compiler/internal/models"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

var _ = Describe("Schema Handlers", func() {
	var (
		mockSchema *MockSchemaService
		router     *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockSchema = &MockSchemaService{}
		handler := handlers.New(&MockCompiler{}, mockSchema, &MockSavedQueryService{}, &MockCatalog{})
		router = gin.New()
		v1.RegisterHandlers(router, handler)
	})

	Describe("ListSchemas", func() {
		It("should return every namespace", func() {
			// Arrange
			mockSchema.ListResult = []models.SchemaNamespace{
				{Name: "axonius", Fields: []filter.FieldSchema{{Name: "specific_data.data.hostname", Type: filter.TypeString}}, UpdatedAt: time.Now()},
				{Name: "aws_adapter", UpdatedAt: time.Now()},
			}
			req := httptest.NewRequest(http.MethodGet, "/schemas", nil)
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.SchemaNamespaceList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Namespaces).To(HaveLen(2))
			Expect(response.Namespaces[0].Fields[0].Type).To(Equal(filter.TypeString))
		})

		It("should return 500 when the store fails", func() {
			mockSchema.ListError = errors.New("io error")
			req := httptest.NewRequest(http.MethodGet, "/schemas", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("GetSchema", func() {
		It("should return 404 for an unknown namespace", func() {
			// Arrange
			mockSchema.GetError = srvErrors.NewNamespaceNotFoundError("nope")
			req := httptest.NewRequest(http.MethodGet, "/schemas/nope", nil)
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusNotFound))
			var response map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response["error"]).To(Equal("schema namespace nope not found"))
		})

		It("should return the namespace", func() {
			mockSchema.GetResult = &models.SchemaNamespace{Name: "axonius"}
			req := httptest.NewRequest(http.MethodGet, "/schemas/axonius", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.SchemaNamespace
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Name).To(Equal("axonius"))
			Expect(response.Fields).To(BeEmpty())
		})
	})

	Describe("PutSchema", func() {
		// Given a field list for a namespace
		// When we put it
		// Then the service should receive the namespace named by the path
		It("should store the fields under the path namespace", func() {
			// Arrange
			body := `{"fields": [{"name": "specific_data.data.os.type", "type": "string", "enum": ["Windows", "Linux"]}]}`
			req := httptest.NewRequest(http.MethodPut, "/schemas/axonius", bytes.NewReader([]byte(body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockSchema.LastPut).NotTo(BeNil())
			Expect(mockSchema.LastPut.Name).To(Equal("axonius"))
			Expect(mockSchema.LastPut.Fields).To(HaveLen(1))
			Expect(mockSchema.LastPut.Fields[0].Enum).To(HaveLen(2))
		})

		It("should return 400 when the service rejects the fields", func() {
			mockSchema.PutError = srvErrors.NewValidationError("field 0 of axonius has no name")
			req := httptest.NewRequest(http.MethodPut, "/schemas/axonius", bytes.NewReader([]byte(`{"fields": [{"type": "string"}]}`)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 when fields are missing", func() {
			req := httptest.NewRequest(http.MethodPut, "/schemas/axonius", bytes.NewReader([]byte(`{}`)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(mockSchema.LastPut).To(BeNil())
		})
	})

	Describe("DeleteSchema", func() {
		It("should return 204", func() {
			req := httptest.NewRequest(http.MethodDelete, "/schemas/aws_adapter", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(mockSchema.DeleteCallCount).To(Equal(1))
		})

		It("should return 404 for an unknown namespace", func() {
			mockSchema.DeleteError = srvErrors.NewNamespaceNotFoundError("nope")
			req := httptest.NewRequest(http.MethodDelete, "/schemas/nope", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
