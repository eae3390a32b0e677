package services_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/internal/services"
	"github.com/kubev2v/aql-compiler/internal/store"
	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

var _ = Describe("CompilerService", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		st       *store.Store
		compiler *services.CompilerService
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, st = newTestStore(ctx)
		compiler = services.NewCompilerService(st)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	saveQuery := func(id string, f string) {
		Expect(st.SavedQuery().Save(ctx, &models.SavedQuery{ID: id, Name: id, Namespace: "devices", Filter: f})).To(Succeed())
	}

	Context("Compile", func() {
		// Given the general namespace in the store
		// When we compile two expressions
		// Then the registry is loaded lazily and the filter joins them
		It("should compile against the stored registry", func() {
			// Act
			res, err := compiler.Compile(ctx, services.CompileRequest{
				Expressions: []filter.Expression{windows, admin},
				Recompile:   true,
			})

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Errors).To(BeEmpty())
			Expect(res.Query.ResultFilter).To(Equal(`(os.type == "Windows") and (is_admin == true)`))
			Expect(res.Expanded).To(BeEmpty())
		})

		// Given an expression without its value
		// When we compile it
		// Then the validation error is reported in the result, not as a failure
		It("should report validation errors in the result", func() {
			empty := filter.Expression{ID: "1", Field: "os.type", CompOp: filter.OpEquals}

			res, err := compiler.Compile(ctx, services.CompileRequest{Expressions: []filter.Expression{empty}})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Errors).To(HaveLen(1))
			Expect(srvErrors.IsValidationError(res.Errors[0])).To(BeTrue())
			Expect(res.Errors[0].Error()).To(Equal("A value to compare is needed to add expression to the filter"))
		})

		// Given a session that compiled a node
		// When the node changes but recompile is off
		// Then the cached fragment is reused until the registry is reloaded
		It("should reuse session fragments until reload", func() {
			_, err := compiler.Compile(ctx, services.CompileRequest{Session: "s1", Expressions: []filter.Expression{windows}})
			Expect(err).NotTo(HaveOccurred())

			linux := windows
			linux.Value = "Linux"
			res, err := compiler.Compile(ctx, services.CompileRequest{Session: "s1", Expressions: []filter.Expression{linux}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Query.ResultFilter).To(Equal(`(os.type == "Windows")`))

			fresh, err := compiler.Compile(ctx, services.CompileRequest{Session: "s1", Expressions: []filter.Expression{linux}, Recompile: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.Query.ResultFilter).To(Equal(`(os.type == "Linux")`))

			other, err := compiler.Compile(ctx, services.CompileRequest{Session: "s2", Expressions: []filter.Expression{linux}})
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Query.ResultFilter).To(Equal(`(os.type == "Linux")`))

			_, err = compiler.Reload(ctx)
			Expect(err).NotTo(HaveOccurred())
			res, err = compiler.Compile(ctx, services.CompileRequest{Session: "s1", Expressions: []filter.Expression{linux}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Query.ResultFilter).To(Equal(`(os.type == "Linux")`))
		})

		It("should expand saved query references on request", func() {
			saveQuery("q1", `(os.type == "Windows")`)

			res, err := compiler.Compile(ctx, services.CompileRequest{
				Expressions: []filter.Expression{savedQueryRef("q1"), admin},
				Expand:      true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Query.ResultFilter).To(Equal(`{{QueryID=q1}} and (is_admin == true)`))
			Expect(res.Expanded).To(Equal(`((os.type == "Windows")) and (is_admin == true)`))
		})
	})

	Context("Expand", func() {
		It("should leave filters without references unchanged", func() {
			out, err := compiler.Expand(ctx, `(is_admin == true)`)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`(is_admin == true)`))
		})

		It("should resolve nested references and drop the outdated marker", func() {
			saveQuery("inner", `INCLUDE OUTDATED: (os.type == "Windows")`)
			saveQuery("outer", `{{QueryID=inner}} and (is_admin == true)`)

			out, err := compiler.Expand(ctx, `not {{QueryID=outer}}`)

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(`not (((os.type == "Windows")) and (is_admin == true))`))
		})

		It("should reject unknown references", func() {
			_, err := compiler.Expand(ctx, `{{QueryID=missing}}`)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsInvalidQueryError(err)).To(BeTrue())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		It("should detect cycles", func() {
			saveQuery("a", `{{QueryID=b}}`)
			saveQuery("b", `(is_admin == true) or {{QueryID=a}}`)

			_, err := compiler.Expand(ctx, `{{QueryID=a}}`)

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsInvalidQueryError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("references itself"))
		})

		It("should stop at the maximum depth", func() {
			compiler = services.NewCompilerService(st, services.WithMaxExpandDepth(1))
			saveQuery("leaf", `(is_admin == true)`)
			saveQuery("mid", `{{QueryID=leaf}}`)

			_, err := compiler.Expand(ctx, `{{QueryID=leaf}}`)
			Expect(err).NotTo(HaveOccurred())

			_, err = compiler.Expand(ctx, `{{QueryID=mid}}`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("nested deeper than 1"))
		})
	})
})
