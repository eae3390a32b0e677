package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/aql-compiler/internal/config"
)

var _ = Describe("Configuration", func() {
	It("should apply struct defaults", func() {
		cfg := config.NewConfigurationWithOptionsAndDefaults()

		Expect(cfg.Server.HTTPPort).To(Equal(8000))
		Expect(cfg.Server.ServerMode).To(Equal("dev"))
		Expect(cfg.Store.DBPath).To(Equal("aqlc.duckdb"))
		Expect(cfg.Log.Level).To(Equal("info"))
		Expect(cfg.Log.Format).To(Equal("console"))
		Expect(cfg.Compiler.MaxExpandDepth).To(Equal(8))
		Expect(cfg.Compiler.Workers).To(Equal(4))
		Expect(cfg.Compiler.SizeFields).To(BeEmpty())
	})

	It("should let options override defaults", func() {
		cfg := config.NewConfigurationWithOptionsAndDefaults(
			config.WithStore(config.Store{DBPath: ":memory:"}),
		)

		Expect(cfg.Store.DBPath).To(Equal(":memory:"))
		Expect(cfg.Server.HTTPPort).To(Equal(8000))
	})

	It("should copy every section through ToOption", func() {
		src := config.NewConfigurationWithOptionsAndDefaults()
		src.Compiler.SizeFields = []string{"ips"}

		dst := config.NewConfigurationWithOptions(src.ToOption())

		Expect(dst.Compiler.SizeFields).To(Equal([]string{"ips"}))
		Expect(dst.Server).To(Equal(src.Server))
	})

	Describe("Validate", func() {
		type testCase struct {
			mutate  func(c *config.Configuration)
			message string
		}

		It("should accept the defaults", func() {
			Expect(config.NewConfigurationWithOptionsAndDefaults().Validate()).To(Succeed())
		})

		It("should report the failing field", func() {
			tests := []testCase{
				{mutate: func(c *config.Configuration) { c.Server.HTTPPort = 0 }, message: "Server.HTTPPort"},
				{mutate: func(c *config.Configuration) { c.Server.HTTPPort = 70000 }, message: "Server.HTTPPort"},
				{mutate: func(c *config.Configuration) { c.Server.ServerMode = "staging" }, message: "Server.ServerMode"},
				{mutate: func(c *config.Configuration) { c.Server.TLSCertFile = "tls.crt" }, message: "Server.TLSKeyFile"},
				{mutate: func(c *config.Configuration) { c.Store.DBPath = "" }, message: "Store.DBPath"},
				{mutate: func(c *config.Configuration) { c.Log.Format = "xml" }, message: "Log.Format"},
				{mutate: func(c *config.Configuration) { c.Compiler.MaxExpandDepth = 0 }, message: "Compiler.MaxExpandDepth"},
				{mutate: func(c *config.Configuration) { c.Compiler.Workers = 0 }, message: "Compiler.Workers"},
			}

			for _, test := range tests {
				test := test
				cfg := config.NewConfigurationWithOptionsAndDefaults()
				test.mutate(cfg)

				err := cfg.Validate()

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(test.message))
			}
		})
	})
})
