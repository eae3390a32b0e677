package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration

// Configuration is the full aqlc configuration. Every section is filled
// from flags, then AQLC_ prefixed env vars, then the defaults below.
type Configuration struct {
	Server   Server   `debugmap:"visible"`
	Store    Store    `debugmap:"visible"`
	Log      Log      `debugmap:"visible"`
	Compiler Compiler `debugmap:"visible"`
}

// Server serves HTTPS in prod mode, from TLSCertFile and TLSKeyFile when
// both are set and from a self-signed certificate otherwise.
type Server struct {
	HTTPPort    int    `default:"8000" validate:"min=1,max=65535" debugmap:"visible"`
	ServerMode  string `default:"dev" validate:"oneof=dev prod" debugmap:"visible"`
	TLSCertFile string `validate:"required_with=TLSKeyFile" debugmap:"visible"`
	TLSKeyFile  string `validate:"required_with=TLSCertFile" debugmap:"visible"`
}

type Store struct {
	// DBPath is the DuckDB file. ":memory:" keeps everything in memory.
	DBPath string `default:"aqlc.duckdb" validate:"required" debugmap:"visible"`
}

type Log struct {
	Level  string `default:"info" validate:"oneof=debug info warn error" debugmap:"visible"`
	Format string `default:"console" validate:"oneof=console json" debugmap:"visible"`
}

type Compiler struct {
	// SizeFields overrides the array fields compared by element count.
	// Empty means the built-in list.
	SizeFields []string `debugmap:"visible"`
	// CatalogFile overrides the embedded adapter catalog.
	CatalogFile string `debugmap:"visible"`
	// SchemaFile is loaded into the store on startup.
	SchemaFile string `debugmap:"visible"`
	// MaxExpandDepth bounds saved query macro expansion.
	MaxExpandDepth int `default:"8" validate:"min=1,max=64" debugmap:"visible"`
	// Workers recompile saved queries in parallel.
	Workers int `default:"4" validate:"min=1,max=64" debugmap:"visible"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and reports every failing field at once.
func (c *Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
