// Package config resolves CLI connection settings from an HCL profile file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/invoiced/invoiced-go/pkg/client"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvAPIKey   = "INVOICED_API_KEY"
	EnvSandbox  = "INVOICED_SANDBOX"
	EnvSSOKey   = "INVOICED_SSO_KEY"
	EnvEndpoint = "INVOICED_ENDPOINT"
)

// DefaultFilename is the profile file looked up in the home directory.
const DefaultFilename = ".invoiced.hcl"

// Profile holds connection settings.
//
// Example profile:
//
//	api_key  = "sk_test_..."
//	sandbox  = true
//	sso_key  = "8baa4dbc..."
//	timeout  = "45s"
type Profile struct {
	APIKey   string `hcl:"api_key,optional" json:"api_key"`
	Sandbox  bool   `hcl:"sandbox,optional" json:"sandbox"`
	SSOKey   string `hcl:"sso_key,optional" json:"sso_key"`
	Endpoint string `hcl:"endpoint,optional" json:"endpoint"`
	Timeout  string `hcl:"timeout,optional" json:"timeout"`
}

// DefaultPath returns ~/.invoiced.hcl, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFilename)
}

// LoadFile decodes a profile from an HCL file. A missing file is an error
// unless optional is set, in which case an empty profile is returned.
func LoadFile(path string, optional bool) (*Profile, error) {
	var p Profile
	if path == "" {
		if optional {
			return &p, nil
		}
		return nil, errors.New("configuration file path is required")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if optional {
			return &p, nil
		}
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	if err := hclsimple.DecodeFile(path, nil, &p); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	return &p, nil
}

// ApplyEnv overlays values present in the environment onto the profile.
func (p *Profile) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		p.APIKey = v
	}
	if v, ok := lookup(EnvSSOKey); ok && v != "" {
		p.SSOKey = v
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		p.Endpoint = v
	}
	if v, ok := lookup(EnvSandbox); ok && v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSandbox, err)
		}
		p.Sandbox = sandbox
	}
	return nil
}

// Validate checks the profile is complete enough to build a client.
func (p *Profile) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.APIKey, validation.Required.Error("is required (set api_key, "+EnvAPIKey+" or --api-key)")),
		validation.Field(&p.Endpoint, is.URL),
		validation.Field(&p.Timeout, validation.By(validDuration)),
	)
}

func validDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 30s")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// NewClient validates the profile and builds an API client from it.
func (p *Profile) NewClient(logger hclog.Logger) (*client.Client, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []client.Option{
		client.WithSandbox(p.Sandbox),
		client.WithLogger(logger),
	}
	if p.SSOKey != "" {
		opts = append(opts, client.WithSSOKey(p.SSOKey))
	}
	if p.Endpoint != "" {
		opts = append(opts, client.WithEndpoint(p.Endpoint))
	}
	if p.Timeout != "" {
		d, _ := time.ParseDuration(p.Timeout)
		opts = append(opts, client.WithTimeout(d))
	}
	return client.New(p.APIKey, opts...)
}
