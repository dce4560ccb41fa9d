// Package main provides a CLI for the Invoiced API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/invoiced/invoiced-go/internal/config"
	"github.com/invoiced/invoiced-go/pkg/client"
)

var (
	// Global flags
	configPath string
	apiKey     string
	sandbox    bool
	ssoKey     string
	endpoint   string
	timeout    time.Duration
	logLevel   string
	jsonOutput bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "invoiced",
	Short: "Invoiced API CLI",
	Long: `A command-line client for the Invoiced API.

This tool allows you to:
  - Send authenticated requests to any API endpoint
  - Generate customer portal sign-in tokens

Settings are read from ~/.invoiced.hcl (or --config), then the
environment, then flags; later sources win.

Environment variables:
  INVOICED_API_KEY  - API key
  INVOICED_SANDBOX  - Use the sandbox environment (true/false)
  INVOICED_SSO_KEY  - SSO key for sign-in tokens
  INVOICED_ENDPOINT - Override the API base URL`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Profile file (default: ~/.invoiced.hcl)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (or INVOICED_API_KEY env)")
	rootCmd.PersistentFlags().BoolVar(&sandbox, "sandbox", false, "Use the sandbox environment")
	rootCmd.PersistentFlags().StringVar(&ssoKey, "sso-key", "", "SSO key (or INVOICED_SSO_KEY env)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "API base URL override (or INVOICED_ENDPOINT env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (default 30s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(ssoTokenCmd)
}

// loadProfile resolves settings from the profile file, environment and flags
func loadProfile() (*config.Profile, error) {
	path, optional := configPath, false
	if path == "" {
		path, optional = config.DefaultPath(), true
	}

	p, err := config.LoadFile(path, optional)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if apiKey != "" {
		p.APIKey = apiKey
	}
	if rootCmd.PersistentFlags().Changed("sandbox") {
		p.Sandbox = sandbox
	}
	if ssoKey != "" {
		p.SSOKey = ssoKey
	}
	if endpoint != "" {
		p.Endpoint = endpoint
	}
	if timeout > 0 {
		p.Timeout = timeout.String()
	}
	return p, nil
}

// newLogger creates the stderr logger for the configured level
func newLogger() (hclog.Logger, error) {
	level := hclog.LevelFromString(logLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", logLevel)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "invoiced",
		Level:  level,
		Output: os.Stderr,
	}), nil
}

// newClient creates an API client from the resolved profile
func newClient() (*client.Client, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	return p.NewClient(logger)
}

// outputJSON prints the value as JSON
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseParams merges a JSON object and key=value pairs into request params.
// Pairs are added after the object, so they win on conflict.
func parseParams(data string, pairs []string) (client.Params, error) {
	params := client.Params{}
	if strings.TrimSpace(data) != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(data)))
		dec.UseNumber()
		if err := dec.Decode(&params); err != nil {
			return nil, fmt.Errorf("--data must be a JSON object: %w", err)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// Request command
var (
	requestParams  []string
	requestData    string
	idempotencyKey string
)

var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an API request",
	Long: `Sends an authenticated request and prints the status code, headers and body.

Parameters go in the query string for GET, HEAD, DELETE and OPTIONS and in
a JSON body otherwise. Use --idempotency-key auto to generate a fresh key.`,
	Example: `  invoiced request GET /invoices --param per_page=3
  invoiced request POST /customers --data '{"name":"Acme"}' --idempotency-key auto`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(requestData, requestParams)
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		var opts []client.RequestOption
		switch idempotencyKey {
		case "":
		case "auto":
			opts = append(opts, client.WithIdempotencyKey(uuid.NewString()))
		default:
			opts = append(opts, client.WithIdempotencyKey(idempotencyKey))
		}

		resp, err := c.Request(context.Background(), args[0], args[1], params, opts...)
		if err != nil {
			var apiErr *client.Error
			if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
				if encErr := outputJSON(map[string]any{
					"error":   apiErr.Kind,
					"code":    apiErr.StatusCode,
					"message": apiErr.Message,
					"body":    apiErr.Body,
				}); encErr != nil {
					return encErr
				}
			}
			return fmt.Errorf("request failed: %w", err)
		}

		return outputJSON(map[string]any{
			"code":    resp.StatusCode,
			"headers": resp.Headers,
			"body":    resp.Body,
		})
	},
}

func init() {
	requestCmd.Flags().StringArrayVar(&requestParams, "param", nil, "Parameter as key=value (repeatable)")
	requestCmd.Flags().StringVar(&requestData, "data", "", "Parameters as a JSON object")
	requestCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key, or \"auto\"")
}

// SSO token command
var (
	tokenTTL  time.Duration
	portalURL string
)

var ssoTokenCmd = &cobra.Command{
	Use:   "sso-token SUBJECT_ID",
	Short: "Generate a customer portal sign-in token",
	Long:  "Generates a signed token that logs the given customer in to the customer portal.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid subject id %q: %w", args[0], err)
		}

		c, err := newClient()
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		tok, err := c.NewSignInToken(subject, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		var loginURL string
		if portalURL != "" {
			loginURL = client.SignInURL(portalURL, tok.Token)
		}

		if jsonOutput {
			out := map[string]any{
				"token":      tok.Token,
				"expires_at": tok.ExpiresAt.UTC().Format(time.RFC3339),
			}
			if loginURL != "" {
				out["url"] = loginURL
			}
			return outputJSON(out)
		}

		if loginURL != "" {
			fmt.Println(loginURL)
			return nil
		}
		fmt.Println(tok.Token)
		return nil
	},
}

func init() {
	ssoTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
	ssoTokenCmd.Flags().StringVar(&portalURL, "portal", "", "Customer portal URL; prints a login link instead of the token")
}
