package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

var (
	ErrProviderConfigUnreadable = errors.New("tools: provider config file unreadable")
	ErrCredentialsUnreadable    = errors.New("tools: credentials file unreadable")
)

// ProviderConfig describes one concretely configured provider, loaded
// from tool_config.json.
type ProviderConfig struct {
	Category         Category `json:"category"`
	EndpointTemplate string   `json:"endpoint_template"`
	RequiredFields   []string `json:"required_fields"`
}

type providerConfigFile struct {
	Providers map[string]ProviderConfig `json:"providers"`
}

// Registry is the process-wide, loaded-once set of configured providers
// and their credentials. SaveCredentials is its only write path; it is
// called by the `tools set-credentials` CLI command and, during a query,
// by CredentialResolver's interactive prompt when the operator supplies
// credentials.
type Registry struct {
	configPath      string
	credentialsPath string
	providers       map[string]ProviderConfig
	credentials     map[string]map[string]string
	logger          zerolog.Logger
}

// NewRegistry loads the provider registry from configPath and credentials
// from credentialsPath (falling back to environment variables per
// provider/field as TOOL_<PROVIDER>_<FIELD>). A missing config file
// yields an empty, but valid, registry rather than an error, since tools
// are entirely optional (ENABLE_TOOL_AGENT=0 by default).
func NewRegistry(configPath, credentialsPath string) *Registry {
	logger := util.NewLogger(zerolog.ErrorLevel)

	reg := &Registry{
		configPath:      configPath,
		credentialsPath: credentialsPath,
		providers:       map[string]ProviderConfig{},
		credentials:     map[string]map[string]string{},
		logger:          logger,
	}

	if data, err := os.ReadFile(configPath); err == nil {
		var parsed providerConfigFile
		if err := json.Unmarshal(data, &parsed); err == nil {
			reg.providers = parsed.Providers
		} else {
			logger.Warn().Err(err).Str("path", configPath).Msg("registry: unparseable provider config")
		}
	}

	if data, err := os.ReadFile(credentialsPath); err == nil {
		var parsed map[string]map[string]string
		if err := json.Unmarshal(data, &parsed); err == nil {
			reg.credentials = parsed
		} else {
			logger.Warn().Err(err).Str("path", credentialsPath).Msg("registry: unparseable credentials file")
		}
	}

	return reg
}

// Providers returns the configured providers, keyed by provider id.
func (r *Registry) Providers() map[string]ProviderConfig {
	return r.providers
}

// ConfiguredProviderIDs returns the ids of every provider with a config
// entry, regardless of whether its credentials are complete yet.
func (r *Registry) ConfiguredProviderIDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

// IsReady reports whether provider has a config entry and every required
// field is satisfied, either from the credentials file or from an
// environment variable TOOL_<PROVIDER>_<FIELD> (uppercased).
func (r *Registry) IsReady(providerID string) bool {
	cfg, ok := r.providers[providerID]
	if !ok {
		return false
	}
	for _, field := range cfg.RequiredFields {
		if r.credentialField(providerID, field) == "" {
			return false
		}
	}
	return true
}

func (r *Registry) credentialField(providerID, field string) string {
	if creds, ok := r.credentials[providerID]; ok {
		if v, ok := creds[field]; ok && v != "" {
			return v
		}
	}
	envKey := fmt.Sprintf("TOOL_%s_%s", strings.ToUpper(providerID), strings.ToUpper(field))
	return os.Getenv(envKey)
}

// Credentials returns the resolved field values for providerID (merging
// the credentials file and environment variables), for use by the
// executor when substituting a provider's endpoint template.
func (r *Registry) Credentials(providerID string) map[string]string {
	cfg, ok := r.providers[providerID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(cfg.RequiredFields))
	for _, field := range cfg.RequiredFields {
		out[field] = r.credentialField(providerID, field)
	}
	return out
}

// SaveCredentials persists credentials for providerID to the credentials
// file, merging with whatever is already stored. It is called by the
// credential-management CLI and by the interactive credential handshake
// (CredentialResolver), which can run mid-query.
func (r *Registry) SaveCredentials(providerID string, fields map[string]string) error {
	if r.credentials[providerID] == nil {
		r.credentials[providerID] = map[string]string{}
	}
	for k, v := range fields {
		r.credentials[providerID][k] = v
	}

	data, err := json.MarshalIndent(r.credentials, "", "  ")
	if err != nil {
		return fmt.Errorf("tools: save credentials: marshal: %w", err)
	}

	if err := os.WriteFile(r.credentialsPath, data, 0o600); err != nil {
		return fmt.Errorf("tools: save credentials: write: %w", err)
	}

	return nil
}
