package tools

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ResolvedProviders is the credential handshake's result.
type ResolvedProviders struct {
	Ready   []string
	Skipped []string
}

// CredentialResolver resolves a planner's recommended providers against
// the registry, handling the interactive-vs-non-interactive handshake.
type CredentialResolver struct {
	registry    *Registry
	interactive bool
	in          io.Reader
	out         io.Writer
}

// NewCredentialResolver constructs a resolver. in/out default to nil,
// meaning interactive mode degrades to "treat as skipped" if no prompt
// stream is wired up by the caller (e.g. in tests).
func NewCredentialResolver(registry *Registry, interactive bool, in io.Reader, out io.Writer) *CredentialResolver {
	return &CredentialResolver{registry: registry, interactive: interactive, in: in, out: out}
}

// Resolve walks recommendedProviders: providers already ready are kept;
// others are either prompted for (interactive mode, if an input stream is
// available) or treated as skipped (non-interactive mode, or no input
// stream). If every requested provider ends up skipped, it falls back to
// the generic provider.
func (r *CredentialResolver) Resolve(recommendedProviders []string, category Category) ResolvedProviders {
	var result ResolvedProviders

	for _, providerID := range recommendedProviders {
		if r.registry.IsReady(providerID) {
			result.Ready = append(result.Ready, providerID)
			continue
		}

		if r.interactive && r.in != nil && r.out != nil {
			if r.promptForCredentials(providerID, category) {
				result.Ready = append(result.Ready, providerID)
				continue
			}
		}

		result.Skipped = append(result.Skipped, providerID)
	}

	if len(result.Ready) == 0 && len(recommendedProviders) > 0 {
		result.Ready = []string{"web_search_generic"}
	}

	return result
}

// promptForCredentials asks the operator, on r.out, for the required
// fields of providerID, naming both the provider and its category. The
// operator may reply with the literal SKIP, or a "field=value" pair per
// line terminated by a blank line.
func (r *CredentialResolver) promptForCredentials(providerID string, category Category) bool {
	cfg, ok := r.registry.providers[providerID]
	if !ok {
		return false
	}

	fmt.Fprintf(r.out, "Provider %q (category %q) is not configured. ", providerID, category)
	fmt.Fprintf(r.out, "Provide credentials for %v, or type SKIP:\n", cfg.RequiredFields)

	scanner := bufio.NewScanner(r.in)
	fields := map[string]string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		if strings.EqualFold(line, "SKIP") {
			return false
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			fields[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	if len(fields) == 0 {
		return false
	}

	if err := r.registry.SaveCredentials(providerID, fields); err != nil {
		fmt.Fprintf(r.out, "failed to save credentials: %v\n", err)
		return false
	}

	return r.registry.IsReady(providerID)
}
