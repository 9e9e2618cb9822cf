package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/config"
	"github.com/pranshu-dhingra/bfsi-research-agent/internal/tools"
	"github.com/spf13/cobra"
)

// toolsCmd is the parent command for tool-provider management.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect and configure external research tool providers",
}

// toolsListCmd lists the static conceptual catalog and which providers
// currently have credentials configured.
var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tool categories and whether their providers are credential-ready",
	RunE:  runToolsList,
}

// toolsSetCredentialsCmd saves credential fields for one provider,
// outside the interactive question-answering flow.
var toolsSetCredentialsCmd = &cobra.Command{
	Use:   "set-credentials <provider-id>",
	Short: "Interactively save credential fields for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsSetCredentials,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsSetCredentialsCmd)
}

func runToolsList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("tools list: load config: %w", err)
	}

	registry := tools.NewRegistry(cfg.ToolConfigPath, cfg.CredentialsPath)

	names := make([]string, 0, len(tools.KnowledgeBase))
	for name := range tools.KnowledgeBase {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := tools.KnowledgeBase[name]
		fmt.Printf("%s (%s): %s\n", name, entry.Category, entry.Purpose)
		for _, provider := range entry.ExampleProviders {
			status := "not configured"
			if registry.IsReady(provider) {
				status = "ready"
			}
			fmt.Printf("  - %s [%s]\n", provider, status)
		}
	}

	return nil
}

func runToolsSetCredentials(_ *cobra.Command, args []string) error {
	providerID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("tools set-credentials: load config: %w", err)
	}

	registry := tools.NewRegistry(cfg.ToolConfigPath, cfg.CredentialsPath)
	providerConfig, ok := registry.Providers()[providerID]
	if !ok {
		return fmt.Errorf("tools set-credentials: unknown provider %q", providerID)
	}

	fields := make(map[string]string, len(providerConfig.RequiredFields))
	reader := bufio.NewReader(os.Stdin)
	for _, field := range providerConfig.RequiredFields {
		fmt.Printf("%s: ", field)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("tools set-credentials: read %s: %w", field, err)
		}
		fields[field] = strings.TrimSpace(line)
	}

	if err := registry.SaveCredentials(providerID, fields); err != nil {
		return fmt.Errorf("tools set-credentials: save: %w", err)
	}

	fmt.Printf("saved credentials for %s\n", providerID)
	return nil
}
