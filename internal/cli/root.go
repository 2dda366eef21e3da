// Package cli implements webflashctl, an offline client that answers
// configurator questions straight from a manifest file or URL.
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/service"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X webflash/internal/cli.version=x.y.z"
var version = "0.1.0"

// app carries the global flags and the lazily built configurator.
type app struct {
	manifestSource string
	presetsPath    string
	baseURL        string
	outputFormat   string

	formatter    Formatter
	presets      *firmware.PresetCatalog
	configurator *service.ConfiguratorService
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "webflashctl",
		Short: "Resolve Sense360 configurations to firmware builds",
		Long: `webflashctl parses configurator queries, resolves them against a firmware
manifest and prints install manifests, changelogs and update checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.formatter = NewFormatter(a.outputFormat)
			presets, err := service.LoadPresetCatalog(a.presetsPath)
			if err != nil {
				return err
			}
			a.presets = presets
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.manifestSource, "manifest", "m", envOr("WEBFLASH_MANIFEST", "manifest.json"), "manifest path or http(s) URL")
	pf.StringVar(&a.presetsPath, "presets", os.Getenv("WEBFLASH_PRESETS"), "YAML file with extra presets")
	pf.StringVar(&a.baseURL, "base-url", "", "absolute URL relative part paths resolve against")
	pf.StringVarP(&a.outputFormat, "output", "o", FormatTable, "output format: table, json, yaml")

	root.AddCommand(
		a.versionCmd(),
		a.parseCmd(),
		a.resolveCmd(),
		a.installManifestCmd(),
		a.availabilityCmd(),
		a.changelogCmd(),
		a.versionsCmd(),
		a.updatesCmd(),
		a.legacyCmd(),
		a.presetsCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadConfigurator loads the manifest once per invocation.
func (a *app) loadConfigurator(ctx context.Context) (*service.ConfiguratorService, error) {
	if a.configurator != nil {
		return a.configurator, nil
	}
	loader := manifest.NewLoader(a.manifestSource)
	store := manifest.NewStore(loader, a.manifestSource)
	if _, err := store.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	base := loader.BaseURL()
	if a.baseURL != "" {
		u, err := url.Parse(a.baseURL)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("invalid --base-url %q", a.baseURL)
		}
		base = u
	}
	a.configurator = service.NewConfiguratorService(service.NewManifestService(store, nil), a.presets, base)
	return a.configurator, nil
}

// print renders full for json/yaml and rows for tables.
func (a *app) print(cmd *cobra.Command, full, rows any) {
	data := full
	if _, ok := a.formatter.(TableFormatter); ok && rows != nil {
		data = rows
	}
	fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(data))
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the webflashctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "webflashctl version %s\n", version)
			return nil
		},
	}
}
