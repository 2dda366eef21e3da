package cli

import (
	"fmt"
	"strings"

	"webflash/internal/firmware"
	"webflash/internal/service"

	"github.com/spf13/cobra"
)

// queryFromArgs accepts "mount=wall power=usb", "mount=wall&power=usb" or a
// full "?search#hash" pair; search wins over hash.
func queryFromArgs(args []string) service.ResolveQuery {
	joined := strings.Join(args, "&")
	search, hash, _ := strings.Cut(joined, "#")
	return service.ResolveQuery{Params: firmware.MergeLocationParams(search, hash)}
}

type parseRow struct {
	ConfigKey string   `json:"config_key"`
	Valid     bool     `json:"valid"`
	Preset    string   `json:"preset"`
	Forced    bool     `json:"forced_fan_none"`
	Errors    []string `json:"errors"`
}

func toParseRow(p service.ParseResult) parseRow {
	row := parseRow{ConfigKey: p.ConfigKey, Valid: p.IsValid, Preset: p.Preset, Forced: p.ForcedFanNone}
	for _, e := range p.Errors {
		row.Errors = append(row.Errors, e.Message)
	}
	return row
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "parse <query>...",
		Short:   "Validate a configurator query",
		Example: "  webflashctl parse mount=wall power=usb airiq=base",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := queryFromArgs(args)
			// parsing needs no manifest
			res := service.NewConfiguratorService(nil, a.presets, nil).Parse(q.Params)
			a.print(cmd, res, toParseRow(res))
			return nil
		},
	}
}

type buildRow struct {
	Version   string `json:"version"`
	Channel   string `json:"channel"`
	BuildDate string `json:"build_date"`
	FileName  string `json:"file_name"`
	Selected  bool   `json:"selected"`
}

func buildRows(res service.Resolution) []buildRow {
	rows := make([]buildRow, 0, len(res.Matches))
	for _, m := range res.Matches {
		selected := res.Selected != nil &&
			res.Selected.Version == m.Version && res.Selected.NormalizedChannel() == m.NormalizedChannel()
		rows = append(rows, buildRow{
			Version:   m.Version,
			Channel:   m.NormalizedChannel(),
			BuildDate: m.BuildDate,
			FileName:  m.FileName,
			Selected:  selected,
		})
	}
	return rows
}

func addSelectionFlags(cmd *cobra.Command, q *service.ResolveQuery) {
	cmd.Flags().StringVarP(&q.Channel, "channel", "c", "", "release channel: stable, beta, dev")
	cmd.Flags().StringVarP(&q.Preset, "preset", "p", "", "preset filling fields the query leaves unset")
}

func (a *app) resolveCmd() *cobra.Command {
	var flags service.ResolveQuery
	cmd := &cobra.Command{
		Use:   "resolve [query]...",
		Short: "List the builds matching a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			q := queryFromArgs(args)
			q.Channel, q.Preset = flags.Channel, flags.Preset
			res, err := c.Resolve(cmd.Context(), q)
			if err != nil {
				return err
			}
			if !res.Config.IsValid {
				return fmt.Errorf("invalid configuration: %s", strings.Join(toParseRow(res.Config).Errors, "; "))
			}
			a.print(cmd, res, buildRows(res))
			return nil
		},
	}
	addSelectionFlags(cmd, &flags)
	return cmd
}

func (a *app) installManifestCmd() *cobra.Command {
	var flags service.ResolveQuery
	cmd := &cobra.Command{
		Use:   "install-manifest [query]...",
		Short: "Print the single-build install manifest as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			q := queryFromArgs(args)
			q.Channel, q.Preset = flags.Channel, flags.Preset
			m, err := c.InstallManifest(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("select firmware: %w", err)
			}
			// install manifests are consumed by the browser flasher, always JSON
			fmt.Fprint(cmd.OutOrStdout(), JSONFormatter{}.Format(m))
			return nil
		},
	}
	addSelectionFlags(cmd, &flags)
	return cmd
}

type baseRow struct {
	Mount        string `json:"mount"`
	Power        string `json:"power"`
	AirIQ        string `json:"airiq"`
	Presence     string `json:"presence"`
	Comfort      string `json:"comfort"`
	Fan          string `json:"fan"`
	Combinations int    `json:"combinations"`
}

func (a *app) availabilityCmd() *cobra.Command {
	var mount, power string
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show which module options have firmware on each base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			bases, err := c.Availability(cmd.Context(), mount, power)
			if err != nil {
				return err
			}
			rows := make([]baseRow, 0, len(bases))
			for _, b := range bases {
				rows = append(rows, baseRow{
					Mount:        b.Mount,
					Power:        b.Power,
					AirIQ:        strings.Join(b.Modules[firmware.FieldAirIQ], ","),
					Presence:     strings.Join(b.Modules[firmware.FieldPresence], ","),
					Comfort:      strings.Join(b.Modules[firmware.FieldComfort], ","),
					Fan:          strings.Join(b.Modules[firmware.FieldFan], ","),
					Combinations: len(b.Combinations),
				})
			}
			a.print(cmd, bases, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&mount, "mount", "", "limit to one mount (requires --power)")
	cmd.Flags().StringVar(&power, "power", "", "limit to one power option (requires --mount)")
	return cmd
}

type changelogRow struct {
	Version string   `json:"version"`
	Channel string   `json:"channel"`
	Date    string   `json:"date"`
	Changes []string `json:"changes"`
}

func (a *app) changelogCmd() *cobra.Command {
	var configKey string
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Show release notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := c.Changelog(cmd.Context(), configKey)
			if err != nil {
				return err
			}
			rows := make([]changelogRow, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, changelogRow{Version: e.Version, Channel: e.Channel, Date: e.Date, Changes: e.Changes})
			}
			a.print(cmd, entries, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&configKey, "config", "", "only releases for this configuration string")
	return cmd
}

func (a *app) versionsCmd() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "versions <config-string>",
		Short: "List firmware versions for a configuration, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			versions, err := c.Versions(cmd.Context(), args[0], channel)
			if err != nil {
				return err
			}
			a.print(cmd, versions, nil)
			return nil
		},
	}
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "only this channel")
	return cmd
}

func (a *app) updatesCmd() *cobra.Command {
	var configKey string
	cmd := &cobra.Command{
		Use:   "updates <current-version>",
		Short: "Check whether a newer firmware exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			check, err := c.CheckUpdates(cmd.Context(), args[0], configKey)
			if err != nil {
				return err
			}
			a.print(cmd, check, nil)
			return nil
		},
	}
	cmd.Flags().StringVar(&configKey, "config", "", "device configuration string")
	return cmd
}

type legacyRow struct {
	Model       string `json:"model"`
	Variant     string `json:"variant"`
	SensorAddon string `json:"sensor_addon"`
	Version     string `json:"version"`
	Channel     string `json:"channel"`
}

func (a *app) legacyCmd() *cobra.Command {
	var variant, addon string
	cmd := &cobra.Command{
		Use:   "legacy <model>",
		Short: "Find firmware published before configuration strings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfigurator(cmd.Context())
			if err != nil {
				return err
			}
			builds, err := c.Legacy(cmd.Context(), args[0], variant, addon)
			if err != nil {
				return err
			}
			rows := make([]legacyRow, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, legacyRow{
					Model:       b.Model,
					Variant:     b.Variant,
					SensorAddon: b.SensorAddon,
					Version:     b.Version,
					Channel:     b.NormalizedChannel(),
				})
			}
			a.print(cmd, builds, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "hardware variant")
	cmd.Flags().StringVar(&addon, "sensor-addon", "", "sensor add-on")
	return cmd
}

type presetRow struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	ConfigKey string `json:"config_key"`
}

func (a *app) presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect built-in presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.presets.List()
			rows := make([]presetRow, 0, len(list))
			for _, p := range list {
				rows = append(rows, presetRow{Name: p.Name, Label: p.Label, ConfigKey: firmware.BuildConfigKey(p.State)})
			}
			a.print(cmd, list, rows)
			return nil
		},
	}, &cobra.Command{
		Use:   "show <name>",
		Short: "Show one preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.presets.ByName(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrUnknownPreset, args[0])
			}
			a.print(cmd, p, presetRow{Name: p.Name, Label: p.Label, ConfigKey: firmware.BuildConfigKey(p.State)})
			return nil
		},
	})
	return cmd
}
