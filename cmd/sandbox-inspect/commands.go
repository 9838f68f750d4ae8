package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
	"github.com/provide-io/playground/go/sandbox/pkg/sandbox"
	"github.com/provide-io/playground/go/sandbox/pkg/utils/shellparse"
)

func device() (resources.Configuration, error) {
	return resources.ParseConfiguration(deviceFlag)
}

func newConfigCmd() *cobra.Command {
	var shell bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if shell {
				for _, line := range envLines(cfg) {
					fmt.Fprintln(out, line)
				}
				return nil
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&shell, "shell", false, "Print the configuration as shell exports")
	return cmd
}

// envLines renders cfg as the exports ConfigFromEnv reads back.
func envLines(cfg sandbox.Config) []string {
	var lines []string
	export := func(name, value string) {
		if value != "" {
			lines = append(lines, "export "+name+"="+shellparse.Join([]string{value}))
		}
	}
	list := func(name string, values []string) {
		if len(values) > 0 {
			export(name, shellparse.Join(values))
		}
	}

	export(sandbox.EnvAppDir, cfg.App.Dir)
	export(sandbox.EnvApplicationID, cfg.App.ApplicationID)
	export(sandbox.EnvPackageName, cfg.App.PackageName)
	list(sandbox.EnvLocalResDirs, cfg.App.ResDirs)
	list(sandbox.EnvSymbolFiles, cfg.App.SymbolFiles)
	var moduleRes, moduleAssets []string
	for _, m := range cfg.Modules {
		moduleRes = append(moduleRes, m.ResDirs...)
		moduleAssets = append(moduleAssets, m.AssetDirs...)
	}
	list(sandbox.EnvModuleResDirs, moduleRes)
	list(sandbox.EnvModuleAssetDirs, moduleAssets)
	export(sandbox.EnvLibrariesDir, cfg.Libraries.Dir)
	list(sandbox.EnvLibraryResDirs, cfg.Libraries.ResDirs)
	list(sandbox.EnvLibraryAssetDirs, cfg.Libraries.AssetDirs)
	export(sandbox.EnvCompileSDK, strconv.Itoa(cfg.Platform.CompileSDK))
	export(sandbox.EnvPlatformDir, cfg.Platform.Dir)
	export(sandbox.EnvNamespacing, cfg.Namespacing)
	export(sandbox.EnvTheme, cfg.Theme)
	return lines
}

func newResourcesCmd() *cobra.Command {
	var (
		framework bool
		typeName  string
		namespace string
		where     string
	)
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List merged resources, highest priority variant first",
		Example: `  sandbox-inspect resources --type string
  sandbox-inspect resources --where 'config contains "fr" && !default'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := sandbox.CompileFilter(where)
			if err != nil {
				return err
			}
			q := sandbox.Query{Filter: filter, Framework: framework}
			if typeName != "" {
				t, ok := android.ParseResourceType(typeName)
				if !ok {
					return fmt.Errorf("unknown resource type %q", typeName)
				}
				q.Type = &t
			}
			if cmd.Flags().Changed("namespace") {
				ns := android.ParseNamespace(namespace)
				q.Namespace = &ns
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := s.Query(q)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			for _, item := range items {
				p.item(item)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&framework, "framework", false, "Query the platform resources instead of the application")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only this resource type")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Only this namespace (package name or res-auto)")
	cmd.Flags().StringVarP(&where, "where", "w", "", "Filter expression over namespace, type, name, config, value, file, store, default")
	return cmd
}

func newReplayCmd() *cobra.Command {
	var (
		events  bool
		asJSON  bool
		aaptIDs bool
	)
	cmd := &cobra.Command{
		Use:   "replay <@layout/name | path>",
		Short: "Replay a layout as the rendering engine would see it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := device()
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			layout, err := openLayout(s, args[0], dev)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())

			if events {
				if err := p.events(layout); err != nil {
					return err
				}
				if aaptIDs {
					for id, tag := range layout.DeclaredAttrs() {
						fmt.Fprintf(cmd.OutOrStdout(), "%s%s -> <%s>\n", android.AaptAttrPrefix, id, tag.Name())
					}
				}
				return nil
			}

			req, err := s.NewRenderRequest(layout, dev, sandbox.DefaultRenderOptions())
			if err != nil {
				return err
			}
			result, err := s.Render(context.Background(), sandbox.OutlineRenderer{}, req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			p.outline(result.Root, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&events, "events", false, "Print pull events instead of the view outline")
	cmd.Flags().BoolVar(&aaptIDs, "aapt", false, "With --events, list the inline declared attributes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outline as JSON")
	return cmd
}

// openLayout accepts a layout reference or a file path.
func openLayout(s *sandbox.Session, arg string, dev resources.Configuration) (*parsers.LayoutParser, error) {
	if strings.HasPrefix(arg, "@") {
		ref, err := android.ParseReference(arg, android.ResAuto)
		if err != nil {
			return nil, err
		}
		return s.LayoutParser(ref, dev)
	}
	p, err := s.Callback().GetParser(android.TypeLayout, arg)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("layout file %s not found", arg)
	}
	return p, nil
}

func newIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "id <@type/name | 0xID>...",
		Short: "Map references to identifiers and back",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			p := newPrinter(cmd.OutOrStdout())
			for _, arg := range args {
				line, err := lookupID(s, arg, p)
				if err != nil {
					return err
				}
				fmt.Fprintln(p.w, line)
			}
			return nil
		},
	}
}

func lookupID(s *sandbox.Session, arg string, p *printer) (string, error) {
	if strings.HasPrefix(arg, "@") {
		ref, err := android.ParseReference(arg, android.ResAuto)
		if err != nil {
			return "", err
		}
		id, err := s.GetOrGenerateResourceID(ref)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s", p.ref(ref), p.value(id)), nil
	}

	raw, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return "", fmt.Errorf("%q is neither a reference nor an identifier", arg)
	}
	id := android.ResourceID(raw)
	ref, ok := s.ResolveResourceID(id)
	if !ok {
		return fmt.Sprintf("%s %s", p.value(id), p.dim("unknown")), nil
	}
	return fmt.Sprintf("%s %s", p.value(id), p.ref(ref)), nil
}

func newLibrariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List the libraries the session found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			p := newPrinter(cmd.OutOrStdout())
			for _, lib := range s.Libraries() {
				p.library(lib)
			}
			return nil
		},
	}
}
