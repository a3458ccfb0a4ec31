package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/simmeta/internal/core/metadata/attributes"
	"github.com/zeusync/simmeta/internal/core/metadata/config"
	"github.com/zeusync/simmeta/internal/core/metadata/library"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

var outputFormats = []string{"table", "json", "yaml", "csv"}

func newInspectCommand(root *rootOptions) *cobra.Command {
	var (
		output string
		filter string
	)
	cmd := &cobra.Command{
		Use:   "inspect FAMILY [HANDLE]",
		Short: "Show registered templates of one family",
		Long: `Loads the dataset, then lists the templates of FAMILY or, with HANDLE,
prints one template's values and user-defined configuration.

Families: physics, stages, objects, primitives, lighting, pbr, scenes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(output) {
				return withCode(ExitConfigError, "unknown output format %q, want one of %s", output, strings.Join(outputFormats, ", "))
			}
			app := root.app()
			if _, err := app.Library.LoadDataset(cmd.Context()); err != nil {
				app.Logger.Warn("dataset loaded with errors", log.Error(err))
			}
			fam, ok := app.Library.Family(args[0])
			if !ok {
				return withCode(ExitNotFound, "unknown family %q", args[0])
			}

			var tmpls []attributes.Attributes
			if len(args) == 2 {
				t, ok := fam.Lookup(args[1])
				if !ok {
					return withCode(ExitNotFound, "no %s template %q", fam.Name(), args[1])
				}
				tmpls = append(tmpls, t)
			} else {
				for _, h := range fam.Handles(filter) {
					if t, ok := fam.Lookup(h); ok {
						tmpls = append(tmpls, t)
					}
				}
			}
			return render(cmd.OutOrStdout(), output, tmpls, len(args) == 2)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().StringVar(&filter, "filter", "", "Only list handles containing this substring")
	return cmd
}

func validFormat(f string) bool {
	for _, o := range outputFormats {
		if o == f {
			return true
		}
	}
	return false
}

func render(w io.Writer, format string, tmpls []attributes.Attributes, single bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if single {
			return enc.Encode(library.Describe(tmpls[0]))
		}
		return enc.Encode(describeAll(tmpls))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if single {
			return enc.Encode(library.Describe(tmpls[0]))
		}
		return enc.Encode(describeAll(tmpls))
	case "csv":
		for i, t := range tmpls {
			// Families mix classes only for primitives, whose columns differ.
			if i == 0 || t.ClassKey() != tmpls[i-1].ClassKey() {
				if _, err := fmt.Fprintln(w, t.ObjectInfoHeader()); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, t.ObjectInfo()); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if single {
		t := tmpls[0]
		fmt.Fprintf(tw, "class\t%s\nhandle\t%s\nid\t%d\n", t.ClassKey(), t.Handle(), t.ID())
		writeConfigTable(tw, "", t.Values())
		writeConfigTable(tw, "user_defined.", t.UserConfig())
		return tw.Flush()
	}
	fmt.Fprintln(tw, "ID\tHANDLE\tCLASS\tUSER KEYS")
	for _, t := range tmpls {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", t.ID(), t.Handle(), t.ClassKey(), t.NumUserDefinedConfigurations())
	}
	return tw.Flush()
}

func writeConfigTable(w io.Writer, prefix string, c *config.Configuration) {
	for _, k := range c.Keys() {
		fmt.Fprintf(w, "%s%s\t%s\n", prefix, k, c.GetAsString(k))
	}
	for _, k := range c.SubconfigKeys() {
		sub, _ := c.Subconfig(k)
		writeConfigTable(w, prefix+k+".", sub)
	}
}

func describeAll(tmpls []attributes.Attributes) []map[string]any {
	out := make([]map[string]any, 0, len(tmpls))
	for _, t := range tmpls {
		out = append(out, library.Describe(t))
	}
	return out
}
