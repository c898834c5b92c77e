package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/fsutil"
	"github.com/yaklabco/goxaml/pkg/schema"
	"github.com/yaklabco/goxaml/pkg/scope"
)

func newScopeCommand() *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "scope <file>",
		Short: "Show the element and context at a byte offset",
		Long: `Print the name of the tag enclosing a byte offset and whether the offset
sits in an element name, an attribute value or text.

Example:
  goxaml scope App.xaml --offset 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			doc, err := fsutil.ReadDocument(ctx, args[0])
			if err != nil {
				return &ExitError{Code: ExitIOError, Err: err}
			}

			if offset < 0 || offset > len(doc.Text) {
				return usageErrorf("offset %d outside document of %d bytes", offset, len(doc.Text))
			}

			sc := scope.Resolve(doc.Text, offset)
			logging.FromContext(ctx).Debug("resolved scope",
				logging.FieldOffset, offset,
				logging.FieldTag, sc.TagName,
				logging.FieldContext, sc.Context.String(),
			)

			tag := "-"
			if sc.HasTagName {
				tag = sc.TagName
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tag:     %s\n", tag)
			fmt.Fprintf(out, "context: %s\n", sc.Context)

			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "byte offset into the document")
	_ = cmd.MarkFlagRequired("offset")

	return cmd
}

func newSchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas <file>",
		Short: "List the namespaces and schema files a document refers to",
		Long: `Print the prefixed namespace declarations of a document and the schema
locations found in its schemaLocation hints and in the schema_mapping of
the configuration. Local files that do not exist and remote locations,
which are never fetched, are marked.

Example:
  goxaml schemas App.xaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, nil)
			if err != nil {
				return err
			}

			doc, err := fsutil.ReadDocument(sess.ctx, args[0])
			if err != nil {
				return &ExitError{Code: ExitIOError, Err: err}
			}

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			mappings := make([]schema.Mapping, 0, len(sess.cfg.SchemaMapping))
			for _, m := range sess.cfg.SchemaMapping {
				mappings = append(mappings, schema.Mapping{XMLNS: m.XMLNS, XSDURI: m.XSDURI})
			}

			out := cmd.OutOrStdout()

			ns := schema.NamespaceMapping(doc.Text)
			uris := make([]string, 0, len(ns))
			for uri := range ns {
				uris = append(uris, uri)
			}
			slices.Sort(uris)

			fmt.Fprintln(out, "Namespaces:")
			if len(uris) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, uri := range uris {
				fmt.Fprintf(out, "  %-12s %s\n", ns[uri], uri)
			}

			fmt.Fprintln(out, "Schemas:")
			locations := schema.SchemaURIs(doc.Text, filepath.ToSlash(abs), mappings)
			if len(locations) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, uri := range locations {
				fmt.Fprintf(out, "  %s%s\n", uri, schemaNote(uri))
			}

			return nil
		},
	}
}

func schemaNote(uri string) string {
	local, ok := schema.LocalPath(uri)
	switch {
	case !ok:
		return " (remote, not fetched)"
	case !schema.Supported(local):
		return " (unsupported format)"
	}

	if _, err := os.Stat(filepath.FromSlash(local)); err != nil {
		return " (missing)"
	}

	return ""
}
