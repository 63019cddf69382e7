package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/protouml/protouml/pkg/schema"
	"github.com/protouml/protouml/pkg/uml"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output string // output file path (stdout if empty)
	stats  bool   // print entity/edge counts after generation
}

// generateCommand creates the generate command. It parses a protobuf schema
// file and writes the PlantUML class-diagram text.
//
// Layout thresholds for package wrapping come from the [layout] section of
// the config file.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <file.proto>",
		Short: "Generate PlantUML class-diagram text from a protobuf schema",
		Long: `Generate PlantUML class-diagram text from a protobuf schema file.

Messages become classes, enums become enum blocks, and services become
interfaces. Field references between messages are drawn as relationship
edges with cardinalities.

Examples:
  protouml generate user.proto                # print to stdout
  protouml generate user.proto -o user.puml   # write to file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print entity and edge counts")

	return cmd
}

// runGenerate parses the schema and writes the generated diagram text.
func (c *CLI) runGenerate(ctx context.Context, input string, opts *generateOpts) error {
	diagram, err := c.generateDiagram(ctx, input)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.WriteString(out, diagram.Text); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Generated %s", opts.output)
	}
	if opts.stats {
		printStats(diagram.Entities, diagram.Edges, false)
	}
	return nil
}

// generateDiagram runs the parse and emit stages for one schema file,
// logging progress along the way. It is shared by generate, encode,
// render, and inspect.
func (c *CLI) generateDiagram(ctx context.Context, input string) (*uml.Diagram, error) {
	logger := loggerFromContext(ctx)
	logger.Infof("Parsing %s", input)

	prog := newProgress(logger)
	file, err := schema.Load(input)
	if err != nil {
		return nil, err
	}

	diagram, err := uml.Generate(file, uml.Options{Layout: c.Config.LayoutOptions()})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Generated %d entities with %d edges", diagram.Entities, diagram.Edges))

	return diagram, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
