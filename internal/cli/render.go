package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protouml/protouml/pkg/plantuml"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path (derived from input if empty)
	format  string // output format: png, svg, txt
	noCache bool   // bypass the rendered-image cache
}

// renderCommand creates the render command. It runs the full pipeline and
// fetches the rendered image from the configured PlantUML server.
//
// Responses are cached under the token, so re-rendering an unchanged
// schema never hits the network.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a schema or diagram to an image via a PlantUML server",
		Long: `Render a protobuf schema or PlantUML text file to an image.

Files ending in .proto are parsed and converted to diagram text first;
anything else is treated as PlantUML text. The text is encoded into a
render token and the image is fetched from the configured server.

Examples:
  protouml render user.proto                # user.svg next to the input
  protouml render user.proto -f png         # PNG output
  protouml render user.puml -o diagram.svg  # render existing text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (derived from input if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, svg, txt")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered-image cache")

	return cmd
}

// runRender generates or reads diagram text, encodes it, and fetches the
// rendered image.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	format := opts.format
	if format == "" {
		format = c.Config.Render.Format
	}
	if !plantuml.ValidFormat(format) {
		return fmt.Errorf("invalid format: %s (must be %s)", format, strings.Join(plantuml.Formats, ", "))
	}

	var text string
	if strings.HasSuffix(input, ".proto") {
		diagram, err := c.generateDiagram(ctx, input)
		if err != nil {
			return err
		}
		text = diagram.Text
	} else {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		text = string(data)
	}

	res, err := plantuml.Encode(text)
	if err != nil {
		return err
	}

	client := plantuml.NewClient(c.Config.Render.Endpoint,
		plantuml.WithCache(c.newCache(ctx, opts.noCache), c.Config.CacheTTL()))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s diagram", format))
	spinner.Start()

	data, err := client.Fetch(ctx, res, format)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.Stop()

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s", outputPath)
	printDetail("%d bytes · %s", len(data), client.URL(res, format))
	return nil
}
