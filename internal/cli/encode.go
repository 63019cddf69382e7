package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protouml/protouml/pkg/plantuml"
)

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	proto   bool   // treat input as a protobuf schema and run the full pipeline
	hex     bool   // force the hex fallback encoding
	format  string // render format used when building the URL
	urlOnly bool   // print only the render URL
}

// encodeCommand creates the encode command. It compresses PlantUML text
// with DEFLATE and packs it into the PlantUML server's URL-safe alphabet.
func (c *CLI) encodeCommand() *cobra.Command {
	var opts encodeOpts

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode PlantUML text into a URL-safe render token",
		Long: `Encode PlantUML text into a URL-safe render token.

Reads PlantUML text from the given file, or from stdin if no file is
given. With --proto the input is parsed as a protobuf schema and run
through diagram generation first.

Examples:
  protouml encode user.puml                 # token + URL for existing text
  protouml encode user.proto --proto        # full pipeline from a schema
  cat user.puml | protouml encode           # read from stdin
  protouml encode user.puml --url           # print only the render URL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runEncode(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.proto, "proto", false, "parse input as a protobuf schema first")
	cmd.Flags().BoolVar(&opts.hex, "hex", false, "use the hex fallback encoding")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "render format for the URL: png, svg, txt")
	cmd.Flags().BoolVar(&opts.urlOnly, "url", false, "print only the render URL")

	return cmd
}

// runEncode reads or generates diagram text, encodes it, and prints the
// token and render URL.
func (c *CLI) runEncode(ctx context.Context, input string, opts *encodeOpts) error {
	format := opts.format
	if format == "" {
		format = c.Config.Render.Format
	}
	if !plantuml.ValidFormat(format) {
		return fmt.Errorf("invalid format: %s (must be %s)", format, strings.Join(plantuml.Formats, ", "))
	}

	text, err := c.encodeInput(ctx, input, opts.proto)
	if err != nil {
		return err
	}

	var res plantuml.Result
	if opts.hex {
		res = plantuml.EncodeHex(text)
	} else {
		res, err = plantuml.Encode(text)
		if err != nil {
			return err
		}
	}

	url := plantuml.NewClient(c.Config.Render.Endpoint).URL(res, format)
	if opts.urlOnly {
		fmt.Println(url)
		return nil
	}

	printKeyValue("Token", res.Token)
	printKeyValue("Encoding", string(res.Encoding))
	printKeyValue("URL", StyleLink.Render(url))
	return nil
}

// encodeInput returns the PlantUML text to encode: generated from a proto
// schema, read from a file, or read from stdin.
func (c *CLI) encodeInput(ctx context.Context, input string, proto bool) (string, error) {
	if proto {
		if input == "" {
			return "", fmt.Errorf("--proto requires a schema file argument")
		}
		diagram, err := c.generateDiagram(ctx, input)
		if err != nil {
			return "", err
		}
		return diagram.Text, nil
	}
	if input == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
