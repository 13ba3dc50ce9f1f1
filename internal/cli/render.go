package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/pkg/cache"
	"github.com/matzehuels/assetcanvas/pkg/canvas"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	aio "github.com/matzehuels/assetcanvas/pkg/io"
	"github.com/matzehuels/assetcanvas/pkg/render"
	"github.com/matzehuels/assetcanvas/pkg/render/dot"
	"github.com/matzehuels/assetcanvas/pkg/render/sink"
	"github.com/matzehuels/assetcanvas/pkg/store"
)

// Output formats accepted by render.
const (
	formatSVG     = "svg"
	formatPNG     = "png"
	formatPDF     = "pdf"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
	formatDOT     = "dot"
	formatDiagram = "diagram"
)

var validFormats = []string{formatSVG, formatPNG, formatPDF, formatJSON, formatMsgpack, formatDOT, formatDiagram}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file, "-" for stdout
	format     string   // one of validFormats
	width      float64  // stage width in pixels
	height     float64  // stage height in pixels
	open       []string // ids to open in order, like double clicks
	selected   string   // id to select before drawing
	ids        bool     // emit id and data attributes in SVG
	background string   // SVG background color
	pngScale   float64  // raster scale for PNG
	depth      string   // deepest kind for DOT
	detailed   bool     // DOT labels with details
	noCache    bool     // skip the diagram cache
	diagrams   cache.Cache
}

// renderCommand creates the render command for drawing the canvas to a file.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format:     formatSVG,
		width:      1200,
		height:     800,
		background: sink.DefaultBackground,
		pngScale:   2,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the canvas or the hierarchy tree to a file",
		Long: `Draw the canvas to a file.

The enterprise is read from file, or from the configured storage when no
file is given. --open drills the stage the way double clicks would, e.g.
--open reg-emea --open plant-de-1 draws the areas of the Berlin plant.

The dot and diagram formats draw the whole tree instead of the canvas:
dot writes Graphviz source, diagram writes the Graphviz layout as SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from input, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(validFormats, ", "))
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "stage width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "stage height")
	cmd.Flags().StringSliceVar(&opts.open, "open", nil, "ids to open before drawing, in order")
	cmd.Flags().StringVar(&opts.selected, "select", "", "id to select before drawing")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "add id and data attributes to SVG shapes")
	cmd.Flags().StringVar(&opts.background, "background", opts.background, "SVG background color")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG resolution multiplier")
	cmd.Flags().StringVar(&opts.depth, "depth", "", "deepest level in DOT output (region, plant, area, location, equipment)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include ids and attributes in DOT labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "re-render diagrams instead of using the cache")

	return cmd
}

// validateFormat checks that format is one of validFormats.
func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %s (must be one of %s)",
			format, strings.Join(validFormats, ", "))
	}
	return nil
}

// outputPath derives the output path from the input file name. With no
// input it falls back to "enterprise.<format>".
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	ext := format
	if format == formatDiagram {
		ext = "tree.svg"
	}
	if input == "" {
		return "enterprise." + ext
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	e, err := c.loadEnterprise(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug("loaded enterprise", "name", e.Name, "summary", summary(hierarchy.Count(e)))

	if opts.format == formatDiagram && opts.diagrams == nil {
		opts.diagrams = c.newDiagramCache(opts.noCache)
		defer opts.diagrams.Close()
	}

	data, err := renderEnterprise(ctx, e, opts)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, opts.format)
	if err := writeOutput(os.Stdout, path, data); err != nil {
		return err
	}
	if path != "-" {
		prog.done("rendered", "path", path, "format", opts.format, "bytes", len(data))
	}
	return nil
}

// loadEnterprise reads input, or the configured storage when input is
// empty.
func (c *CLI) loadEnterprise(ctx context.Context, input string) (*hierarchy.Enterprise, error) {
	if input != "" {
		return aio.ImportJSON(input)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, backend, err := c.openStore(ctx, cfg, false)
	if err != nil {
		return nil, err
	}
	defer backend.Close()
	return st.Enterprise(), nil
}

// renderEnterprise mounts a headless canvas on e, applies the requested
// navigation and draws one frame.
func renderEnterprise(ctx context.Context, e *hierarchy.Enterprise, opts *renderOpts) ([]byte, error) {
	switch opts.format {
	case formatDOT:
		return renderDOT(e, opts)
	case formatDiagram:
		src, err := renderDOT(e, opts)
		if err != nil {
			return nil, err
		}
		svg, hit, err := dot.RenderSVGCached(ctx, opts.diagrams, string(src))
		loggerFromContext(ctx).Debug("rendered diagram", "cached", hit)
		return svg, err
	}

	size := geom.Size{Width: opts.width, Height: opts.height}
	if size.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stage size must be positive, got %vx%v", opts.width, opts.height)
	}

	st := store.New(e)
	cv := canvas.New(st, canvas.WithLogger(loggerFromContext(ctx)), canvas.WithSize(size))
	if err := cv.Mount(ctx, sink.NewContainer(size)); err != nil {
		return nil, err
	}
	defer cv.Unmount()

	for _, id := range opts.open {
		if !cv.Open(id) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "%q is not on the stage", id)
		}
	}
	if opts.selected != "" {
		if err := st.SetSelectedItem(opts.selected); err != nil {
			return nil, err
		}
	}

	frame := cv.Frame()
	switch opts.format {
	case formatJSON:
		return sink.RenderJSON(frame)
	case formatMsgpack:
		return sink.RenderMsgpack(frame)
	}

	svgOpts := []sink.SVGOption{sink.WithBackground(opts.background)}
	if opts.ids {
		svgOpts = append(svgOpts, sink.WithIDs())
	}
	svg := sink.RenderSVG(frame, svgOpts...)

	switch opts.format {
	case formatPNG:
		return render.ToPNG(ctx, svg, opts.pngScale)
	case formatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}

func renderDOT(e *hierarchy.Enterprise, opts *renderOpts) ([]byte, error) {
	dotOpts := dot.Options{Detailed: opts.detailed}
	if opts.depth != "" {
		k, ok := hierarchy.ParseKind(opts.depth)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown depth %q", opts.depth)
		}
		dotOpts.Depth = k
	}
	return []byte(dot.ToDOT(e, dotOpts)), nil
}
