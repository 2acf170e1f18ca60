// Package convert turns STL and OpenSCAD sources into 3MF packages: single
// objects, grids of copies, and assemblies of several parts.
package convert

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/geometry"
	"github.com/philipparndt/gostl3mf/pkg/layout"
	"github.com/philipparndt/gostl3mf/pkg/manifest"
	"github.com/philipparndt/gostl3mf/pkg/source"
	"github.com/philipparndt/gostl3mf/pkg/threemf"
	"github.com/philipparndt/gostl3mf/pkg/thumbnail"
	"github.com/philipparndt/gostl3mf/version"
)

// Metadata part names written next to the model
const (
	ConversionInfoName    = "conversion_info.txt"
	GridReportName        = "grid_conversion_report.txt"
	MultiObjectReportName = "multi_object_conversion_report.txt"
)

// Options control what the converter writes
type Options struct {
	// IncludeMetadata adds a plain text conversion report under Metadata/
	IncludeMetadata bool
	// Thumbnail renders Metadata/thumbnail.png
	Thumbnail     bool
	ThumbnailSize int
	ShareMeshes   bool
	UUIDs         bool
	// Properties are written to Metadata/properties.xml when not empty
	Properties threemf.Properties
	Logger     *log.Logger
	// Source loads the input meshes. Nil uses a default loader.
	Source *source.Loader
}

// DefaultOptions returns options with the report and thumbnail enabled
func DefaultOptions() Options {
	return Options{
		IncludeMetadata: true,
		Thumbnail:       true,
		ThumbnailSize:   thumbnail.DefaultSize,
	}
}

// Position is where one object ended up on the build plate
type Position struct {
	Name   string
	Offset geometry.Vector3
}

// Stats describes a finished conversion
type Stats struct {
	ID        string
	Source    string
	Output    string
	Objects   int
	Vertices  int
	Triangles int
	Duration  time.Duration
	Positions []Position
}

// Converter writes 3MF packages from mesh sources
type Converter struct {
	opts   Options
	logger *log.Logger
	loader *source.Loader
}

// New creates a converter
func New(opts Options) *Converter {
	c := &Converter{opts: opts, logger: opts.Logger, loader: opts.Source}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.loader == nil {
		c.loader = &source.Loader{}
	}
	return c
}

// Options returns the converter options
func (c *Converter) Options() Options {
	return c.opts
}

func (c *Converter) load(ctx context.Context, path string) (*source.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.logger.Debug("loading source", "path", path)
	src, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("loaded source", "path", path, "vertices", src.Mesh.VertexCount(), "triangles", src.Mesh.TriangleCount())
	return src, nil
}

// Convert writes in as a single object named after the file
func (c *Converter) Convert(ctx context.Context, in, out string) (*Stats, error) {
	start := time.Now()
	src, err := c.load(ctx, in)
	if err != nil {
		return nil, err
	}

	model := c.newModel(src.Name)
	if _, err := model.Add(src.Mesh, geometry.Identity(), threemf.WithName(src.Name)); err != nil {
		return nil, err
	}

	stats := c.newStats(in, out, model)
	report := func() string { return conversionInfo(src, stats) }
	if err := c.write(out, model, ConversionInfoName, report, start, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ConvertWithCopies writes count copies of in arranged by spec. All copies
// share the loaded mesh.
func (c *Converter) ConvertWithCopies(ctx context.Context, in, out string, count int, spec layout.Spec) (*Stats, error) {
	start := time.Now()
	src, err := c.load(ctx, in)
	if err != nil {
		return nil, err
	}

	placements, err := layout.Compute([]layout.Item{{Mesh: src.Mesh, Count: count, Name: src.Name}}, spec)
	if err != nil {
		return nil, err
	}

	model := c.newModel(src.Name)
	if err := addPlacements(model, placements, []int{count}); err != nil {
		return nil, err
	}

	stats := c.newStats(in, out, model)
	report := func() string { return gridReport(src, count, spec, stats) }
	if err := c.write(out, model, GridReportName, report, start, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ConvertAssembly loads every part and writes all copies onto one plate
func (c *Converter) ConvertAssembly(ctx context.Context, parts []manifest.Part, out string, spec layout.Spec) (*Stats, error) {
	start := time.Now()
	if len(parts) == 0 {
		return nil, errors.Validation("assembly has no parts")
	}

	sources := make([]*source.Source, len(parts))
	items := make([]layout.Item, len(parts))
	counts := make([]int, len(parts))
	inputs := make([]string, len(parts))
	for i, p := range parts {
		src, err := c.load(ctx, p.Path)
		if err != nil {
			return nil, err
		}
		name := p.Name
		if name == "" {
			name = src.Name
		}
		sources[i] = src
		items[i] = layout.Item{Mesh: src.Mesh, Count: p.Count, Name: name}
		counts[i] = p.Count
		inputs[i] = p.Path
	}

	placements, err := layout.Compute(items, spec)
	if err != nil {
		return nil, err
	}

	model := c.newModel("Assembly")
	if err := addPlacements(model, placements, counts); err != nil {
		return nil, err
	}

	stats := c.newStats(joinInputs(inputs), out, model)
	report := func() string { return multiObjectReport(sources, items, spec, stats) }
	if err := c.write(out, model, MultiObjectReportName, report, start, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Converter) newModel(title string) *threemf.Model {
	model := threemf.NewModel("")
	model.SetMetadata("Title", title)
	model.SetMetadata("Application", "gostl3mf "+version.GetVersion())
	model.SetMetadata("CreationDate", time.Now().UTC().Format("2006-01-02"))
	return model
}

// addPlacements adds every placement, naming copies <name>_<n> when the
// group has more than one instance
func addPlacements(model *threemf.Model, placements []layout.Placement, counts []int) error {
	for _, p := range placements {
		name := p.Name
		if counts[p.Group] > 1 {
			name = copyName(p.Name, p.Copy)
		}
		if _, err := model.Add(p.Mesh, p.Transform, threemf.WithName(name)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) newStats(in, out string, model *threemf.Model) *Stats {
	stats := &Stats{
		ID:     uuid.NewString(),
		Source: in,
		Output: out,
	}
	for _, o := range model.Objects() {
		stats.Objects++
		stats.Vertices += o.Mesh.VertexCount()
		stats.Triangles += o.Mesh.TriangleCount()
		stats.Positions = append(stats.Positions, Position{Name: o.Name, Offset: o.Transform.Offset()})
	}
	return stats
}

func (c *Converter) writerOptions() []threemf.WriterOption {
	var opts []threemf.WriterOption
	if c.opts.ShareMeshes {
		opts = append(opts, threemf.ShareMeshes())
	}
	if c.opts.UUIDs {
		opts = append(opts, threemf.WithUUIDs())
	}
	return opts
}

// write commits the model to out together with its thumbnail and report
func (c *Converter) write(out string, model *threemf.Model, reportName string, report func() string, start time.Time, stats *Stats) error {
	var png []byte
	if c.opts.Thumbnail {
		size := c.opts.ThumbnailSize
		if size <= 0 {
			size = thumbnail.DefaultSize
		}
		opts := thumbnail.DefaultOptions()
		opts.Size = size

		var err error
		if png, err = thumbnail.Model(model, opts); err != nil {
			return err
		}
	}

	w, err := threemf.Create(out, c.writerOptions()...)
	if err != nil {
		return err
	}
	if err := w.AddModel(model); err != nil {
		_ = w.Abort()
		return err
	}
	if png != nil {
		if err := w.SetThumbnail(png); err != nil {
			_ = w.Abort()
			return err
		}
	}

	if len(c.opts.Properties) > 0 {
		if err := w.SetProperties(c.opts.Properties); err != nil {
			_ = w.Abort()
			return err
		}
	}

	stats.Duration = time.Since(start)
	if c.opts.IncludeMetadata {
		if err := w.SetMetadata(reportName, []byte(report())); err != nil {
			_ = w.Abort()
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	stats.Duration = time.Since(start)

	c.logger.Info("wrote package", "output", out, "objects", stats.Objects, "triangles", stats.Triangles, "duration", stats.Duration.Round(time.Millisecond))
	return nil
}
