package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vls-mesh/internal/batch"
	"vls-mesh/internal/catalog"
	"vls-mesh/internal/config"
	"vls-mesh/internal/leaf"
	"vls-mesh/internal/mathutil"
	"vls-mesh/internal/mesh"
)

// leafFlags are shared by the leaf and cluster commands.
type leafFlags struct {
	catalog, detail, spacing string
	output, preview, view    string
	rotation, bend           float64
}

func (f *leafFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "Species catalog file (YAML or JSON) layered over the built-ins")
	cmd.Flags().StringVar(&f.detail, "detail", "", "Detail level: low, medium or high")
	cmd.Flags().StringVar(&f.spacing, "spacing", "", "Ring spacing: exclusive or inclusive")
	cmd.Flags().Uint64("seed", 0, "Random seed")
	cmd.Flags().Float64Var(&f.rotation, "rotate", 0, "Rotation about Z in degrees")
	cmd.Flags().Float64Var(&f.bend, "bend", 0, "Bend factor (z += y*bend)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the canonical CBOR mesh to this path")
	cmd.Flags().StringVar(&f.preview, "preview", "", "Write a WebP preview to this path")
	addViewFlag(cmd, &f.view)
}

// setup resolves config, the species template and synthesis options.
func (f *leafFlags) setup(a *app, cmd *cobra.Command, species string) (config.Config, leaf.Template, leaf.Options, error) {
	cfg := a.resolve(cmd, config.Flags{Catalog: f.catalog, Detail: f.detail, View: f.view})
	if f.spacing != "" {
		cfg.RingSpacing = f.spacing
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return cfg, leaf.Template{}, leaf.Options{}, err
	}
	t, err := cat.Get(species)
	if err != nil {
		return cfg, leaf.Template{}, leaf.Options{}, err
	}
	opts, err := leafOptions(cfg)
	if err != nil {
		return cfg, leaf.Template{}, leaf.Options{}, err
	}
	opts.Rotation = mathutil.Deg2Rad(f.rotation)
	opts.Bend = f.bend
	return cfg, t, opts, nil
}

func (f *leafFlags) write(cfg config.Config, b *mesh.Buffer) error {
	if f.output != "" {
		if _, err := batch.WriteMesh(f.output, b); err != nil {
			return err
		}
	}
	if f.preview != "" {
		return writePreview(cfg, b, f.preview)
	}
	return nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.TemplateCatalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.TemplateCatalog)
}

func leafOptions(cfg config.Config) (leaf.Options, error) {
	detail, err := leaf.ParseDetail(cfg.DetailLevel)
	if err != nil {
		return leaf.Options{}, err
	}
	spacing, err := leaf.ParseSpacing(cfg.RingSpacing)
	if err != nil {
		return leaf.Options{}, err
	}
	return leaf.Options{
		Detail:        detail,
		Spacing:       spacing,
		WeldTolerance: cfg.WeldTolerance,
		Rand:          leaf.NewSource(cfg.Seed),
	}, nil
}

func (a *app) leafCmd() *cobra.Command {
	var (
		f    leafFlags
		list bool
	)
	cmd := &cobra.Command{
		Use:   "leaf [species]",
		Short: "Synthesize one leaf mesh from a species template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				cfg := a.resolve(cmd, config.Flags{Catalog: f.catalog})
				cat, err := loadCatalog(cfg)
				if err != nil {
					return err
				}
				for _, n := range cat.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}

			species := "simple"
			if len(args) > 0 {
				species = args[0]
			}
			cfg, t, opts, err := f.setup(a, cmd, species)
			if err != nil {
				return err
			}
			res, err := leaf.Generate(t, opts)
			if err != nil {
				return err
			}
			if err := f.write(cfg, res.Mesh); err != nil {
				return err
			}
			return printLeaf(cmd.OutOrStdout(), t, res.Mesh, res.Stats)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "List available species and exit")
	return cmd
}

func printLeaf(w io.Writer, t leaf.Template, b *mesh.Buffer, st leaf.Stats) error {
	digest, err := b.Digest()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Species:   %s (%s, outline %s)\n", t.Name, t.Shape, t.OutlineCode)
	fmt.Fprintf(w, "Segments:  %d x %d rings\n", st.Segments, st.Rings)
	fmt.Fprintf(w, "Triangles: %d (base %d)\n", st.Triangles, st.BaseTriangles)
	fmt.Fprintf(w, "Vertices:  %d (raw %d)\n", st.Vertices, st.RawVertices)
	fmt.Fprintf(w, "Digest:    %s\n", digest)
	return nil
}

func (a *app) clusterCmd() *cobra.Command {
	var (
		f                   leafFlags
		count               int
		stepSpacing, radius float64
	)
	cmd := &cobra.Command{
		Use:   "cluster [species]",
		Short: "Synthesize leaves spiralled along a branch into one mesh",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			species := "simple"
			if len(args) > 0 {
				species = args[0]
			}
			cfg, t, opts, err := f.setup(a, cmd, species)
			if err != nil {
				return err
			}
			res, err := leaf.Cluster(t, leaf.ClusterOptions{
				Count:   count,
				Spacing: stepSpacing,
				Radius:  radius,
				Leaf:    opts,
			})
			if err != nil {
				return err
			}
			if err := f.write(cfg, res.Mesh); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Leaves:    %d x %s\n", len(res.Placements), t.Name)
			fmt.Fprintf(w, "Vertices:  %d\n", res.Mesh.VertexCount())
			fmt.Fprintf(w, "Triangles: %d\n", res.Mesh.TriangleCount())
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&count, "count", 8, "Number of leaves")
	cmd.Flags().Float64Var(&stepSpacing, "step", 0.3, "Distance along the branch between leaves")
	cmd.Flags().Float64Var(&radius, "radius", 0.2, "Distance of each leaf from the branch axis")
	return cmd
}
