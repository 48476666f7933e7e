package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vls-mesh/internal/batch"
	"vls-mesh/internal/config"
	"vls-mesh/internal/gene"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/texture"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		output, tex string
		view        string
		size        int
		supersample int
		fill        float64
	)
	cmd := &cobra.Command{
		Use:   "render <file.gene|file.vlsb>",
		Short: "Render a program or canonical mesh to a WebP preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.resolve(cmd, config.Flags{Size: size, View: view})
			if supersample > 0 {
				cfg.Supersample = supersample
			}
			if fill > 0 {
				cfg.PreviewFill = fill
			}

			in := args[0]
			b, err := loadMesh(cfg, in)
			if err != nil {
				return err
			}
			var img *image.NRGBA
			if tex != "" {
				if img, err = texture.LoadTexture(tex); err != nil {
					return err
				}
			}
			if output == "" {
				output = strings.TrimSuffix(in, filepath.Ext(in)) + ".webp"
			}

			opts := previewOptions(cfg)
			opts.Texture = img
			preview, err := batch.RenderPreview(b, opts)
			if err != nil {
				return err
			}
			if err := batch.WritePreview(output, preview); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preview: %s (%d triangles)\n", output, b.TriangleCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: input with .webp)")
	cmd.Flags().StringVar(&tex, "texture", "", "Texture image (PNG, TGA or JPEG) sampled with vertex UVs")
	addViewFlag(cmd, &view)
	cmd.Flags().IntVar(&size, "size", 0, "Preview edge in pixels")
	cmd.Flags().IntVar(&supersample, "supersample", 0, "Supersampling factor")
	cmd.Flags().Float64Var(&fill, "fill", 0, "Fraction of the canvas the mesh fills")
	return cmd
}

// loadMesh reads a canonical mesh file or decodes a .gene file.
func loadMesh(cfg config.Config, path string) (*mesh.Buffer, error) {
	if gene.IsGene(path) {
		program, err := gene.Read(path)
		if err != nil {
			return nil, err
		}
		return decoderFor(cfg).Decode(program).Mesh, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return mesh.UnmarshalCanonical(data)
}
