package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"vls-mesh/internal/batch"
	"vls-mesh/internal/config"
	"vls-mesh/internal/gene"
	"vls-mesh/internal/mesh"
	"vls-mesh/internal/viewmatrix"
	"vls-mesh/internal/vls"
)

func (a *app) decodeCmd() *cobra.Command {
	var (
		file, output, preview string
		view                  string
		asJSON                bool
		weld                  float64
		maxPower              int
	)
	cmd := &cobra.Command{
		Use:   "decode [program]",
		Short: "Decode a program and report the resulting mesh",
		Long: "Decode a program given as an argument, a .gene file (-f) or stdin (-f -).\n" +
			"Unknown or malformed chunks are reported as warnings; decoding never fails.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := readProgram(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}
			cfg := a.resolve(cmd, config.Flags{View: view})
			if cmd.Flags().Changed("weld-tolerance") {
				cfg.WeldTolerance = weld
			}
			if cmd.Flags().Changed("max-power") {
				cfg.MaxPowerNodes = maxPower
			}

			res := decoderFor(cfg).Decode(program)
			digest, err := res.Mesh.Digest()
			if err != nil {
				return err
			}
			if output != "" {
				if _, err := batch.WriteMesh(output, res.Mesh); err != nil {
					return err
				}
			}
			if preview != "" {
				if err := writePreview(cfg, res.Mesh, preview); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, summarize(program, res, digest))
			}
			printSummary(out, summarize(program, res, digest))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the program from a .gene file (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the canonical CBOR mesh to this path")
	cmd.Flags().StringVar(&preview, "preview", "", "Write a WebP preview to this path")
	addViewFlag(cmd, &view)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().Float64Var(&weld, "weld-tolerance", 0, "Weld vertices closer than this distance (0: exact 6-decimal welding)")
	cmd.Flags().IntVar(&maxPower, "max-power", 0, "Cap on N in power notation")
	return cmd
}

// readProgram picks the program from -f, stdin or the first argument.
func readProgram(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return gene.Normalize(string(data)), nil
	case file != "":
		return gene.Read(file)
	case len(args) > 0:
		return args[0], nil
	}
	return "", fmt.Errorf("no program: pass one as an argument or use -f")
}

func decoderFor(cfg config.Config) *vls.Decoder {
	return vls.NewDecoder(vls.Options{MaxPowerNodes: cfg.MaxPowerNodes, WeldTolerance: cfg.WeldTolerance})
}

type decodeSummary struct {
	Program   string         `json:"program"`
	Vertices  int            `json:"vertices"`
	Triangles int            `json:"triangles"`
	Digest    string         `json:"digest"`
	Materials map[string]any `json:"materials,omitempty"`
	Lights    []mesh.Light   `json:"lights,omitempty"`
	Warnings  []vls.Warning  `json:"warnings,omitempty"`
	Final     vls.State      `json:"final"`
}

func summarize(program string, res vls.Result, digest string) decodeSummary {
	s := decodeSummary{
		Program:   program,
		Vertices:  res.Mesh.VertexCount(),
		Triangles: res.Mesh.TriangleCount(),
		Digest:    digest,
		Lights:    res.Mesh.Lights,
		Warnings:  res.Warnings,
		Final:     res.Final,
	}
	if len(res.Mesh.Materials) > 0 {
		s.Materials = res.Mesh.Materials
	}
	return s
}

func printSummary(w io.Writer, s decodeSummary) {
	fmt.Fprintf(w, "Vertices:  %d\n", s.Vertices)
	fmt.Fprintf(w, "Triangles: %d\n", s.Triangles)
	fmt.Fprintf(w, "Digest:    %s\n", s.Digest)
	fmt.Fprintf(w, "Cursor:    (%g, %g, %g) scale %g\n",
		s.Final.Position[0], s.Final.Position[1], s.Final.Position[2], s.Final.Scale)
	if len(s.Materials) > 0 {
		keys := make([]string, 0, len(s.Materials))
		for k := range s.Materials {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, s.Materials[k])
		}
		fmt.Fprintf(w, "Materials: %s\n", strings.Join(parts, " "))
	}
	if len(s.Lights) > 0 {
		fmt.Fprintf(w, "Lights:    %d\n", len(s.Lights))
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", len(s.Warnings))
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addViewFlag(cmd *cobra.Command, view *string) {
	cmd.Flags().StringVar(view, "view", "", "Preview camera: "+strings.Join(viewmatrix.Names(), ", "))
}

func previewOptions(cfg config.Config) batch.PreviewOptions {
	return batch.PreviewOptions{
		View:        cfg.PreviewView,
		Size:        cfg.PreviewSize,
		Supersample: cfg.Supersample,
		Fill:        cfg.PreviewFill,
	}
}

func writePreview(cfg config.Config, b *mesh.Buffer, path string) error {
	img, err := batch.RenderPreview(b, previewOptions(cfg))
	if err != nil {
		return err
	}
	return batch.WritePreview(path, img)
}
