package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weightlog/internal/adapter/imaging"
	"weightlog/internal/app"
	"weightlog/internal/domain"
)

type viewFlags struct {
	zoom  float64
	steps int
	x, y  int
}

func (v *viewFlags) register(cmd *cobra.Command, side string) {
	cmd.Flags().Float64Var(&v.zoom, side+"-zoom", 1, "scale of the "+side+" photo")
	cmd.Flags().IntVar(&v.steps, side+"-steps", 0, "zoom steps on the "+side+" photo (negative zooms out)")
	cmd.Flags().IntVar(&v.x, side+"-x", 0, "horizontal pan of the "+side+" photo in pixels")
	cmd.Flags().IntVar(&v.y, side+"-y", 0, "vertical pan of the "+side+" photo in pixels")
}

// viewport applies the pan first, then the zoom steps about the pane
// centre, as a mouse wheel over the middle of the pane would.
func (v *viewFlags) viewport(pane image.Point) domain.Viewport {
	vp := domain.Viewport{Scale: v.zoom}.Normalize().Pan(v.x, v.y)
	center := pane.Div(2)
	for i := 0; i < v.steps; i++ {
		vp = vp.ZoomAt(domain.ZoomInFactor, center)
	}
	for i := 0; i > v.steps; i-- {
		vp = vp.ZoomAt(domain.ZoomOutFactor, center)
	}
	return vp
}

func (c *cli) compareCmd() *cobra.Command {
	var (
		left, right   viewFlags
		width, height int
		format, out   string
	)
	cmd := &cobra.Command{
		Use:   "compare LEFT_DAY RIGHT_DAY",
		Short: "Write the photos of two entries side by side into one image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			f, err := imaging.ParseFormat(format)
			if err != nil {
				return err
			}

			pane := image.Pt(width, height)
			return c.withServices(func(s *services) error {
				img, err := s.photos.Compare(cmd.Context(), app.CompareRequest{
					LeftDay:   args[0],
					RightDay:  args[1],
					LeftView:  left.viewport(pane),
					RightView: right.viewport(pane),
					Pane:      pane,
				})
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := imaging.Encode(&buf, img, f); err != nil {
					return fmt.Errorf("%w: encode: %w", domain.ErrIO, err)
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("%w: write %s: %w", domain.ErrIO, out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				return nil
			})
		},
	}
	left.register(cmd, "left")
	right.register(cmd, "right")
	cmd.Flags().IntVar(&width, "width", app.DefaultPaneWidth, "width of each pane")
	cmd.Flags().IntVar(&height, "height", app.DefaultPaneHeight, "height of each pane")
	cmd.Flags().StringVar(&format, "format", "", "png or jpeg (default from --out extension)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
