package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jxlcore/jxl"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.jxl>",
		Short: "Print a codestream's image header without decoding frame data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			md, err := jxl.DecodeMetadata(in)
			if err != nil {
				return fmt.Errorf("read metadata from %s: %w", args[0], err)
			}

			fmt.Printf("size:        %dx%d\n", md.Width, md.Height)
			fmt.Printf("orientation: %d\n", md.Orientation)
			fmt.Printf("bit depth:   %d (float=%t)\n", md.BitsPerSample, md.FloatSample)
			fmt.Printf("xyb encoded: %t\n", md.XYBEncoded)
			fmt.Printf("color space: %v\n", md.ColorSpace)
			fmt.Printf("alpha:       %t\n", md.HasAlpha)
			fmt.Printf("extra chans: %d\n", md.NumExtra)
			if md.HasAnimation {
				fmt.Printf("animation:   %d loop(s)\n", md.NumLoops)
			}
			if len(md.ICCProfile) > 0 {
				fmt.Printf("icc profile: %d bytes (embedded, no CMS configured)\n", len(md.ICCProfile))
			}
			return nil
		},
	}
}
