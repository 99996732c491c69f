package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/jxlcore/jxl"
)

func newDecodeCmd() *cobra.Command {
	var output string
	var frameIndex int

	cmd := &cobra.Command{
		Use:   "decode <input.jxl>",
		Short: "Decode a JPEG XL codestream and write a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			logger.Info("decoding", "input", args[0])
			result, err := jxl.DecodeImage(in, nil)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if frameIndex < 0 || frameIndex >= len(result.Frames) {
				return fmt.Errorf("frame index %d out of range (%d frames decoded)", frameIndex, len(result.Frames))
			}

			if output == "" {
				output = args[0] + ".png"
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()

			if err := png.Encode(out, result.Frames[frameIndex].Image); err != nil {
				return fmt.Errorf("encode %s: %w", output, err)
			}
			logger.Info("wrote png", "output", output, "frames", len(result.Frames))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default: <input>.png)")
	cmd.Flags().IntVar(&frameIndex, "frame", 0, "which decoded frame to write, for animations")
	return cmd
}
