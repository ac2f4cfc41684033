// Command maskgen generates lung-segmentation masks for a directory of
// chest radiographs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"cxr-features/internal/config"
	"cxr-features/internal/segment"
	"cxr-features/internal/version"
)

func main() {
	in := flag.String("in", "", "Directory of input radiographs")
	out := flag.String("out", "", "Directory to write mask images")
	width := flag.Int("width", 0, "Target image width (default from config)")
	height := flag.Int("height", 0, "Target image height (default from config)")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Println("Usage: maskgen -in <images dir> -out <masks dir> [-width 256] [-height 256]")
		os.Exit(1)
	}

	logrus.WithField("version", version.Version).Info("mask generation stage starting")

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if *width == 0 {
		*width = cfg.ImageWidth
	}
	if *height == 0 {
		*height = cfg.ImageHeight
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create output directory")
	}

	gen := &segment.Generator{
		Model:     segment.NewOtsuModel(),
		FolderIn:  *in,
		FolderOut: *out,
		Width:     *width,
		Height:    *height,
	}
	if err := gen.Generate(); err != nil {
		logrus.WithError(err).Fatal("mask generation failed")
	}
	logrus.Info("mask generation complete")
}
