// Command preprocess equalizes and masks a directory of radiographs,
// saving the processed copies.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"cxr-features/internal/config"
	"cxr-features/internal/equalize"
	"cxr-features/internal/preprocess"
	"cxr-features/internal/version"
)

func main() {
	in := flag.String("in", "", "Directory of input radiographs")
	masks := flag.String("masks", "", "Directory of lung masks")
	out := flag.String("out", "", "Directory to write processed images")
	width := flag.Int("width", 0, "Target image width (default from config)")
	height := flag.Int("height", 0, "Target image height (default from config)")
	flag.Parse()

	if *in == "" || *masks == "" || *out == "" {
		fmt.Println("Usage: preprocess -in <images dir> -masks <masks dir> -out <processed dir> [-width 256] [-height 256]")
		os.Exit(1)
	}

	logrus.WithField("version", version.Version).Info("preprocess stage starting")

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

	proc := &preprocess.Processor{
		Width:     *width,
		Height:    *height,
		Equalizer: equalize.NewWithParams(cfg.ClaheClipLimit, cfg.ClaheTileSize),
	}
	if err := proc.Run(*in, *masks, *out); err != nil {
		logrus.WithError(err).Fatal("preprocessing failed")
	}
	logrus.Info("preprocessing complete")
}
