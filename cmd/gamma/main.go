// Command gamma runs a gamma-index comparison between a reference and an
// evaluated dose image and prints a pass-rate summary.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/itohio/EasyRobot/pkg/gamma"
	"github.com/itohio/EasyRobot/pkg/gamma/config"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
	gammaio "github.com/itohio/EasyRobot/pkg/gamma/io"
	"github.com/itohio/EasyRobot/pkg/gamma/io/dicom"
	"github.com/itohio/EasyRobot/pkg/gamma/io/metaimage"
	"github.com/itohio/EasyRobot/pkg/gamma/preview"
	"github.com/itohio/EasyRobot/pkg/gamma/result"
)

var (
	refPath    = flag.String("ref", "", "path to the reference dose image (.dcm or .mha)")
	evalPath   = flag.String("eval", "", "path to the evaluated dose image (.dcm or .mha)")
	paramsPath = flag.String("params", "", "path to a YAML or JSON gamma parameters file")
	method     = flag.String("method", "", "override the parameter file's method: classic or wendling")
	outPath    = flag.String("out", "", "optional MetaImage output path for the gamma field")
	workers    = flag.Int("workers", 0, "worker goroutine count (0 = the parameter file's workers, or GOMAXPROCS if that is unset)")
	pngPath    = flag.String("png", "", "optional PNG preview of the first frame")
	verbose    = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("gamma run failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	if *refPath == "" || *evalPath == "" || *paramsPath == "" {
		flag.Usage()
		return fmt.Errorf("gamma: -ref, -eval and -params are required")
	}

	p, err := config.Load(*paramsPath)
	if err != nil {
		return err
	}
	if m := strings.ToLower(*method); m != "" {
		switch m {
		case "classic":
			p.Method = gamma.Classic
		case "wendling":
			p.Method = gamma.Wendling
		default:
			return fmt.Errorf("gamma: unknown -method %q", m)
		}
	}

	ref, err := readImage(*refPath)
	if err != nil {
		return err
	}
	eval, err := readImage(*evalPath)
	if err != nil {
		return err
	}

	opts := []gamma.Option{gamma.WithLogger(log)}
	if *workers > 0 {
		opts = append(opts, gamma.WithWorkers(*workers))
	}

	res, err := gamma.Compute(ref, eval, p, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("passing rate: %.4f\n", res.PassingRate())
	fmt.Printf("min gamma:    %.4f\n", res.MinGamma())
	fmt.Printf("max gamma:    %.4f\n", res.MaxGamma())
	fmt.Printf("mean gamma:   %.4f\n", res.MeanGamma())

	if *outPath != "" {
		if err := writeMetaImage(*outPath, res.Image); err != nil {
			return err
		}
	}
	if *pngPath != "" {
		mat, err := preview.RenderSlice(res.Image, 0, image.Axial, previewScaleMax(res), gocv.ColormapJet)
		if err != nil {
			return err
		}
		defer mat.Close()
		if err := preview.WritePNG(*pngPath, mat); err != nil {
			return err
		}
	}
	return nil
}

// previewScaleMax picks a normalization ceiling for the PNG preview: the
// field's own max gamma, falling back to 2 (a typical pass/fail cutoff) when
// the result is empty or degenerate.
func previewScaleMax(res result.Result) float32 {
	m := res.MaxGamma()
	if !(m > 0) {
		return 2
	}
	return m
}

func readImage(path string) (image.Image, error) {
	var reader gammaio.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm", ".dicom":
		reader = dicom.Reader{}
	default:
		reader = metaimage.Reader{}
	}

	f, err := os.Open(path)
	if err != nil {
		return image.Image{}, err
	}
	defer f.Close()
	return reader.Read(f)
}

func writeMetaImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (metaimage.Writer{}).Write(f, img)
}
