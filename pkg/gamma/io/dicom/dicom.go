// Package dicom reads and writes RT-Dose datasets on top of
// github.com/suyashkumar/dicom, translating between its generic Element/tag
// model and the gamma-domain image.Image.
package dicom

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	godicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// sopClassRTDose is the RT Dose Storage SOP Class UID (PS3.6).
const sopClassRTDose = "1.2.840.10008.5.1.4.1.1.481.2"

const transferSyntaxExplicitLE = "1.2.840.10008.1.2.1"

// doseScale is the fixed DoseGridScaling this writer applies: pixel data is
// stored as 32-bit unsigned integers of value/doseScale, rounded.
const doseScale = 1e-4

// Reader decodes a DICOM RT-Dose stream into an image.Image.
type Reader struct{}

func elementStrings(ds godicom.Dataset, t tag.Tag) ([]string, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, false
	}
	v, ok := el.Value.GetValue().([]string)
	return v, ok
}

func elementInts(ds godicom.Dataset, t tag.Tag) ([]int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, false
	}
	v, ok := el.Value.GetValue().([]int)
	return v, ok
}

func parseFloats(ss []string) ([]float32, error) {
	out := make([]float32, len(ss))
	for i, s := range ss {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// nativeSamples flattens a frame's native pixel samples into float32, in
// storage order, regardless of the frame's underlying integer width.
func nativeSamples(f *frame.Frame) ([]float32, error) {
	const op = "dicom.nativeSamples"
	switch nd := f.NativeData.(type) {
	case *frame.NativeFrame[uint8]:
		out := make([]float32, len(nd.RawData))
		for i, v := range nd.RawData {
			out[i] = float32(v)
		}
		return out, nil
	case *frame.NativeFrame[uint16]:
		out := make([]float32, len(nd.RawData))
		for i, v := range nd.RawData {
			out[i] = float32(v)
		}
		return out, nil
	case *frame.NativeFrame[uint32]:
		out := make([]float32, len(nd.RawData))
		for i, v := range nd.RawData {
			out[i] = float32(v)
		}
		return out, nil
	default:
		return nil, gerr.New(gerr.UnexpectedFormat, op, "unsupported native pixel sample width")
	}
}

// Read parses data as a DICOM RT-Dose dataset and builds an image.Image from
// its PixelData, scaled by DoseGridScaling (or RescaleSlope/Intercept).
func (Reader) Read(r io.Reader) (image.Image, error) {
	const op = "dicom.Read"

	data, err := io.ReadAll(r)
	if err != nil {
		return image.Image{}, gerr.Wrap(gerr.IOError, op, "reading stream", err)
	}
	ds, err := godicom.Parse(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return image.Image{}, gerr.Wrap(gerr.UnexpectedFormat, op, "parsing DICOM stream", err)
	}

	sop, ok := elementStrings(ds, tag.SOPClassUID)
	if !ok || len(sop) == 0 || sop[0] != sopClassRTDose {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "SOP Class UID is not RT Dose")
	}

	rowsV, okRows := elementInts(ds, tag.Rows)
	colsV, okCols := elementInts(ds, tag.Columns)
	if !okRows || !okCols || len(rowsV) == 0 || len(colsV) == 0 {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "missing Rows/Columns")
	}
	rows, cols := rowsV[0], colsV[0]

	frameCount := 1
	if nf, ok := elementInts(ds, tag.NumberOfFrames); ok && len(nf) > 0 && nf[0] > 0 {
		frameCount = nf[0]
	}

	spacing := image.Spacing{}
	if ps, ok := elementStrings(ds, tag.PixelSpacing); ok && len(ps) >= 2 {
		f, err := parseFloats(ps)
		if err != nil {
			return image.Image{}, gerr.Wrap(gerr.UnexpectedFormat, op, "malformed PixelSpacing", err)
		}
		spacing.Y, spacing.X = f[0], f[1] // row spacing -> Y, column spacing -> X
	}

	offset := image.Offset{}
	if ip, ok := elementStrings(ds, tag.ImagePositionPatient); ok && len(ip) >= 3 {
		f, err := parseFloats(ip)
		if err != nil {
			return image.Image{}, gerr.Wrap(gerr.UnexpectedFormat, op, "malformed ImagePositionPatient", err)
		}
		offset.X, offset.Y, offset.Z = f[0], f[1], f[2]
	}

	switch gf, ok := elementStrings(ds, tag.GridFrameOffsetVector); {
	case ok && len(gf) >= 2:
		f, err := parseFloats(gf)
		if err != nil {
			return image.Image{}, gerr.Wrap(gerr.MissingSpacing, op, "malformed GridFrameOffsetVector", err)
		}
		spacing.Z = f[1] - f[0]
	default:
		sb, ok := elementStrings(ds, tag.SpacingBetweenSlices)
		if !ok || len(sb) == 0 {
			return image.Image{}, gerr.New(gerr.MissingSpacing, op, "no Z spacing retrievable")
		}
		f, err := parseFloats(sb)
		if err != nil {
			return image.Image{}, gerr.Wrap(gerr.MissingSpacing, op, "malformed SpacingBetweenSlices", err)
		}
		spacing.Z = f[0]
	}

	scale, intercept := float32(1), float32(0)
	if dg, ok := elementStrings(ds, tag.DoseGridScaling); ok && len(dg) > 0 {
		if f, err := parseFloats(dg); err == nil && len(f) > 0 {
			scale = f[0]
		}
	} else {
		if rs, ok := elementStrings(ds, tag.RescaleSlope); ok && len(rs) > 0 {
			if f, err := parseFloats(rs); err == nil && len(f) > 0 {
				scale = f[0]
			}
		}
		if ri, ok := elementStrings(ds, tag.RescaleIntercept); ok && len(ri) > 0 {
			if f, err := parseFloats(ri); err == nil && len(f) > 0 {
				intercept = f[0]
			}
		}
	}

	pixelEl, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return image.Image{}, gerr.Wrap(gerr.UnexpectedFormat, op, "missing PixelData", err)
	}
	pdi, ok := pixelEl.Value.GetValue().(godicom.PixelDataInfo)
	if !ok || len(pdi.Frames) == 0 {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "PixelData is not native frame data")
	}

	pixelsPerFrame := rows * cols
	out := make([]float32, frameCount*pixelsPerFrame)
	for k := 0; k < frameCount && k < len(pdi.Frames); k++ {
		samples, err := nativeSamples(pdi.Frames[k])
		if err != nil {
			return image.Image{}, err
		}
		if len(samples) < pixelsPerFrame {
			return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "frame shorter than Rows*Columns")
		}
		for i := 0; i < pixelsPerFrame; i++ {
			out[k*pixelsPerFrame+i] = samples[i]*scale + intercept
		}
	}

	size := image.Size{Frames: frameCount, Rows: rows, Columns: cols}
	return image.New(out, size, offset, spacing)
}

// Writer emits a minimal, valid RT-Dose dataset covering exactly the
// attributes Reader consumes. It does not reproduce an arbitrary upstream
// dataset's full attribute set.
type Writer struct{}

func formatDS(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

type elementSpec struct {
	tag   tag.Tag
	value interface{}
}

func newElements(specs []elementSpec) ([]*godicom.Element, error) {
	const op = "dicom.newElements"
	out := make([]*godicom.Element, 0, len(specs))
	for _, s := range specs {
		el, err := godicom.NewElement(s.tag, s.value)
		if err != nil {
			return nil, gerr.Wrap(gerr.UnexpectedFormat, op, "building element", err)
		}
		out = append(out, el)
	}
	return out, nil
}

// Write builds native 32-bit-unsigned frames (one per Z slice, quantized by
// doseScale) and the RT-Dose metadata Reader expects, then delegates
// serialization to dicom.Write.
func (Writer) Write(w io.Writer, img image.Image) error {
	const op = "dicom.Write"

	size, offset, spacing := img.Size(), img.Offset(), img.Spacing()
	raw := img.Raw()
	pixelsPerFrame := size.Rows * size.Columns

	frames := make([]*frame.Frame, size.Frames)
	for k := 0; k < size.Frames; k++ {
		nf := frame.NewNativeFrame[uint32](32, size.Rows, size.Columns, pixelsPerFrame, 1)
		for i := 0; i < pixelsPerFrame; i++ {
			v := raw[k*pixelsPerFrame+i]
			nf.RawData[i] = uint32(math32.Round(v / doseScale))
		}
		frames[k] = &frame.Frame{Encapsulated: false, NativeData: nf}
	}

	gridOffsets := make([]string, size.Frames)
	for k := range gridOffsets {
		gridOffsets[k] = formatDS(offset.Z + float32(k)*spacing.Z)
	}

	elements, err := newElements([]elementSpec{
		{tag.TransferSyntaxUID, []string{transferSyntaxExplicitLE}},
		{tag.MediaStorageSOPClassUID, []string{sopClassRTDose}},
		{tag.SOPClassUID, []string{sopClassRTDose}},
		{tag.Modality, []string{"RTDOSE"}},
		{tag.Rows, []int{size.Rows}},
		{tag.Columns, []int{size.Columns}},
		{tag.BitsAllocated, []int{32}},
		{tag.BitsStored, []int{32}},
		{tag.HighBit, []int{31}},
		{tag.PixelRepresentation, []int{0}},
		{tag.SamplesPerPixel, []int{1}},
		{tag.PhotometricInterpretation, []string{"MONOCHROME2"}},
		{tag.NumberOfFrames, []string{strconv.Itoa(size.Frames)}},
		{tag.PixelSpacing, []string{formatDS(spacing.Y), formatDS(spacing.X)}},
		{tag.ImagePositionPatient, []string{formatDS(offset.X), formatDS(offset.Y), formatDS(offset.Z)}},
		{tag.GridFrameOffsetVector, gridOffsets},
		{tag.DoseGridScaling, []string{formatDS(doseScale)}},
	})
	if err != nil {
		return err
	}

	pixelElement, err := godicom.NewElement(tag.PixelData, godicom.PixelDataInfo{Frames: frames})
	if err != nil {
		return gerr.Wrap(gerr.UnexpectedFormat, op, "building PixelData element", err)
	}
	elements = append(elements, pixelElement)

	if err := godicom.Write(w, godicom.Dataset{Elements: elements}); err != nil {
		return gerr.Wrap(gerr.IOError, op, "writing DICOM stream", err)
	}
	return nil
}
