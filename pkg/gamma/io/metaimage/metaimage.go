// Package metaimage implements the MetaImage (MHA) reader/writer: a plain
// ASCII key-value header followed by a raw pixel payload.
package metaimage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// elementType names the MetaImage ElementType values this package accepts.
type elementType string

const (
	metUChar  elementType = "MET_UCHAR"
	metShort  elementType = "MET_SHORT"
	metUShort elementType = "MET_USHORT"
	metInt    elementType = "MET_INT"
	metUInt   elementType = "MET_UINT"
	metFloat  elementType = "MET_FLOAT"
	metDouble elementType = "MET_DOUBLE"
)

func (t elementType) byteSize() int {
	switch t {
	case metUChar:
		return 1
	case metShort, metUShort:
		return 2
	case metInt, metUInt, metFloat:
		return 4
	case metDouble:
		return 8
	default:
		return 0
	}
}

// Reader decodes a MetaImage (.mha) stream into an image.Image.
type Reader struct{}

// Read implements the gamma io.Reader contract over the ASCII-header +
// raw-payload format. The binary payload is read from r right after the
// ElementDataFile line; a separate data file named there is not opened.
func (Reader) Read(r io.Reader) (image.Image, error) {
	const op = "metaimage.Read"

	br := bufio.NewReader(r)
	header := map[string]string{}

	for {
		line, err := br.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			key, val, ok := strings.Cut(trimmed, "=")
			if !ok {
				return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "malformed header line: "+trimmed)
			}
			key = strings.TrimSpace(key)
			header[key] = strings.TrimSpace(val)
			if key == "ElementDataFile" {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return image.Image{}, gerr.Wrap(gerr.IOError, op, "reading header", err)
		}
	}

	dimSize, ok := header["DimSize"]
	if !ok {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "missing DimSize")
	}
	dims, err := parseInts(dimSize)
	if err != nil || len(dims) < 2 {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "malformed DimSize")
	}
	cols, rows := dims[0], dims[1]
	frames := 1
	if len(dims) >= 3 {
		frames = dims[2]
	}

	et := elementType(strings.TrimSpace(header["ElementType"]))
	elemSize := et.byteSize()
	if elemSize == 0 {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "unsupported ElementType: "+string(et))
	}

	spacing := image.Spacing{Z: 1, Y: 1, X: 1}
	if v, ok := header["ElementSpacing"]; ok {
		s, err := parseFloats(v)
		if err == nil && len(s) >= 2 {
			spacing.X, spacing.Y = s[0], s[1]
			if len(s) >= 3 {
				spacing.Z = s[2]
			}
		}
	}

	offset := image.Offset{}
	if v, ok := header["Offset"]; ok {
		o, err := parseFloats(v)
		if err == nil && len(o) >= 2 {
			offset.X, offset.Y = o[0], o[1]
			if len(o) >= 3 {
				offset.Z = o[2]
			}
		}
	} else if v, ok := header["Position"]; ok {
		o, err := parseFloats(v)
		if err == nil && len(o) >= 2 {
			offset.X, offset.Y = o[0], o[1]
			if len(o) >= 3 {
				offset.Z = o[2]
			}
		}
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if strings.EqualFold(header["ElementByteOrderMSB"], "True") {
		order = binary.BigEndian
	}

	n := frames * rows * cols
	raw := make([]byte, n*elemSize)
	if _, err := io.ReadFull(br, raw); err != nil {
		return image.Image{}, gerr.Wrap(gerr.IOError, op, "reading pixel payload", err)
	}

	data := make([]float32, n)
	for i := 0; i < n; i++ {
		chunk := raw[i*elemSize : (i+1)*elemSize]
		data[i] = decodeElement(et, order, chunk)
	}

	size := image.Size{Frames: frames, Rows: rows, Columns: cols}
	return image.New(data, size, offset, spacing)
}

func decodeElement(et elementType, order binary.ByteOrder, b []byte) float32 {
	switch et {
	case metUChar:
		return float32(b[0])
	case metShort:
		return float32(int16(order.Uint16(b)))
	case metUShort:
		return float32(order.Uint16(b))
	case metInt:
		return float32(int32(order.Uint32(b)))
	case metUInt:
		return float32(order.Uint32(b))
	case metFloat:
		return math.Float32frombits(order.Uint32(b))
	case metDouble:
		return float32(math.Float64frombits(order.Uint64(b)))
	default:
		return 0
	}
}

func parseInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// Writer emits a bit-exact ASCII-header + raw little-endian MET_FLOAT
// MetaImage payload.
type Writer struct{}

// Write implements the gamma io.Writer contract over the MetaImage format.
func (Writer) Write(w io.Writer, img image.Image) error {
	const op = "metaimage.Write"

	size, offset, spacing := img.Size(), img.Offset(), img.Spacing()
	header := fmt.Sprintf(
		"ObjectType = Image\n"+
			"NDims = 3\n"+
			"DimSize = %d %d %d\n"+
			"ElementType = MET_FLOAT\n"+
			"ElementByteOrderMSB = False\n"+
			"ElementSpacing = %s %s %s\n"+
			"Offset = %s %s %s\n"+
			"ElementDataFile = LOCAL\n",
		size.Columns, size.Rows, size.Frames,
		formatFloat(spacing.X), formatFloat(spacing.Y), formatFloat(spacing.Z),
		formatFloat(offset.X), formatFloat(offset.Y), formatFloat(offset.Z),
	)
	if _, err := io.WriteString(w, header); err != nil {
		return gerr.Wrap(gerr.IOError, op, "writing header", err)
	}

	raw := img.Raw()
	buf := make([]byte, 4*len(raw))
	for i, v := range raw {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return gerr.Wrap(gerr.IOError, op, "writing pixel payload", err)
	}
	return nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
