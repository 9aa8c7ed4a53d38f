package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// PCDType is the format of the data section of a pcd file.
type PCDType int

const (
	// PCDAscii writes one point per line.
	PCDAscii PCDType = iota
	// PCDBinary writes little endian records.
	PCDBinary
)

const pcdCommentChar = "#"

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

func colorToPCDInt(d Data) uint32 {
	c := d.Color()
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func pcdIntToColor(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}

// ToPCD writes the cloud as an unorganized pcd file, in meters.
func ToPCD(cloud PointCloud, out io.Writer, outputType PCDType) error {
	hasColor := cloud.MetaData().HasColor
	w := bufio.NewWriter(out)
	fields := "FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\n"
	if hasColor {
		fields = "FIELDS x y z rgb\nSIZE 4 4 4 4\nTYPE F F F I\nCOUNT 1 1 1 1\n"
	}
	data := "ascii"
	switch outputType {
	case PCDAscii:
	case PCDBinary:
		data = "binary"
	default:
		return errors.Errorf("unsupported pcd type %d", outputType)
	}
	if _, err := fmt.Fprintf(w, "VERSION .7\n%sWIDTH %d\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS %d\nDATA %s\n",
		fields, cloud.Size(), cloud.Size(), data); err != nil {
		return err
	}

	var err error
	record := make([]byte, 16)
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		switch outputType {
		case PCDBinary:
			binary.LittleEndian.PutUint32(record, math.Float32bits(float32(p.X)))
			binary.LittleEndian.PutUint32(record[4:], math.Float32bits(float32(p.Y)))
			binary.LittleEndian.PutUint32(record[8:], math.Float32bits(float32(p.Z)))
			n := 12
			if hasColor {
				binary.LittleEndian.PutUint32(record[12:], colorToPCDInt(d))
				n = 16
			}
			_, err = w.Write(record[:n])
		case PCDAscii:
			if hasColor {
				_, err = fmt.Fprintf(w, "%f %f %f %d\n", p.X, p.Y, p.Z, colorToPCDInt(d))
			} else {
				_, err = fmt.Fprintf(w, "%f %f %f\n", p.X, p.Y, p.Z)
			}
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

type pcdHeader struct {
	hasColor bool
	fields   int
	width    uint64
	height   uint64
	points   uint64
	data     PCDType
}

func parsePCDHeaderLine(line string, index int, header *pcdHeader) error {
	name := pcdHeaderFields[index]
	field, value, _ := strings.Cut(line, " ")
	value = strings.TrimSpace(value)
	tokens := strings.Fields(value)
	if field != name {
		return errors.Errorf("line is supposed to start with %s but is %q", name, line)
	}

	var err error
	switch name {
	case "VERSION":
		if value != ".7" && value != "0.7" {
			return errors.Errorf("unsupported pcd version %s", value)
		}
	case "FIELDS":
		switch value {
		case "x y z":
			header.fields = 3
		case "x y z rgb":
			header.fields = 4
			header.hasColor = true
		default:
			return errors.Errorf("unsupported pcd fields %s", value)
		}
	case "SIZE":
		if len(tokens) != header.fields {
			return errors.New("unexpected number of fields in SIZE line")
		}
		for _, token := range tokens {
			if token != "4" {
				return errors.Errorf("unsupported field size %s", token)
			}
		}
	case "TYPE", "COUNT":
		if len(tokens) != header.fields {
			return errors.Errorf("unexpected number of fields in %s line", name)
		}
	case "WIDTH":
		if header.width, err = strconv.ParseUint(value, 10, 64); err != nil {
			return errors.Wrapf(err, "invalid WIDTH field %s", value)
		}
	case "HEIGHT":
		if header.height, err = strconv.ParseUint(value, 10, 64); err != nil {
			return errors.Wrapf(err, "invalid HEIGHT field %s", value)
		}
	case "VIEWPOINT":
		if len(tokens) != 7 {
			return errors.Errorf("unexpected number of fields in VIEWPOINT line. Expected 7, got %d", len(tokens))
		}
	case "POINTS":
		if header.points, err = strconv.ParseUint(value, 10, 64); err != nil {
			return errors.Wrapf(err, "invalid POINTS field %s", value)
		}
		if header.points != header.width*header.height {
			return errors.Errorf("POINTS field %d does not match WIDTH*HEIGHT %d", header.points, header.width*header.height)
		}
	case "DATA":
		switch value {
		case "ascii":
			header.data = PCDAscii
		case "binary":
			header.data = PCDBinary
		default:
			return errors.Errorf("unsupported pcd data type %s", value)
		}
	}
	return nil
}

// ReadPCD reads an ascii or binary pcd file written by ToPCD or another tool using the same
// fields.
func ReadPCD(inRaw io.Reader) (PointCloud, error) {
	header := pcdHeader{}
	in := bufio.NewReader(inRaw)
	for index := 0; index < len(pcdHeaderFields); {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "error reading header line %d", index)
		}
		line, _, _ = strings.Cut(line, pcdCommentChar)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := parsePCDHeaderLine(line, index, &header); err != nil {
			return nil, err
		}
		index++
	}
	if header.data == PCDBinary {
		return readPCDBinary(in, header)
	}
	return readPCDAscii(in, header)
}

func readPCDAscii(in *bufio.Reader, header pcdHeader) (PointCloud, error) {
	pc := NewWithPrealloc(int(header.points))
	for i := 0; i < int(header.points); i++ {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, errors.Wrapf(err, "cannot read point %d", i)
		}
		tokens := strings.Fields(line)
		if len(tokens) != header.fields {
			return nil, errors.Errorf("unexpected number of fields in point %d", i)
		}
		var pos [3]float64
		for j := range pos {
			if pos[j], err = strconv.ParseFloat(tokens[j], 64); err != nil {
				return nil, errors.Wrapf(err, "invalid point %d field %s", i, tokens[j])
			}
		}
		data := NewBasicData()
		if header.hasColor {
			c, err := strconv.ParseInt(tokens[3], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid point %d color %s", i, tokens[3])
			}
			data = NewColoredData(pcdIntToColor(uint32(c)))
		}
		if err := pc.Set(r3.Vector{X: pos[0], Y: pos[1], Z: pos[2]}, data); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

func readPCDBinary(in *bufio.Reader, header pcdHeader) (PointCloud, error) {
	pc := NewWithPrealloc(int(header.points))
	record := make([]byte, 4*header.fields)
	for i := 0; i < int(header.points); i++ {
		if _, err := io.ReadFull(in, record); err != nil {
			return nil, errors.Wrapf(err, "cannot read point %d", i)
		}
		pos := r3.Vector{
			X: readFloat(binary.LittleEndian.Uint32(record)),
			Y: readFloat(binary.LittleEndian.Uint32(record[4:])),
			Z: readFloat(binary.LittleEndian.Uint32(record[8:])),
		}
		data := NewBasicData()
		if header.hasColor {
			data = NewColoredData(pcdIntToColor(binary.LittleEndian.Uint32(record[12:])))
		}
		if err := pc.Set(pos, data); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

// readFloat widens a stored float32, dropping the digits it cannot represent.
func readFloat(n uint32) float64 {
	f := float64(math.Float32frombits(n))
	return math.Round(f*10000) / 10000
}
