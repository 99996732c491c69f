package container

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/jxlcore/jxl/internal/xerr"
)

func box(typ string, contents []byte) []byte {
	var b bytes.Buffer
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(8+len(contents)))
	b.Write(size[:])
	b.WriteString(typ)
	b.Write(contents)
	return b.Bytes()
}

func ftyp() []byte {
	return box("ftyp", append([]byte("jxl "), []byte("jxl ")...))
}

func jxlpIndex(idx uint32, last bool) []byte {
	var b [4]byte
	if last {
		idx |= 0x8000_0000
	}
	binary.BigEndian.PutUint32(b[:], idx)
	return b[:]
}

func TestParseSingleJxlc(t *testing.T) {
	var data []byte
	data = append(data, Signature[:]...)
	data = append(data, ftyp()...)
	data = append(data, box("jxlc", []byte{0xFF, 0x0A, 1, 2, 3})...)

	a, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsJXL {
		t.Fatal("expected IsJXL")
	}
	if !bytes.Equal(a.Codestream, []byte{0xFF, 0x0A, 1, 2, 3}) {
		t.Fatalf("got %v", a.Codestream)
	}
}

func TestParseJxlpOrdering(t *testing.T) {
	var data []byte
	data = append(data, Signature[:]...)
	data = append(data, ftyp()...)
	data = append(data, box("jxlp", append(jxlpIndex(0, false), []byte{1, 2}...))...)
	data = append(data, box("jxlp", append(jxlpIndex(1, false), []byte{3, 4}...))...)
	data = append(data, box("jxlp", append(jxlpIndex(0x80000002, true), []byte{5, 6}...))...)

	a, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Codestream, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("got %v", a.Codestream)
	}
}

func TestParseJxlpOutOfOrder(t *testing.T) {
	var data []byte
	data = append(data, Signature[:]...)
	data = append(data, ftyp()...)
	data = append(data, box("jxlp", append(jxlpIndex(0, false), []byte{1}...))...)
	data = append(data, box("jxlp", append(jxlpIndex(0, false), []byte{2}...))...)
	data = append(data, box("jxlp", append(jxlpIndex(1, true), []byte{3}...))...)

	_, err := Parse(data)
	if err == nil || !xerr.Is(err, xerr.InvalidBox) {
		t.Fatalf("expected InvalidBox, got %v", err)
	}
}

func TestParseAuxBoxes(t *testing.T) {
	var data []byte
	data = append(data, Signature[:]...)
	data = append(data, ftyp()...)
	data = append(data, box("Exif", []byte{1, 2, 3})...)
	data = append(data, box("jxlc", []byte{0xFF, 0x0A})...)

	a, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Aux) != 1 || a.Aux[0].Type.String() != "Exif" {
		t.Fatalf("got %+v", a.Aux)
	}
}

func TestIsBareCodestream(t *testing.T) {
	if !IsBareCodestream([]byte{0xFF, 0x0A, 0x7F}) {
		t.Fatal("expected true")
	}
	if IsBareCodestream([]byte{0x00, 0x00}) {
		t.Fatal("expected false")
	}
}
