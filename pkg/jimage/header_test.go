package jimage

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildHeaderBytes(version, flags, resourceCount, tableLength, locationSize, stringsSize uint32) []byte {
	var buf bytes.Buffer
	le := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	le(magic)
	le(version)
	le(flags)
	le(resourceCount)
	le(tableLength)
	le(locationSize)
	le(stringsSize)
	return buf.Bytes()
}

func TestReadHeader(t *testing.T) {
	raw := buildHeaderBytes(0x000D0000, 0, 3, 1, 5, 9)
	h, err := ReadHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.ResourceCount != 3 || h.TableLength != 1 || h.LocationSize != 5 || h.StringsSize != 9 {
		t.Errorf("got %+v", h)
	}
	if h.MajorVersion() != 13 || h.MinorVersion() != 0 {
		t.Errorf("version: got major=%d minor=%d, want major=13 minor=0", h.MajorVersion(), h.MinorVersion())
	}
}

func TestReadHeaderInvalidMagic(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00}
	if _, err := ReadHeader(bytes.NewReader(raw)); err == nil {
		t.Error("expected error for invalid magic, got nil")
	}
}

func TestHeaderOffsets(t *testing.T) {
	h := Header{TableLength: 2, LocationSize: 10, StringsSize: 20}
	if h.RedirectOffset() != 28 {
		t.Errorf("RedirectOffset: got %d, want 28", h.RedirectOffset())
	}
	if h.OffsetsOffset() != 28+8 {
		t.Errorf("OffsetsOffset: got %d, want %d", h.OffsetsOffset(), 28+8)
	}
	if h.LocationsOffset() != 28+8+8 {
		t.Errorf("LocationsOffset: got %d, want %d", h.LocationsOffset(), 28+8+8)
	}
	if h.StringsOffset() != 28+8+8+10 {
		t.Errorf("StringsOffset: got %d, want %d", h.StringsOffset(), 28+8+8+10)
	}
}
