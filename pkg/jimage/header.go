// Package jimage decodes the header and resource index of a JDK
// jimage file: a separate, smaller utility from the class-file
// interpreter, sharing none of its decode machinery since jimage is
// little-endian where class files are big-endian (spec.md §6).
package jimage

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

const magic = 0xCAFEDADA

const headerSlots = 7 // magic, version, flags, resource_count, table_length, location_size, strings_size

// Header is the fixed 28-byte jimage header.
type Header struct {
	Magic         uint32
	Version       uint32
	Flags         uint32
	ResourceCount uint32
	TableLength   uint32
	LocationSize  uint32
	StringsSize   uint32
}

func (h Header) MajorVersion() uint16 { return uint16(h.Version >> 16) }
func (h Header) MinorVersion() uint16 { return uint16(h.Version & 0xFFFF) }

func (h Header) headerSize() uint32    { return headerSlots * 4 }
func (h Header) redirectSize() uint32  { return h.TableLength * 4 }
func (h Header) offsetsSize() uint32   { return h.TableLength * 4 }
func (h Header) RedirectOffset() uint32 { return h.headerSize() }
func (h Header) OffsetsOffset() uint32  { return h.RedirectOffset() + h.redirectSize() }
func (h Header) LocationsOffset() uint32 {
	return h.OffsetsOffset() + h.offsetsSize()
}
func (h Header) StringsOffset() uint32 {
	return h.LocationsOffset() + h.LocationSize
}

// readU32LE reads one little-endian uint32.
func readU32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadHeader decodes the fixed header from the start of r.
func ReadHeader(r io.Reader) (*Header, error) {
	m, err := readU32LE(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading magic")
	}
	if m != magic {
		return nil, errors.Errorf("invalid jimage magic 0x%08X (expected 0x%08X)", m, uint32(magic))
	}

	h := &Header{Magic: m}
	fields := []*uint32{&h.Version, &h.Flags, &h.ResourceCount, &h.TableLength, &h.LocationSize, &h.StringsSize}
	for i, f := range fields {
		v, err := readU32LE(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading header field %d", i+1)
		}
		*f = v
	}
	return h, nil
}

// Open reads and decodes the header of the jimage file at path,
// leaving the file positioned right after it.
func Open(path string) (*os.File, *Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", path)
	}
	h, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "reading header of %s", path)
	}
	return f, h, nil
}
