package jimage

import (
	"io"

	"github.com/pkg/errors"
)

// Attribute kinds of a location entry's variable-width attribute run
// (ImageLocation in the JDK; grounded on original_source's
// decompress_entry/dump loop).
const (
	attrEnd          = 0
	attrModule       = 1
	attrParent       = 2
	attrBase         = 3
	attrExtension    = 4
	attrOffset       = 5
	attrCompressed   = 6
	attrUncompressed = 7
)

// LocationEntry is a resolved resource location: the module, base
// (resource name), and parent (directory) string attributes, keyed by
// kind rather than position in the attribute run (SPEC_FULL.md §4.11).
type LocationEntry struct {
	Module string
	Base   string
	Parent string
	// Raw holds any attribute kinds this subset does not interpret
	// (extension, offset, compressed/uncompressed size), as (kind,
	// value) pairs, preserved for callers that want them without this
	// package committing to their semantics.
	Raw []RawAttribute
}

type RawAttribute struct {
	Kind  uint8
	Value uint64
}

// Index is the decoded resource table: offsets into locations, and
// the locations/strings blobs themselves.
type Index struct {
	Offsets   []uint32
	Locations []byte
	Strings   []byte
}

// ReadIndex reads the offsets table, locations blob, and strings blob
// that follow a Header. It seeks to each section's absolute offset
// computed from header, so r may be positioned anywhere on entry.
func ReadIndex(r io.ReadSeeker, header *Header) (*Index, error) {
	if _, err := r.Seek(int64(header.OffsetsOffset()), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to offsets table")
	}
	offsetCount := header.TableLength
	offsets := make([]uint32, offsetCount)
	for i := range offsets {
		v, err := readU32LE(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading offset %d", i)
		}
		offsets[i] = v
	}

	if _, err := r.Seek(int64(header.LocationsOffset()), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to locations blob")
	}
	locations := make([]byte, header.LocationSize)
	if _, err := io.ReadFull(r, locations); err != nil {
		return nil, errors.Wrap(err, "reading locations blob")
	}

	if _, err := r.Seek(int64(header.StringsOffset()), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to strings blob")
	}
	strings_ := make([]byte, header.StringsSize)
	if _, err := io.ReadFull(r, strings_); err != nil {
		return nil, errors.Wrap(err, "reading strings blob")
	}

	return &Index{Offsets: offsets, Locations: locations, Strings: strings_}, nil
}

// decompressEntry walks the variable-width attribute run at offset in
// locations: a byte whose low 3 bits are (length-1) of a following
// big-endian integer and whose top 5 bits are the attribute kind; a
// byte value below 0x7 terminates the run (spec.md §4.1, matching
// original_source's decompress_entry).
func decompressEntry(locations []byte, offset uint32) ([]RawAttribute, error) {
	var attrs []RawAttribute
	for int(offset) < len(locations) {
		b := locations[offset]
		offset++
		if b < 0x7 { // matches original_source's decompress_entry terminator
			break
		}
		kind := b >> 3
		length := (b & 0x7) + 1
		if int(offset)+int(length) > len(locations) {
			return nil, errors.Errorf("location attribute run truncated at offset %d", offset)
		}
		var value uint64
		for i := uint8(0); i < length; i++ {
			value = value<<8 | uint64(locations[offset])
			offset++
		}
		attrs = append(attrs, RawAttribute{Kind: kind, Value: value})
	}
	return attrs, nil
}

// readString decodes the NUL-terminated Modified-UTF-8 string at
// offset. This subset treats the bytes as Latin-1-compatible ASCII,
// matching original_source's byte-for-char conversion; jimage module
// and resource names are ASCII in practice.
func readString(strings []byte, offset uint64) (string, error) {
	if int(offset) >= len(strings) {
		return "", errors.Errorf("string offset %d out of range", offset)
	}
	end := offset
	for int(end) < len(strings) && strings[end] != 0 {
		end++
	}
	return string(strings[offset:end]), nil
}

// ResolveLocation decodes the location entry at the given table
// offset into the strings it references.
func (idx *Index) ResolveLocation(offset uint32) (*LocationEntry, error) {
	attrs, err := decompressEntry(idx.Locations, offset)
	if err != nil {
		return nil, err
	}
	entry := &LocationEntry{}
	for _, a := range attrs {
		switch a.Kind {
		case attrModule:
			s, err := readString(idx.Strings, a.Value)
			if err != nil {
				return nil, errors.Wrap(err, "resolving module name")
			}
			entry.Module = s
		case attrBase:
			s, err := readString(idx.Strings, a.Value)
			if err != nil {
				return nil, errors.Wrap(err, "resolving base name")
			}
			entry.Base = s
		case attrParent:
			s, err := readString(idx.Strings, a.Value)
			if err != nil {
				return nil, errors.Wrap(err, "resolving parent name")
			}
			entry.Parent = s
		default:
			entry.Raw = append(entry.Raw, a)
		}
	}
	return entry, nil
}

// Entries decodes every non-empty location in the offsets table.
func (idx *Index) Entries() ([]*LocationEntry, error) {
	var entries []*LocationEntry
	for i, off := range idx.Offsets {
		attrs, err := decompressEntry(idx.Locations, off)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding location at table slot %d", i)
		}
		if len(attrs) == 0 {
			continue
		}
		entry, err := idx.ResolveLocation(off)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving location at table slot %d", i)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
