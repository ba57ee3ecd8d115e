package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kinoplan/codec"
)

const (
	formatVersion = 1

	// maxBlockSize bounds allocations while decoding untrusted input.
	maxBlockSize = 1 << 30
)

var magic = [4]byte{'K', 'P', 'S', 'N'}

// ErrInvalidFormat is returned by Decode for input that is not a snapshot.
var ErrInvalidFormat = errors.New("snapshot: invalid format")

// Encode writes s to w using codec.Default and the given compression.
//
// Layout: magic, version, compression, codec name (length-prefixed), block.
func Encode(w io.Writer, s *Snapshot, c Compression) error {
	return EncodeWith(w, s, c, codec.Default)
}

// EncodeWith is Encode with an explicit codec.
func EncodeWith(w io.Writer, s *Snapshot, c Compression, cd codec.Codec) error {
	payload, err := cd.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}
	if len(payload) > maxBlockSize {
		return fmt.Errorf("snapshot: payload of %d bytes exceeds limit", len(payload))
	}
	block, err := compressBlock(payload, c)
	if err != nil {
		return err
	}

	name := cd.Name()
	if len(name) > 255 {
		return fmt.Errorf("snapshot: codec name %q too long", name)
	}

	bw := bufio.NewWriter(w)
	header := make([]byte, 0, len(magic)+3+len(name))
	header = append(header, magic[:]...)
	header = append(header, formatVersion, byte(c), byte(len(name)))
	header = append(header, name...)

	if _, err := bw.Write(header); err != nil {
		return err
	}
	if _, err := bw.Write(block); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)

	var fixed [len(magic) + 3]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if [4]byte(fixed[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	if v := fixed[4]; v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, v)
	}
	comp := Compression(fixed[5])

	name := make([]byte, fixed[6])
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	cd, err := codec.ByName(string(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var bh [blockHeaderSize]byte
	if _, err := io.ReadFull(br, bh[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	size := binary.LittleEndian.Uint32(bh[0:])
	bodyLen := binary.LittleEndian.Uint32(bh[4:])
	if bodyLen == 0 {
		bodyLen = size
	}
	if size > maxBlockSize || bodyLen > maxBlockSize {
		return nil, fmt.Errorf("%w: block too large", ErrInvalidFormat)
	}

	block := make([]byte, blockHeaderSize+int(bodyLen))
	copy(block, bh[:])
	if _, err := io.ReadFull(br, block[blockHeaderSize:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	payload, err := decompressBlock(block, comp)
	if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := cd.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}
