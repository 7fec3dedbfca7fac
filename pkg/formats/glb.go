// GLB binary container parsing (glTF 2.0 packed form).
package formats

import (
	"encoding/binary"
	"fmt"
)

// GLB chunk type identifiers.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"
)

// ParseGLB parses a packed .glb file: a 12-byte header followed by a
// JSON chunk and an optional binary chunk.
func ParseGLB(data []byte) (*Document, error) {
	if len(data) < 12 {
		return nil, ErrTruncatedGLTFData
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != glbMagic {
		return nil, ErrInvalidGLBMagic
	}

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != 2 {
		return nil, fmt.Errorf("%w: GLB version %d", ErrUnsupportedGLTFVersion, version)
	}

	total := binary.LittleEndian.Uint32(data[8:12])
	if int(total) > len(data) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrTruncatedGLTFData, total, len(data))
	}

	var jsonChunk, binChunk []byte
	offset := 12
	for offset+8 <= int(total) {
		chunkLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		if offset+chunkLen > int(total) {
			return nil, fmt.Errorf("%w: chunk exceeds file size", ErrTruncatedGLTFData)
		}

		switch chunkType {
		case glbChunkJSON:
			jsonChunk = data[offset : offset+chunkLen]
		case glbChunkBIN:
			binChunk = data[offset : offset+chunkLen]
		default:
			// Unknown chunks are skipped per spec.
		}

		// Chunks are 4-byte aligned.
		offset += (chunkLen + 3) &^ 3
	}

	if jsonChunk == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrTruncatedGLTFData)
	}

	doc, err := decodeDocument(jsonChunk)
	if err != nil {
		return nil, err
	}
	if err := doc.resolveBuffers(binChunk, nil); err != nil {
		return nil, err
	}
	return doc, nil
}
