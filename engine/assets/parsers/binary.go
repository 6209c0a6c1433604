package parsers

import "fmt"

// Bytecode is a little-endian word view of a binary blob, the layout SPIR-V
// shader modules are consumed in.
type Bytecode struct {
	Words []uint32
}

// BytecodeParser decodes 4-byte aligned binary blobs into words.
type BytecodeParser struct{}

func (bp *BytecodeParser) Parse(source string, data []byte) (*Bytecode, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("binary blob '%s' is %d bytes, expected a non-zero multiple of 4", source, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := 0; i < len(words); i++ {
		byteIndex := i * 4
		words[i] = 0
		words[i] |= uint32(data[byteIndex])
		words[i] |= uint32(data[byteIndex+1]) << 8
		words[i] |= uint32(data[byteIndex+2]) << 16
		words[i] |= uint32(data[byteIndex+3]) << 24
	}

	return &Bytecode{Words: words}, nil
}
