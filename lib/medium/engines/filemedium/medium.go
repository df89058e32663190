package filemedium

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("medium/file")

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for the on-disk column format
const (
	magicNum      = "CHAINCOL"      // File format identifier
	formatVersion = 1               // Column format version
	bufferSize    = 1 * 1024 * 1024 // Read/write buffer size
)

// --------------------------------------------------------------------------
// File Medium
// --------------------------------------------------------------------------

// fileImpl implements medium.Medium as a single binary column file.
type fileImpl struct {
	handle medium.Handle
	path   string
	dim    int
	size   uint64
	cells  map[uint64][]float64
	dirty  bool
}

// FileMedium is the file-backed medium. Beyond the medium.Medium contract it
// exposes Flush and Close for explicit durability control.
type FileMedium interface {
	medium.Medium
	// Flush rewrites the column file if there are unpersisted writes.
	Flush() error
	// Close flushes and releases the column.
	Close() error
}

// Open loads (or creates) the column file at path. dim is the cell dimension
// and size the number of addressable offsets; both must match the file if it
// already exists.
func Open(path string, dim int, size uint64) (FileMedium, error) {
	if dim <= 0 {
		return nil, medium.NewError(medium.RetCInvalidOperation,
			fmt.Sprintf("invalid cell dimension %d", dim))
	}

	m := &fileImpl{
		handle: medium.NewHandle(),
		path:   path,
		dim:    dim,
		size:   size,
		cells:  make(map[uint64][]float64),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Debugf("creating new column %s (dim=%d size=%d)", path, dim, size)
		return m, nil
	}
	if err != nil {
		return nil, medium.NewError(medium.RetCIOError, err.Error())
	}
	defer f.Close()

	if err := m.load(f); err != nil {
		return nil, err
	}
	log.Debugf("loaded column %s (%d cells)", path, len(m.cells))
	return m, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see medium/interface.go)
// --------------------------------------------------------------------------

func (m *fileImpl) Handle() medium.Handle {
	return m.handle
}

func (m *fileImpl) Size() uint64 {
	return m.size
}

func (m *fileImpl) GetValue(offset uint64) (chain.Value, error) {
	if offset >= m.size {
		return chain.Absent, medium.NewError(medium.RetCOutOfRange,
			fmt.Sprintf("offset %d outside value range of size %d", offset, m.size))
	}
	if cell, ok := m.cells[offset]; ok {
		return chain.Vector(cell...), nil
	}
	return chain.Absent, nil
}

func (m *fileImpl) GetListValue(offsets []uint64) ([]chain.Value, error) {
	if err := medium.ValidateBatch(offsets, nil); err != nil {
		return nil, err
	}

	values := make([]chain.Value, len(offsets))
	for i, offset := range offsets {
		v, err := m.GetValue(offset)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (m *fileImpl) SetListValue(offsets []uint64, values []chain.Value) error {
	if err := medium.ValidateBatch(offsets, values); err != nil {
		return err
	}
	if offsets[len(offsets)-1] >= m.size {
		return medium.NewError(medium.RetCOutOfRange,
			fmt.Sprintf("offset %d outside value range of size %d", offsets[len(offsets)-1], m.size))
	}
	for i, v := range values {
		if v.IsAbsent() {
			return medium.NewError(medium.RetCInvalidBatch,
				fmt.Sprintf("absent value at batch position %d", i))
		}
		if v.Dim() != m.dim {
			return medium.NewError(medium.RetCInvalidBatch,
				fmt.Sprintf("value dimension %d does not match column dimension %d", v.Dim(), m.dim))
		}
	}

	for i, offset := range offsets {
		m.cells[offset] = values[i].Vec()
	}
	m.dirty = true
	return nil
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func (m *fileImpl) Flush() error {
	if !m.dirty {
		return nil
	}

	f, err := os.Create(m.path)
	if err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	defer f.Close()

	if err := m.save(f); err != nil {
		return err
	}
	m.dirty = false
	log.Debugf("flushed column %s (%d cells)", m.path, len(m.cells))
	return nil
}

func (m *fileImpl) Close() error {
	return m.Flush()
}

// save writes the full column in the binary format.
func (m *fileImpl) save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, bufferSize)

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	header := []any{
		uint8(formatVersion),
		uint32(m.dim),
		m.size,
		uint64(len(m.cells)),
	}
	for _, field := range header {
		if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
			return medium.NewError(medium.RetCIOError, err.Error())
		}
	}

	// Write cells
	for offset, cell := range m.cells {
		if err := binary.Write(bw, binary.LittleEndian, offset); err != nil {
			return medium.NewError(medium.RetCIOError, err.Error())
		}
		for _, component := range cell {
			if err := binary.Write(bw, binary.LittleEndian, component); err != nil {
				return medium.NewError(medium.RetCIOError, err.Error())
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	return nil
}

// load restores the column from the binary format.
func (m *fileImpl) load(r io.Reader) error {
	br := bufio.NewReaderSize(r, bufferSize)

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	if string(magicBytes) != magicNum {
		return medium.NewError(medium.RetCInvalidOperation, "invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	if int(version) != formatVersion {
		return medium.NewError(medium.RetCInvalidOperation,
			fmt.Sprintf("unsupported column version: %d (expected %d)", version, formatVersion))
	}

	// Read and verify dimension
	var dim uint32
	if err := binary.Read(br, binary.LittleEndian, &dim); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	if int(dim) != m.dim {
		return medium.NewError(medium.RetCInvalidOperation,
			fmt.Sprintf("column dimension mismatch: file has %d, expected %d", dim, m.dim))
	}

	// Read size and cell count
	var size, cellCount uint64
	if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}
	if m.size == 0 {
		m.size = size
	} else if size != m.size {
		return medium.NewError(medium.RetCInvalidOperation,
			fmt.Sprintf("column size mismatch: file has %d, expected %d", size, m.size))
	}
	if err := binary.Read(br, binary.LittleEndian, &cellCount); err != nil {
		return medium.NewError(medium.RetCIOError, err.Error())
	}

	// Read cells
	for i := uint64(0); i < cellCount; i++ {
		var offset uint64
		if err := binary.Read(br, binary.LittleEndian, &offset); err != nil {
			return medium.NewError(medium.RetCIOError, err.Error())
		}

		cell := make([]float64, m.dim)
		for j := range cell {
			if err := binary.Read(br, binary.LittleEndian, &cell[j]); err != nil {
				return medium.NewError(medium.RetCIOError, err.Error())
			}
		}
		m.cells[offset] = cell
	}

	return nil
}
