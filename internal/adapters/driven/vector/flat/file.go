package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/finchat-labs/finchat-cli/internal/core/domain"
	"github.com/finchat-labs/finchat-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.VectorIndexProvider = (*Provider)(nil)

// File format: magic, uint32 dimension, uint64 count, then per entry an
// int64 ID followed by dimension float32 components. Little-endian.
var fileMagic = [8]byte{'F', 'C', 'F', 'L', 'A', 'T', '0', '1'}

// Provider creates and opens flat indexes.
type Provider struct{}

// NewProvider returns a flat index provider.
func NewProvider() *Provider {
	return &Provider{}
}

// New creates an empty index for vectors of the given dimension.
func (p *Provider) New(dimensions int) driven.VectorIndex {
	return New(dimensions)
}

// Open deserialises an index previously written with SaveFile. Decode
// failures wrap domain.ErrCheckpointCorrupt so the caller fails loudly
// instead of rebuilding over a damaged artifact.
func (p *Provider) Open(path string) (driven.VectorIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}
	defer f.Close()

	idx, err := read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCheckpointCorrupt, path, err)
	}
	return idx, nil
}

// SaveFile serialises the index to path.
func (idx *Index) SaveFile(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create vector index file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := idx.write(w); err != nil {
		f.Close()
		return fmt.Errorf("write vector index: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush vector index: %w", err)
	}
	return f.Close()
}

func (idx *Index) write(w io.Writer) error {
	if _, err := w.Write(fileMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.dim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(idx.ids))); err != nil {
		return err
	}
	for i, id := range idx.ids {
		if err := binary.Write(w, binary.LittleEndian, id); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, idx.vecs[i]); err != nil {
			return err
		}
	}
	return nil
}

func read(r io.Reader) (*Index, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("bad magic %q", magic)
	}

	var dim uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, err
	}
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	idx := New(int(dim))
	for i := uint64(0); i < count; i++ {
		var id int64
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, err
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, err
		}
		if _, exists := idx.pos[id]; exists {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		idx.pos[id] = len(idx.ids)
		idx.ids = append(idx.ids, id)
		idx.vecs = append(idx.vecs, vec)
	}
	return idx, nil
}
