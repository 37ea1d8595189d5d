package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/worklens/worklens/core"
	"github.com/worklens/worklens/vector"
)

// Vector index filenames inside an index directory. The blob and the label
// sidecar are only meaningful together; both saves happen in one call.
const (
	VectorBlobFile   = "vector_index.bin"
	VectorLabelsFile = "vector_labels.json"
)

// SaveVectorIndex writes the vector index to dir: a binary blob holding the
// dimension, the entry count and the raw float32 values, plus a JSON
// sidecar with the positionally aligned cell labels.
func SaveVectorIndex(dir string, idx *vector.Index) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	vectors := idx.Vectors()

	size := varint.PositiveInt.Size(idx.Dim()) + varint.PositiveInt.Size(len(vectors))
	for _, vec := range vectors {
		for _, v := range vec {
			size += raw.Float32.Size(v)
		}
	}

	blob := make([]byte, size)
	n := varint.PositiveInt.Marshal(idx.Dim(), blob)
	n += varint.PositiveInt.Marshal(len(vectors), blob[n:])
	for _, vec := range vectors {
		for _, v := range vec {
			n += raw.Float32.Marshal(v, blob[n:])
		}
	}

	if err := os.WriteFile(filepath.Join(dir, VectorBlobFile), blob, 0644); err != nil {
		return err
	}

	labels := make([]string, len(idx.Labels()))
	for i, cell := range idx.Labels() {
		labels[i] = cell.Label()
	}

	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding vector labels: %w", ErrSerializationFailed, err)
	}

	return os.WriteFile(filepath.Join(dir, VectorLabelsFile), data, 0644)
}

// LoadVectorIndex reads a vector index previously written by
// SaveVectorIndex. Returns ErrNotFound if either file is missing,
// ErrTruncatedData or ErrCorruptIndex on a malformed blob, and
// ErrLabelMismatch when the blob and sidecar disagree on the entry count.
// There is no partial load; any failure yields no index.
func LoadVectorIndex(dir string, opts ...vector.Option) (*vector.Index, error) {
	blobPath := filepath.Join(dir, VectorBlobFile)
	labelsPath := filepath.Join(dir, VectorLabelsFile)

	blob, err := os.ReadFile(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, blobPath)
		}
		return nil, err
	}

	data, err := os.ReadFile(labelsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, labelsPath)
		}
		return nil, err
	}

	dim, n, err := varint.PositiveInt.Unmarshal(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: reading dimension: %w", ErrCorruptIndex, err)
	}
	count, n1, err := varint.PositiveInt.Unmarshal(blob[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: reading count: %w", ErrCorruptIndex, err)
	}

	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			v, n1, err := raw.Float32.Unmarshal(blob[n:])
			n += n1
			if err != nil {
				return nil, fmt.Errorf("%w: vector %d component %d: %w", ErrTruncatedData, i, j, err)
			}
			vec[j] = v
		}
		vectors[i] = vec
	}

	var labelStrings []string
	if err := json.Unmarshal(data, &labelStrings); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrCorruptIndex, labelsPath, err)
	}

	if len(labelStrings) != count {
		return nil, fmt.Errorf("%w: blob has %d vectors, sidecar has %d labels",
			ErrLabelMismatch, count, len(labelStrings))
	}

	labels := make([]core.Cell, len(labelStrings))
	for i, label := range labelStrings {
		cell, err := core.ParseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: label %d: %w", ErrCorruptIndex, i, err)
		}
		labels[i] = cell
	}

	idx, err := vector.NewIndex(dim, opts...)
	if err != nil {
		return nil, err
	}
	if err := idx.SetEmbeddings(vectors, labels); err != nil {
		return nil, err
	}

	return idx, nil
}
