package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/worklens/worklens/keyword"
	"github.com/worklens/worklens/textnorm"
)

// KeywordIndexFile is the keyword index filename inside an index directory.
const KeywordIndexFile = "keyword_index.json"

// SaveKeywordIndex writes the keyword index to dir as JSON. The layout is
// project -> activity -> sorted keyword list, which keeps the file diffable
// and reproducible across saves.
func SaveKeywordIndex(dir string, idx *keyword.Index) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(idx.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding keyword index: %w", ErrSerializationFailed, err)
	}

	return os.WriteFile(filepath.Join(dir, KeywordIndexFile), data, 0644)
}

// LoadKeywordIndex reads a keyword index previously written by
// SaveKeywordIndex and rebuilds it with the given normalizer and options.
// Returns ErrNotFound if the file does not exist and ErrCorruptIndex if it
// cannot be decoded.
func LoadKeywordIndex(dir string, norm *textnorm.Normalizer, opts ...keyword.Option) (*keyword.Index, error) {
	path := filepath.Join(dir, KeywordIndexFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var snapshot map[string]map[string][]string
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrCorruptIndex, path, err)
	}

	return keyword.FromSnapshot(snapshot, norm, opts...)
}
