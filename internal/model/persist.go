package model

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrCorruptModelFile = errors.New("corrupt model file")

type storedFile struct {
	Checksum string
	Pipeline []byte
}

// Save writes the pipeline as gzip compressed gob to path. The file is written next to
// path first and renamed over it, so readers never see a partial model.
func Save(path string, p *Pipeline) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(p); err != nil {
		return fmt.Errorf("encode pipeline: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmp.Name())
	}()

	gzw := gzip.NewWriter(tmp)
	encodeErr := gob.NewEncoder(gzw).Encode(storedFile{
		Checksum: hex.EncodeToString(sum[:]),
		Pipeline: raw.Bytes(),
	})
	if err := errors.Join(encodeErr, gzw.Close(), tmp.Close()); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename model file: %w", err)
	}
	return nil
}

func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptModelFile, err)
	}
	defer gzr.Close()

	var stored storedFile
	if err := gob.NewDecoder(gzr).Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptModelFile, err)
	}
	sum := sha256.Sum256(stored.Pipeline)
	if hex.EncodeToString(sum[:]) != stored.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptModelFile)
	}

	var p Pipeline
	if err := gob.NewDecoder(bytes.NewReader(stored.Pipeline)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptModelFile, err)
	}
	return &p, nil
}
