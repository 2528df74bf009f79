package dataset

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/golang/snappy"

	"supermarket-dashboard/internal/models"
)

const snapshotVersion = 1

type snapshot struct {
	Version int
	Records []models.SalesRecord
}

// WriteSnapshot encodes the store as a snappy-compressed gob stream that Load
// reads back from a ".snap" file.
func WriteSnapshot(w io.Writer, s *Store) error {
	var buf bytes.Buffer
	snap := snapshot{Version: snapshotVersion, Records: s.records}
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := w.Write(snappy.Encode(nil, buf.Bytes())); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(ctx context.Context, r io.Reader) ([]models.SalesRecord, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, snapshotVersion)
	}

	for i := range snap.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := validateRecord(snap.Records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return snap.Records, nil
}
