// pkg/diagnostics/dump.go

package diagnostics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Dump writes the run's diagnostic summary to dir in two forms: a
// zstd-compressed msgpack file for fast reload by other dronewarden
// tooling, and a plain JSON file for anything that can't decode
// msgpack, matching original_source/mission.cpp's practice of writing
// several parallel views of the same run data.
func (r *Recorder) Dump(dir string) error {
	summary := r.Summary()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("diagnostics: creating output dir: %w", err)
	}

	if err := writeMsgpackZstd(filepath.Join(dir, "diagnostics.msgpack.zst"), summary); err != nil {
		return fmt.Errorf("diagnostics: writing binary dump: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "diagnostics.json"), summary); err != nil {
		return fmt.Errorf("diagnostics: writing json dump: %w", err)
	}
	return nil
}

func writeMsgpackZstd(path string, summary Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer zw.Close()

	return msgpack.NewEncoder(zw).Encode(summary)
}

func writeJSON(path string, summary Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// LoadDump reads back a zstd-compressed msgpack dump written by Dump,
// for tooling that wants to inspect a past run without re-simulating.
func LoadDump(path string) (Summary, error) {
	var summary Summary

	f, err := os.Open(path)
	if err != nil {
		return summary, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return summary, err
	}
	defer zr.Close()

	err = msgpack.NewDecoder(zr).Decode(&summary)
	return summary, err
}
