package records

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxLineBytes caps one logical JSONL line to keep a corrupt input from
// ballooning memory during the scan.
const MaxLineBytes = 16 * 1024 * 1024

// Load reads a JSONL record file, one Record per line. Blank or malformed
// lines and lines with a missing/unparseable timestamp are skipped (counted,
// not fatal); the returned slice preserves file order.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	// Dynamic reader so long lines don't need a fixed max token size.
	reader := bufio.NewReader(f)
	var out []Record
	skipped := 0
readLoop:
	for {
		// Accumulate one logical line (may span multiple internal buffers).
		var line []byte
		for {
			part, rerr := reader.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > MaxLineBytes {
					return nil, fmt.Errorf("line too large: %d bytes exceeds limit %d in %s", len(line)+len(part), MaxLineBytes, path)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				break
			}
			if errors.Is(rerr, io.EOF) {
				// Final line without newline.
				if len(line) == 0 {
					break readLoop
				}
				break
			}
			if errors.Is(rerr, bufio.ErrBufferFull) {
				continue
			}
			log.Warn().Err(rerr).Str("file", path).Msg("read warning, stopping scan")
			if len(line) == 0 {
				break readLoop
			}
			break
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil || r.Sender == "" {
			skipped++
			continue
		}
		ts, terr := time.Parse(time.RFC3339Nano, r.TimestampUTC)
		if terr != nil {
			skipped++
			continue
		}
		r.Timestamp = ts
		out = append(out, r)
	}
	log.Info().Str("file", path).Int("records", len(out)).Int("skipped", skipped).Msg("loaded records")
	return out, nil
}
