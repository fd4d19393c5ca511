package depthlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Record is one log event as seen by the sink layer: the decoded form
// of a single zerolog JSON line. Sinks read its fields and may replace
// Message before forwarding; everything else is treated as immutable.
type Record struct {
	Time    time.Time
	Level   string
	Message string

	// Source location and goroutine id, attached by the Service
	// facade at emission time.
	File string
	Line int
	Func string
	TID  int64

	// Extra holds any remaining structured fields.
	Extra map[string]interface{}
}

// decodeRecord parses one JSON line emitted by zerolog into a Record.
func decodeRecord(p []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	raw := make(map[string]interface{})
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding log record: %w", err)
	}

	r := &Record{}
	for k, v := range raw {
		switch k {
		case zerolog.TimestampFieldName:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(timeFieldFormat, s); err == nil {
					r.Time = t
				} else if t, err := time.Parse(time.RFC3339, s); err == nil {
					r.Time = t
				}
			}
		case zerolog.LevelFieldName:
			r.Level, _ = v.(string)
		case zerolog.MessageFieldName:
			r.Message, _ = v.(string)
		case fieldFile:
			r.File, _ = v.(string)
		case fieldLine:
			if n, ok := v.(json.Number); ok {
				i, _ := n.Int64()
				r.Line = int(i)
			}
		case fieldFunc:
			r.Func, _ = v.(string)
		case fieldTID:
			if n, ok := v.(json.Number); ok {
				r.TID, _ = n.Int64()
			}
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]interface{})
			}
			r.Extra[k] = v
		}
	}
	return r, nil
}

// extraKeys returns the record's extra field names in sorted order so
// rendered lines are deterministic.
func (r *Record) extraKeys() []string {
	if len(r.Extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
