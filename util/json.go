// util/json.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DecodeJSON decodes b into out. Unlike json.Unmarshal, fields of the
// JSON that don't correspond to fields of T are an error, as are keys that
// appear more than once in the same object, since either one is almost
// certainly a mistake in a hand-edited file. Errors report the line and
// column where the problem was found.
func DecodeJSON[T any](b []byte, out *T) error {
	if dups := DuplicateJSONKeys(b); len(dups) > 0 {
		return fmt.Errorf("repeated keys: %s", strings.Join(dups, ", "))
	}

	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	err := d.Decode(out)
	if err == nil {
		return nil
	}

	var serr *json.SyntaxError
	var terr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &serr):
		line, col := lineColumn(b, serr.Offset)
		return fmt.Errorf("line %d, column %d: %w", line, col, err)
	case errors.As(err, &terr):
		line, col := lineColumn(b, terr.Offset)
		return fmt.Errorf("line %d, column %d: %s value for %s invalid for type %s: %w",
			line, col, terr.Value, terr.Field, terr.Type, err)
	default:
		line, col := lineColumn(b, d.InputOffset())
		return fmt.Errorf("line %d, column %d: %w", line, col, err)
	}
}

// lineColumn returns the 1-based line and column of the given offset.
func lineColumn(b []byte, offset int64) (int, int) {
	offset = min(offset, int64(len(b)))
	prefix := b[:offset]
	line := 1 + bytes.Count(prefix, []byte{'\n'})
	col := 1 + len(prefix) - (bytes.LastIndexByte(prefix, '\n') + 1)
	return line, col
}

// DuplicateJSONKeys returns the paths of keys that are repeated within an
// object, e.g. "fonts.sizes" or "items[2].x". Nothing is returned for
// invalid JSON; the decoder will report it.
func DuplicateJSONKeys(b []byte) []string {
	var dups []string
	d := json.NewDecoder(bytes.NewReader(b))
	if err := walkJSON(d, "", &dups); err != nil {
		return nil
	}
	return dups
}

func walkJSON(d *json.Decoder, path string, dups *[]string) error {
	tok, err := d.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for d.More() {
			kt, err := d.Token()
			if err != nil {
				return err
			}
			k, _ := kt.(string)
			p := k
			if path != "" {
				p = path + "." + k
			}
			if seen[k] {
				*dups = append(*dups, p)
			}
			seen[k] = true
			if err := walkJSON(d, p, dups); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; d.More(); i++ {
			if err := walkJSON(d, path+"["+strconv.Itoa(i)+"]", dups); err != nil {
				return err
			}
		}
	}

	// Closing delimiter
	_, err = d.Token()
	return err
}
