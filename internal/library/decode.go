// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package library

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode parses a library export. Strategies are tried in order:
//
//  1. JSON over the text: the raw bytes when they are valid UTF-8 without a
//     BOM, otherwise the BOM-aware transcoding (UTF-8, UTF-16LE, UTF-16BE)
//  2. NDJSON over the same text
//  3. Windows-1252 transcoding then JSON, then NDJSON
//
// Each candidate text is decoded as JSON at most once.
//
// Numbers are decoded as json.Number so large playtimes survive intact.
func Decode(data []byte) (any, error) {
	var text []byte
	switch {
	case hasBOM(data):
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err == nil {
			text = decoded
		}
	case utf8.Valid(data):
		text = data
	}

	if text != nil {
		if v, err := decodeJSON(text); err == nil {
			return v, nil
		}
		if v, err := decodeNDJSON(text); err == nil {
			return v, nil
		}
	}

	if legacy, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		if v, err := decodeJSON(legacy); err == nil {
			return v, nil
		}
		if v, err := decodeNDJSON(legacy); err == nil {
			return v, nil
		}
	}

	return nil, ErrUndecodable
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF8) || bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
}

// decodeJSON decodes exactly one JSON value; trailing content is an error.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// decodeNDJSON decodes one object per non-blank line into a list.
func decodeNDJSON(data []byte) (any, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []any
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		v, err := decodeJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line %d: expected an object, got %T", line, v)
		}
		out = append(out, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no NDJSON records")
	}
	return out, nil
}
