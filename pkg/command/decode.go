// NetPilot Core
// Copyright (c) 2026 The NetPilot Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of NetPilot Core.
//
// NetPilot Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// NetPilot Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with NetPilot Core.  If not, see <http://www.gnu.org/licenses/>.

package command

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// Decode converts raw command output to text. Console tools on Windows
// write in the OEM code page rather than UTF-8, so valid UTF-8 is taken
// as-is and anything else goes through the active code page. Decode never
// fails; as a last resort high bytes become '?'.
func Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := DecodeWith(raw, oemEncoding()); err == nil {
		return out
	}
	return asciiLossy(raw)
}

// DecodeWith decodes raw using a specific encoding. Tests use it to pin
// fixtures to a known code page.
func DecodeWith(raw []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode output: %w", err)
	}
	return string(out), nil
}

func asciiLossy(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}
