package fix

import (
	"bytes"
	"fmt"
	"strconv"
)

// appendField appends tag=value<SOH> to b.
func appendField(b []byte, tag int, value string) []byte {
	b = strconv.AppendInt(b, int64(tag), 10)
	b = append(b, '=')
	b = append(b, value...)
	return append(b, SOH)
}

// scanField reads the field starting at pos and returns it together with the
// offset of the next field. When dataLen is >= 0 the value is read as exactly
// dataLen raw bytes, which lets DATA fields carry SOH.
func scanField(data []byte, pos int, dataLen int) (Field, int, error) {
	rest := data[pos:]

	eq := bytes.IndexByte(rest, '=')
	if eq < 0 {
		return Field{}, 0, fmt.Errorf("%w: no '=' in field at offset %d", ErrInvalidMessage, pos)
	}

	tag, err := parseTag(rest[:eq])
	if err != nil {
		return Field{}, 0, fmt.Errorf("%w: invalid tag %q at offset %d", ErrInvalidMessage, rest[:eq], pos)
	}

	value := rest[eq+1:]
	var end int
	if dataLen >= 0 {
		if dataLen >= len(value) || value[dataLen] != SOH {
			return Field{}, 0, fmt.Errorf("%w: data field %d shorter than declared length %d", ErrInvalidMessage, tag, dataLen)
		}
		end = dataLen
	} else {
		end = bytes.IndexByte(value, SOH)
		if end < 0 {
			return Field{}, 0, fmt.Errorf("%w: field %d is not terminated by SOH", ErrInvalidMessage, tag)
		}
	}

	return Field{Tag: tag, Value: string(value[:end])}, pos + eq + 1 + end + 1, nil
}

// parseTag accepts only positive base 10 integers without sign or spaces.
func parseTag(b []byte) (int, error) {
	if len(b) == 0 || len(b) > 9 {
		return 0, strconv.ErrSyntax
	}
	tag := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
		tag = tag*10 + int(c-'0')
	}
	if tag == 0 {
		return 0, strconv.ErrRange
	}
	return tag, nil
}

// checksum is the byte sum of b modulo 256.
func checksum(b []byte) int {
	sum := 0
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

// formatChecksum renders a checksum as three zero padded digits.
func formatChecksum(sum int) string {
	return fmt.Sprintf("%03d", sum)
}
