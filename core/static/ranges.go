package static

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteRange is an inclusive byte interval of a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the range.
func (br ByteRange) Length() int64 {
	return br.End - br.Start + 1
}

// ContentRange formats the Content-Range header value for a file of size bytes.
func (br ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, size)
}

// parseRange parses a Range header against a file of size bytes.
// It returns the satisfiable ranges in request order, errMalformedRange when
// the header cannot be parsed, and ErrRangeNotSatisfiable when it parses but
// no range overlaps the file.
func parseRange(header string, size int64) ([]ByteRange, error) {
	const unit = "bytes="

	header = strings.TrimSpace(header)
	if len(header) < len(unit) || !strings.EqualFold(header[:len(unit)], unit) {
		return nil, errMalformedRange
	}

	var (
		ranges []ByteRange
		parsed int
	)
	for _, spec := range strings.Split(header[len(unit):], ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		parsed++

		br, ok, err := parseRangeSpec(spec, size)
		if err != nil {
			return nil, err
		}
		if ok {
			ranges = append(ranges, br)
		}
	}

	if parsed == 0 {
		return nil, errMalformedRange
	}
	if len(ranges) == 0 {
		return nil, ErrRangeNotSatisfiable
	}
	return ranges, nil
}

// parseRangeSpec parses one "first-last", "first-" or "-suffix" element.
// ok is false for a well-formed element that does not overlap the file.
func parseRangeSpec(spec string, size int64) (ByteRange, bool, error) {
	first, last, found := strings.Cut(spec, "-")
	if !found {
		return ByteRange{}, false, errMalformedRange
	}
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)

	if first == "" {
		n, err := parseDigits(last)
		if err != nil {
			return ByteRange{}, false, err
		}
		if n == 0 || size == 0 {
			return ByteRange{}, false, nil
		}
		if n > size {
			n = size
		}
		return ByteRange{Start: size - n, End: size - 1}, true, nil
	}

	start, err := parseDigits(first)
	if err != nil {
		return ByteRange{}, false, err
	}

	end := size - 1
	if last != "" {
		end, err = parseDigits(last)
		if err != nil {
			return ByteRange{}, false, err
		}
		if end < start {
			return ByteRange{}, false, errMalformedRange
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start >= size {
		return ByteRange{}, false, nil
	}
	return ByteRange{Start: start, End: end}, true, nil
}

func parseDigits(s string) (int64, error) {
	if s == "" {
		return 0, errMalformedRange
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errMalformedRange
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errMalformedRange
	}
	return n, nil
}
