package schema

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fingerprint is a sequence of 32-bit frames. Bit j of element i is feature j at frame i.
type Fingerprint []uint32

// ErrEmptyFingerprint is returned when the input holds no values at all.
var ErrEmptyFingerprint = errors.New("fingerprint has no values")

// fpcalcPrefix marks the fingerprint line of `fpcalc -raw` output.
const fpcalcPrefix = "FINGERPRINT="

// ParseFingerprint reads a fingerprint from text.
// It understands fpcalc -raw output (a FINGERPRINT= line), array literals such as
// {1,2,3} or [1,2,3], and bare integers separated by commas or whitespace.
// Values may be written in the signed or the unsigned 32-bit range.
func ParseFingerprint(input string) (Fingerprint, error) {
	body := strings.TrimSpace(input)

	// fpcalc prints DURATION= and FINGERPRINT= lines; only the latter matters.
	for line := range strings.Lines(body) {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, fpcalcPrefix); ok {
			body = v
			break
		}
	}

	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")

	tokens := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(tokens) == 0 {
		return nil, ErrEmptyFingerprint
	}

	fp := make(Fingerprint, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fingerprint value %d (%q) is not an integer", i, tok)
		}
		if v < math.MinInt32 || v > math.MaxUint32 {
			return nil, fmt.Errorf("fingerprint value %d (%q) does not fit in 32 bits", i, tok)
		}
		fp = append(fp, uint32(int32(v)))
	}
	return fp, nil
}

// FormatFingerprint renders fp as comma-separated signed integers, the storage form.
func FormatFingerprint(fp Fingerprint) string {
	var sb strings.Builder
	for i, v := range fp {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(int64(int32(v)), 10))
	}
	return sb.String()
}

// Signed returns the int32 view of the fingerprint.
func (fp Fingerprint) Signed() []int32 {
	out := make([]int32, len(fp))
	for i, v := range fp {
		out[i] = int32(v)
	}
	return out
}

// FormatDay formats t as a calendar day in its own location.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// NormalizeDay trims driver-specific time suffixes from a stored date so it
// compares equal to the output of FormatDay.
func NormalizeDay(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

func queryEscape(s string) string {
	return url.PathEscape(s)
}
