// Package numbering defines how business document numbers are formatted.
//
// A document number is built from a prefix, an optional period and a
// zero-padded sequence, e.g. SB-2026-0001 or HBL202600001. Sequences are
// scoped to a Bucket (prefix + period); allocation of the sequence itself is
// done by the persistence layer inside the transaction that inserts the record.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scheme describes the number format of one resource
type Scheme struct {
	// Prefix is the fixed prefix, e.g. "SB"
	Prefix string
	// PrefixField names a payload field whose value replaces Prefix, e.g. the
	// airline code of a master air waybill
	PrefixField string
	// PrefixMap translates the PrefixField value into the prefix, e.g. an
	// ioType of OUT into SEX. Values missing from the map use DefaultPrefix.
	PrefixMap map[string]string
	// DefaultPrefix is used when PrefixField is set but absent from the payload
	DefaultPrefix string
	// Separator goes between prefix, period and sequence
	Separator string
	// SequenceSeparator replaces Separator between the period and the
	// sequence when set, e.g. CO20260514-0001
	SequenceSeparator string
	// PeriodLayout is a time layout for the period ("2006"); empty means no period
	PeriodLayout string
	// Width is the zero-pad width of the sequence
	Width int
}

// Bucket is the scope of a sequence
type Bucket struct {
	Prefix string
	Period string
}

// String renders the bucket for logs
func (b Bucket) String() string {
	if b.Period == "" {
		return b.Prefix
	}
	return b.Prefix + "/" + b.Period
}

// Validate checks the scheme is usable
func (s Scheme) Validate() error {
	if s.Prefix == "" && s.PrefixField == "" {
		return fmt.Errorf("numbering: prefix or prefix field is required")
	}
	if s.PrefixField != "" && s.DefaultPrefix == "" {
		return fmt.Errorf("numbering: default prefix is required with prefix field %q", s.PrefixField)
	}
	if s.PrefixMap != nil && s.PrefixField == "" {
		return fmt.Errorf("numbering: prefix map requires a prefix field")
	}
	if s.Width <= 0 {
		return fmt.Errorf("numbering: width must be positive")
	}
	return nil
}

// BucketFor returns the bucket a new record falls into. dynamicPrefix is the
// value of PrefixField in the payload, or "" if absent.
func (s Scheme) BucketFor(dynamicPrefix string, now time.Time) Bucket {
	prefix := s.Prefix
	if s.PrefixField != "" {
		prefix = strings.ToUpper(strings.TrimSpace(dynamicPrefix))
		if s.PrefixMap != nil {
			prefix = s.PrefixMap[prefix]
		}
		if prefix == "" {
			prefix = s.DefaultPrefix
		}
	}
	var period string
	if s.PeriodLayout != "" {
		period = now.Format(s.PeriodLayout)
	}
	return Bucket{Prefix: prefix, Period: period}
}

// Format renders the document number for seq within bucket.
// Sequences wider than Width are rendered in full.
func (s Scheme) Format(b Bucket, seq int64) string {
	var sb strings.Builder
	sb.WriteString(b.Prefix)
	sb.WriteString(s.Separator)
	if b.Period != "" {
		sb.WriteString(b.Period)
		sb.WriteString(s.seqSeparator())
	}
	sb.WriteString(fmt.Sprintf("%0*d", s.Width, seq))
	return sb.String()
}

// LikePattern returns a SQL LIKE pattern matching every number in bucket.
// The pattern uses '\' as the escape character.
func (s Scheme) LikePattern(b Bucket) string {
	var sb strings.Builder
	sb.WriteString(EscapeLike(b.Prefix))
	sb.WriteString(EscapeLike(s.Separator))
	if b.Period != "" {
		sb.WriteString(EscapeLike(b.Period))
		sb.WriteString(EscapeLike(s.seqSeparator()))
	}
	sb.WriteString("%")
	return sb.String()
}

func (s Scheme) seqSeparator() string {
	if s.SequenceSeparator != "" {
		return s.SequenceSeparator
	}
	return s.Separator
}

// EscapeLike escapes LIKE metacharacters with '\'
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Sequence extracts the sequence from a number issued in bucket. ok is false
// when number does not belong to the bucket.
func (s Scheme) Sequence(b Bucket, number string) (seq int64, ok bool) {
	head := b.Prefix + s.Separator
	if b.Period != "" {
		head += b.Period + s.seqSeparator()
	}
	digits, found := strings.CutPrefix(number, head)
	if !found || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
