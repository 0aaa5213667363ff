package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// VocabularyPolicy decides which categories a series tracks.
type VocabularyPolicy string

const (
	// VocabularyFirstSample tracks the keys of the first sample, in order.
	// Keys that only show up later are dropped.
	VocabularyFirstSample VocabularyPolicy = "first_sample"
	// VocabularyUnion tracks every key seen in any sample, in first-seen order.
	VocabularyUnion VocabularyPolicy = "union"
)

// ParseVocabularyPolicy maps a config or flag value to a policy.
func ParseVocabularyPolicy(s string) (VocabularyPolicy, error) {
	switch VocabularyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", VocabularyFirstSample:
		return VocabularyFirstSample, nil
	case VocabularyUnion:
		return VocabularyUnion, nil
	default:
		return "", fmt.Errorf("unknown vocabulary policy %q", s)
	}
}

// Options configure series loading.
type Options struct {
	Vocabulary VocabularyPolicy
	// Categories, when set, fixes the vocabulary up front and overrides Vocabulary.
	Categories []string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 shapes produced by browsers and Python clients.
// Timestamps without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LoadSeries normalizes raw samples into a Series.
func LoadSeries(raw []domain.RawSample, opts Options) (*domain.Series, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	categories := vocabulary(raw, opts)
	series := &domain.Series{
		Categories: categories,
		Samples:    make([]domain.Sample, 0, len(raw)),
	}

	for i, r := range raw {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: invalid timestamp %q: %v", ErrMalformedInput, i, r.Timestamp, err)
		}

		values := make([]float64, len(categories))
		for j, category := range categories {
			// absent categories stay at zero
			if v, ok := r.Percentages.Get(category); ok {
				values[j] = v
			}
		}
		series.Samples = append(series.Samples, domain.Sample{Timestamp: ts, Values: values})
	}

	return series, nil
}

func vocabulary(raw []domain.RawSample, opts Options) []string {
	if len(opts.Categories) > 0 {
		return dedupe(opts.Categories)
	}

	var names []string
	if opts.Vocabulary == VocabularyUnion {
		for _, r := range raw {
			for _, p := range r.Percentages {
				names = append(names, p.Category)
			}
		}
	} else if len(raw) > 0 {
		for _, p := range raw[0].Percentages {
			names = append(names, p.Category)
		}
	}
	return dedupe(names)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
