// Package chart builds line-chart image URLs for the daily statistic series.
package chart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fpstats/core/encode"
	"github.com/huangsam/fpstats/schema"
)

// DefaultDays is the number of days plotted when the caller does not choose.
const DefaultDays = 40

// DefaultBaseURL is the chart service endpoint.
const DefaultBaseURL = "http://chart.apis.google.com/chart"

const (
	// fetchSlack is the number of extra rows fetched to tolerate gaps in the series.
	fetchSlack = 5

	// labelEvery places one x-axis label per this many days.
	labelEvery = 5

	labelLayout = "02/01"
)

// Fixed chart styling understood by the chart service.
const (
	chartSize   = "460x150"
	chartType   = "lc"
	chartColor  = "3D7930"
	chartGrid   = "7.15,-1,1,0"
	chartMarker = "B,C5D4B5BB,0,0,0"
)

// Errors returned by the builder.
var (
	ErrEmptySeries = errors.New("chart: series has no values")
	ErrZeroMax     = errors.New("chart: series maximum is zero")
	ErrStaleSeries = errors.New("chart: series has no value for today")
	ErrInvalidDays = errors.New("chart: number of days must be at least 1")
)

// SeriesFetcher returns up to limit points of a series, newest first.
// An unknown series yields an empty slice and no error.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, name string, limit int) ([]schema.SeriesPoint, error)
}

// Builder turns stored series into chart URLs.
type Builder struct {
	fetcher    SeriesFetcher
	baseURL    string
	now        func() time.Time
	allowStale bool
}

// Option customizes a Builder.
type Option func(*Builder)

// WithBaseURL points the builder at another chart endpoint.
func WithBaseURL(base string) Option {
	return func(b *Builder) {
		if base != "" {
			b.baseURL = base
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithAllowStale accepts series whose most recent day has no value.
func WithAllowStale(allow bool) Option {
	return func(b *Builder) {
		b.allowStale = allow
	}
}

// NewBuilder creates a Builder reading from fetcher.
func NewBuilder(fetcher SeriesFetcher, opts ...Option) *Builder {
	b := &Builder{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildGraphURL returns the chart URL for the last numDays days of the named series.
func (b *Builder) BuildGraphURL(ctx context.Context, name string, numDays int) (string, error) {
	g, err := b.BuildGraph(ctx, name, numDays)
	if err != nil {
		return "", err
	}
	return g.URL, nil
}

// BuildGraph fetches the series and assembles every piece of the chart.
func (b *Builder) BuildGraph(ctx context.Context, name string, numDays int) (*schema.Graph, error) {
	if numDays < 1 {
		return nil, ErrInvalidDays
	}

	points, err := b.fetcher.FetchSeries(ctx, name, numDays+fetchSlack)
	if err != nil {
		return nil, fmt.Errorf("fetch series %s: %w", name, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySeries)
	}

	values := make(map[string]int64, len(points))
	var maxValue int64
	for _, p := range points {
		values[schema.NormalizeDay(p.Date)] = p.Value
		maxValue = max(maxValue, p.Value)
	}
	maxValue += maxValue / 10 // headroom above the highest point
	if maxValue == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrZeroMax)
	}

	dates, labels := CanonicalDates(b.now(), numDays)
	if _, ok := values[dates[len(dates)-1]]; !ok && !b.allowStale {
		return nil, fmt.Errorf("%s on %s: %w", name, dates[len(dates)-1], ErrStaleSeries)
	}

	var data strings.Builder
	data.Grow(2 * numDays)
	for _, d := range dates {
		v, ok := values[d]
		if !ok {
			data.WriteString(encode.Missing)
			continue
		}
		code, err := encode.EncodeExtended(v, maxValue)
		if err != nil {
			return nil, fmt.Errorf("encode %s on %s: %w", name, d, err)
		}
		data.WriteString(code)
	}

	g := &schema.Graph{
		Series:   name,
		Days:     numDays,
		Labels:   labels,
		MaxValue: maxValue,
		Data:     data.String(),
	}
	g.URL = FormatURL(b.baseURL, g.Labels, g.MaxValue, g.Data)
	return g, nil
}

// CanonicalDates returns the last numDays calendar days ending on the day of now,
// oldest first, together with one dd/mm label for every fifth day counted back from today.
// Labels are returned oldest first as well.
func CanonicalDates(now time.Time, numDays int) (dates, labels []string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dates = make([]string, 0, numDays)
	for i := range numDays {
		d := today.AddDate(0, 0, -i)
		dates = append(dates, schema.FormatDay(d))
		if i%labelEvery == 0 {
			labels = append(labels, d.Format(labelLayout))
		}
	}
	slices.Reverse(dates)
	slices.Reverse(labels)
	return dates, labels
}

// FormatURL assembles the chart URL. Parameter order and literals are part of
// the chart service grammar and must not change.
func FormatURL(base string, labels []string, maxValue int64, data string) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("?chxl=1:|")
	sb.WriteString(strings.Join(labels, "|"))
	sb.WriteString("&chxr=0,0,")
	sb.WriteString(strconv.FormatInt(maxValue, 10))
	sb.WriteString("&chxt=y,x")
	sb.WriteString("&chs=" + chartSize)
	sb.WriteString("&cht=" + chartType)
	sb.WriteString("&chco=" + chartColor)
	sb.WriteString("&chd=e:")
	sb.WriteString(data)
	sb.WriteString("&chg=" + chartGrid)
	sb.WriteString("&chm=" + chartMarker)
	return sb.String()
}
