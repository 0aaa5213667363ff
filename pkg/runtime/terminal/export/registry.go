package export

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// Reporter renders an analysis report to its writer.
type Reporter interface {
	Handle(report *domain.AnalysisReport) error
}

// ReporterFactory creates a Reporter writing to w.
type ReporterFactory func(w io.Writer) Reporter

// Registry manages output format factories.
type Registry interface {
	// Register adds a new output format
	Register(format string, factory ReporterFactory) error
	// Create instantiates a reporter for the format
	Create(format string, w io.Writer) (Reporter, error)
	// ListFormats returns the registered formats in sorted order
	ListFormats() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]ReporterFactory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]ReporterFactory),
	}
}

// NewDefaultRegistry returns a registry with the json, table and summary formats.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register("json", func(w io.Writer) Reporter { return NewJSONReporter(w) })
	_ = r.Register("table", func(w io.Writer) Reporter { return NewTableReporter(w) })
	_ = r.Register("summary", func(w io.Writer) Reporter { return NewSummaryReporter(w) })
	return r
}

func (r *registry) Register(format string, factory ReporterFactory) error {
	if format == "" {
		return fmt.Errorf("format name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %q is already registered", format)
	}

	r.factories[format] = factory
	return nil
}

func (r *registry) Create(format string, w io.Writer) (Reporter, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("format %q is not registered", format)
	}

	return factory(w), nil
}

func (r *registry) ListFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.factories))
	for format := range r.factories {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
