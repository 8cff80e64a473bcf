package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/invconv/document"
	"go.jacobcolvin.com/invconv/legacyxml"
	"go.jacobcolvin.com/invconv/schema"
)

// Indent is the indentation of JSON written by [Converter.Convert].
const Indent = "    "

// Sentinel errors returned by the converter.
var (
	// ErrInvalidXML is returned when the input is not well-formed XML.
	ErrInvalidXML = legacyxml.ErrInvalidXML
	// ErrUnhandledKey is returned for network device data the converter does
	// not know how to map. Such data is never dropped silently.
	ErrUnhandledKey = errors.New("unhandled key")
	// ErrStage is returned when a conversion stage fails. The message names
	// the pass and the stage.
	ErrStage = errors.New("conversion has failed")
	// ErrInvalidVersion is returned by [ParseVersion].
	ErrInvalidVersion = errors.New("invalid target version")
)

var canonicalPatterns = sync.OnceValue(func() schema.Patterns {
	return schema.PatternsOf(schema.Canonical())
})

// Step describes the document after a stage ran. Document is the live
// document: observers must not modify it and must copy it to keep it.
type Step struct {
	Document *document.Object
	Pass     string
	Stage    string
}

// Converter turns legacy inventory XML into canonical JSON.
//
// A Converter holds only configuration and may be used concurrently. Create
// instances with [New].
type Converter struct {
	logger    *slog.Logger
	recorder  *Recorder
	patterns  schema.Patterns
	observers []func(Step)
	target    float64
}

// Option configures a [Converter].
type Option func(*Converter)

// New creates a [Converter] targeting [LastVersion] unless
// [WithTargetVersion] says otherwise.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger: slog.Default(),
		target: LastVersion,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.patterns.NetworkTypes == nil {
		c.patterns = canonicalPatterns()
	}

	return c
}

// WithTargetVersion sets the format version to convert to. Passes for later
// versions are skipped.
func WithTargetVersion(version float64) Option {
	return func(c *Converter) {
		c.target = version
	}
}

// WithSchema takes the accepted network interface types from s instead of
// the canonical schema.
func WithSchema(s *jsonschema.Schema) Option {
	return func(c *Converter) {
		c.patterns = schema.PatternsOf(s)
	}
}

// WithObserver registers fn to be called after each stage.
func WithObserver(fn func(Step)) Option {
	return func(c *Converter) {
		c.observers = append(c.observers, fn)
	}
}

// WithDebug keeps a copy of the document after every stage when debug is
// true. Retrieve them with [Converter.Steps].
func WithDebug(debug bool) Option {
	return func(c *Converter) {
		if !debug {
			c.recorder = nil

			return
		}

		if c.recorder == nil {
			c.recorder = &Recorder{}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// TargetVersion returns the format version the converter produces.
func (c *Converter) TargetVersion() float64 {
	return c.target
}

// Passes returns the names of the passes that run, in order.
func (c *Converter) Passes() []string {
	var names []string

	for _, p := range registry {
		if p.Version <= c.target {
			names = append(names, p.Name)
		}
	}

	return names
}

// Steps returns the snapshots recorded since the converter was created, or
// nil when debug is off.
func (c *Converter) Steps() []Step {
	if c.recorder == nil {
		return nil
	}

	return c.recorder.Steps()
}

// Convert converts legacy XML and returns indented JSON.
func (c *Converter) Convert(xml []byte) ([]byte, error) {
	doc, err := c.ConvertDocument(xml)
	if err != nil {
		return nil, err
	}

	out, err := document.Encode(doc, Indent)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrStage, err)
	}

	return out, nil
}

// ConvertString is [Converter.Convert] for strings.
func (c *Converter) ConvertString(xml string) (string, error) {
	out, err := c.Convert([]byte(xml))
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// ConvertDocument converts legacy XML and returns the converted document.
func (c *Converter) ConvertDocument(xml []byte) (*document.Object, error) {
	root, err := legacyxml.Parse(xml)
	if err != nil {
		return nil, err
	}

	removed := legacyxml.Prune(root)
	c.logger.Debug("pruned empty elements", slog.Int("count", removed))

	r := &run{
		doc:      legacyxml.ToObject(root),
		patterns: c.patterns,
		logger:   c.logger,
	}

	c.notify("", "decode", r.doc)

	for _, p := range registry {
		if p.Version > c.target {
			continue
		}

		for _, s := range p.Stages {
			err := s.apply(r)
			if err != nil {
				return nil, fmt.Errorf("%w at %s/%s: %w", ErrStage, p.Name, s.Name, err)
			}

			if r.doc == nil {
				return nil, fmt.Errorf("%w at %s/%s: no document", ErrStage, p.Name, s.Name)
			}

			c.notify(p.Name, s.Name, r.doc)
		}
	}

	return r.doc, nil
}

func (c *Converter) notify(pass, stage string, doc *document.Object) {
	c.logger.Debug("conversion step",
		slog.String("pass", pass),
		slog.String("stage", stage),
	)

	if c.recorder == nil && len(c.observers) == 0 {
		return
	}

	step := Step{Pass: pass, Stage: stage, Document: doc}

	if c.recorder != nil {
		c.recorder.Observe(step)
	}

	for _, fn := range c.observers {
		fn(step)
	}
}

// ParseVersion parses a target version such as "0.1".
func ParseVersion(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidVersion, s)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || v < registry[0].Version {
		return 0, fmt.Errorf("%w: %s, want %s or later",
			ErrInvalidVersion, s, strconv.FormatFloat(registry[0].Version, 'f', -1, 64))
	}

	return v, nil
}

// Recorder is an observer that keeps a deep copy of every step. It is safe
// for concurrent use.
type Recorder struct {
	steps []Step
	mu    sync.Mutex
}

// Observe records step. Pass it to [WithObserver].
func (r *Recorder) Observe(step Step) {
	step.Document = step.Document.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps = append(r.steps, step)
}

// Steps returns the recorded steps.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Step, len(r.steps))
	copy(out, r.steps)

	return out
}

// Reset forgets all recorded steps.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps = nil
}
