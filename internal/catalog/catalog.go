package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Bracket is a pet weight pricing bucket.
type Bracket string

const (
	BracketSmall  Bracket = "small"
	BracketMedium Bracket = "medium"
	BracketLarge  Bracket = "large"
)

var brackets = []Bracket{BracketSmall, BracketMedium, BracketLarge}

// Brackets returns the weight brackets in display order.
func Brackets() []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets)
	return out
}

// ParseBracket normalises a form value into a Bracket.
func ParseBracket(v string) (Bracket, bool) {
	b := Bracket(strings.ToLower(strings.TrimSpace(v)))
	return b, b.Valid()
}

// Valid reports whether b is one of the three defined brackets.
func (b Bracket) Valid() bool {
	switch b {
	case BracketSmall, BracketMedium, BracketLarge:
		return true
	default:
		return false
	}
}

// Label returns the weight range shown next to a price.
func (b Bracket) Label() string {
	switch b {
	case BracketSmall:
		return "<10 kg"
	case BracketMedium:
		return "10–20 kg"
	case BracketLarge:
		return ">20 kg"
	default:
		return string(b)
	}
}

// Plan is a subscription tier. Prices are GBP minor units (pence).
type Plan struct {
	ID        string
	Name      string
	Tagline   string
	Features  []string
	Highlight bool
	Pricing   map[Bracket]int64
}

// Price returns the plan price for b, or 0 when b is not priced.
func (p Plan) Price(b Bracket) int64 {
	return p.Pricing[b]
}

func (p Plan) clone() Plan {
	cp := p
	cp.Features = append([]string(nil), p.Features...)
	cp.Pricing = make(map[Bracket]int64, len(p.Pricing))
	for k, v := range p.Pricing {
		cp.Pricing[k] = v
	}
	return cp
}

// Catalog is the immutable plan catalogue. Build it once at start-up and pass it down.
type Catalog struct {
	plans []Plan
	index map[string]int
}

var (
	// ErrUnknownPlan is returned by Lookup when the plan id is not catalogued.
	ErrUnknownPlan = errors.New("catalog: unknown plan")
	// ErrUnknownBracket is returned by Lookup for a weight outside the three brackets.
	ErrUnknownBracket = errors.New("catalog: unknown weight bracket")
)

type filePlan struct {
	ID        string           `yaml:"id" validate:"required,lowercase"`
	Name      string           `yaml:"name" validate:"required"`
	Tagline   string           `yaml:"tagline"`
	Features  []string         `yaml:"features" validate:"dive,required"`
	Highlight bool             `yaml:"highlight"`
	Pricing   map[string]int64 `yaml:"pricing" validate:"required,len=3,dive,keys,oneof=small medium large,endkeys,gte=0"`
}

type fileCatalog struct {
	Plans []filePlan `yaml:"plans" validate:"required,min=1,unique=ID,dive"`
}

var validate = validator.New()

// Load parses and validates a YAML catalogue.
func Load(r io.Reader) (*Catalog, error) {
	var raw fileCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("catalog: invalid: %w", err)
	}

	c := &Catalog{
		plans: make([]Plan, 0, len(raw.Plans)),
		index: make(map[string]int, len(raw.Plans)),
	}
	for _, fp := range raw.Plans {
		p := Plan{
			ID:        fp.ID,
			Name:      strings.TrimSpace(fp.Name),
			Tagline:   strings.TrimSpace(fp.Tagline),
			Features:  append([]string(nil), fp.Features...),
			Highlight: fp.Highlight,
			Pricing:   make(map[Bracket]int64, len(brackets)),
		}
		for k, v := range fp.Pricing {
			p.Pricing[Bracket(k)] = v
		}
		c.index[p.ID] = len(c.plans)
		c.plans = append(c.plans, p)
	}
	return c, nil
}

// LoadFile reads a catalogue from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalogue bundled with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Plans returns the plans in catalogue order.
func (c *Catalog) Plans() []Plan {
	if c == nil {
		return nil
	}
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p.clone())
	}
	return out
}

// Plan finds a plan by id.
func (c *Catalog) Plan(id string) (Plan, bool) {
	if c == nil {
		return Plan{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i].clone(), true
}

// Has reports whether id is a catalogued plan.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}
