package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	da "github.com/lintang-b-s/Deliverx/pkg/datastructure"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/lintang-b-s/Deliverx/pkg/world"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

type Edge struct {
	From   uint32  `yaml:"from" json:"from"`
	To     uint32  `yaml:"to" json:"to"`
	Weight float64 `yaml:"weight" json:"weight" validate:"gte=0"`
}

type Pair struct {
	Source      uint32 `yaml:"source" json:"source"`
	Destination uint32 `yaml:"destination" json:"destination"`
}

// Problem is a delivery problem as stored on disk or sent over the API.
type Problem struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	N      int    `yaml:"n" json:"n" validate:"gte=1"`
	K      int    `yaml:"k" json:"k" validate:"gte=0"`
	M      int    `yaml:"m" json:"m" validate:"gte=1"`
	Garage uint32 `yaml:"garage" json:"garage"`
	Edges  []Edge `yaml:"edges" json:"edges" validate:"dive"`
	Pairs  []Pair `yaml:"pairs" json:"pairs" validate:"dive"`
}

var validate = validator.New()

// Validate checks field ranges and that every vertex id lies in [0, M).
func (p *Problem) Validate() error {
	if err := validate.Struct(p); err != nil {
		return util.WrapErrorf(err, util.ErrInvalidProblem, "problem %q", p.Name)
	}
	if p.K != len(p.Pairs) {
		return util.WrapErrorf(nil, util.ErrInvalidProblem, "k is %d but %d pairs given", p.K, len(p.Pairs))
	}
	if int(p.Garage) >= p.M {
		return util.WrapErrorf(nil, util.ErrInvalidProblem, "garage %d outside [0, %d)", p.Garage, p.M)
	}
	for i, e := range p.Edges {
		if int(e.From) >= p.M || int(e.To) >= p.M {
			return util.WrapErrorf(nil, util.ErrInvalidProblem, "edge %d (%d, %d) outside [0, %d)", i, e.From, e.To, p.M)
		}
	}
	for i, pr := range p.Pairs {
		if int(pr.Source) >= p.M || int(pr.Destination) >= p.M {
			return util.WrapErrorf(nil, util.ErrInvalidProblem, "pair %d (%d, %d) outside [0, %d)", i, pr.Source, pr.Destination, p.M)
		}
		if pr.Source == pr.Destination {
			return util.WrapErrorf(nil, util.ErrInvalidProblem, "pair %d has source equal to destination", i)
		}
	}
	return nil
}

func (p *Problem) Graph() (*da.Graph, error) {
	g := da.NewGraph(p.M)
	for _, e := range p.Edges {
		if err := g.AddEdge(da.Index(e.From), da.Index(e.To), e.Weight); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (p *Problem) WorldPairs() []world.Pair {
	pairs := make([]world.Pair, len(p.Pairs))
	for i, pr := range p.Pairs {
		pairs[i] = world.NewPair(da.Index(pr.Source), da.Index(pr.Destination))
	}
	return pairs
}

// World validates p and builds an unprocessed world from it.
func (p *Problem) World(opts ...world.Option) (*world.World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := p.Graph()
	if err != nil {
		return nil, err
	}
	opts = append([]world.Option{world.WithGarage(da.Index(p.Garage))}, opts...)
	return world.NewWorld(p.N, p.K, p.M, g, p.WorldPairs(), opts...)
}

// FilterPairs drops the pairs whose source equals their destination.
func FilterPairs(pairs []Pair) []Pair {
	filtered := make([]Pair, 0, len(pairs))
	for _, pr := range pairs {
		if pr.Source != pr.Destination {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// LoadFile reads a problem from a .yaml, .yml or .json file.
func LoadFile(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "read problem file %s", path)
	}

	var p *Problem
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	case ".json":
		p, err = ParseJSON(data)
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown problem file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, p.Validate()
}

// ParseYAML decodes a problem. k defaults to the number of pairs when omitted.
func ParseYAML(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode yaml problem")
	}
	var k struct {
		K *int `yaml:"k"`
	}
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode yaml problem")
	}
	p.K = len(p.Pairs)
	if k.K != nil {
		p.K = *k.K
	}
	return &p, nil
}

// ParseJSON decodes a problem. Edges are either objects {from,to,weight} or
// triples [from,to,weight], pairs either {source,destination} or [source,destination].
func ParseJSON(data []byte) (*Problem, error) {
	if !gjson.ValidBytes(data) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "invalid json problem")
	}
	doc := gjson.ParseBytes(data)

	p := &Problem{
		Name:   doc.Get("name").String(),
		N:      int(doc.Get("n").Int()),
		M:      int(doc.Get("m").Int()),
		Garage: uint32(doc.Get("garage").Uint()),
	}

	var err error
	doc.Get("edges").ForEach(func(i, v gjson.Result) bool {
		var e Edge
		switch {
		case v.IsArray():
			a := v.Array()
			if len(a) != 3 {
				err = fmt.Errorf("edge %d: want [from, to, weight]", i.Int())
				return false
			}
			e = Edge{From: uint32(a[0].Uint()), To: uint32(a[1].Uint()), Weight: a[2].Float()}
		case v.IsObject():
			e = Edge{From: uint32(v.Get("from").Uint()), To: uint32(v.Get("to").Uint()), Weight: v.Get("weight").Float()}
		default:
			err = fmt.Errorf("edge %d: unexpected %s", i.Int(), v.Type)
			return false
		}
		p.Edges = append(p.Edges, e)
		return true
	})
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode json problem")
	}

	doc.Get("pairs").ForEach(func(i, v gjson.Result) bool {
		switch {
		case v.IsArray():
			a := v.Array()
			if len(a) != 2 {
				err = fmt.Errorf("pair %d: want [source, destination]", i.Int())
				return false
			}
			p.Pairs = append(p.Pairs, Pair{Source: uint32(a[0].Uint()), Destination: uint32(a[1].Uint())})
		case v.IsObject():
			p.Pairs = append(p.Pairs, Pair{Source: uint32(v.Get("source").Uint()), Destination: uint32(v.Get("destination").Uint())})
		default:
			err = fmt.Errorf("pair %d: unexpected %s", i.Int(), v.Type)
			return false
		}
		return true
	})
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode json problem")
	}

	p.K = len(p.Pairs)
	if k := doc.Get("k"); k.Exists() {
		p.K = int(k.Int())
	}
	return p, nil
}
