package api

import (
	"fmt"
	"math"
	"strconv"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EmotionPercentages is a category -> percentage object that remembers the
// order its keys were written in.
type EmotionPercentages struct {
	pairs *orderedmap.OrderedMap[string, float64]
}

func NewEmotionPercentages() EmotionPercentages {
	return EmotionPercentages{pairs: orderedmap.New[string, float64]()}
}

func (p *EmotionPercentages) Set(category string, value float64) {
	if p.pairs == nil {
		p.pairs = orderedmap.New[string, float64]()
	}
	p.pairs.Set(category, value)
}

func (p EmotionPercentages) Len() int {
	if p.pairs == nil {
		return 0
	}
	return p.pairs.Len()
}

// Each visits the categories in document order.
func (p EmotionPercentages) Each(fn func(category string, value float64)) {
	if p.pairs == nil {
		return
	}
	for pair := p.pairs.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func (p *EmotionPercentages) UnmarshalJSON(data []byte) error {
	pairs := orderedmap.New[string, float64]()
	if err := pairs.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("emotion_percentage: %w", err)
	}
	p.pairs = pairs
	return nil
}

func (p EmotionPercentages) MarshalJSON() ([]byte, error) {
	if p.pairs == nil {
		return []byte("{}"), nil
	}
	return p.pairs.MarshalJSON()
}

func (EmotionPercentages) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          "Emotion category to percentage",
		AdditionalProperties: &jsonschema.Schema{Type: "number"},
	}
}

// Number is a float that survives JSON encoding when it is not finite.
// NaN and the infinities are written as the strings "NaN", "Infinity" and "-Infinity".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(nil, f, format, -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"NaN"`:
		*n = Number(math.NaN())
		return nil
	case `"Infinity"`:
		*n = Number(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*n = Number(math.Inf(-1))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*n = Number(f)
	return nil
}

func (Number) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Enum: []any{"NaN", "Infinity", "-Infinity"}},
		},
	}
}
