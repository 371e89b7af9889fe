package metric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Identity lists, per identifying attribute, the raw keys to try in order.
// The first key holding a non-empty value wins.
type Identity struct {
	ID       []string
	Name     []string
	Code     []string
	Category []string
}

// DefaultIdentity covers the key spellings used by the analytics service for
// teams and players.
var DefaultIdentity = Identity{
	ID:       []string{KeyID, KeyPlayerID, KeyTeamID},
	Name:     []string{KeyTeam, KeyTeamName, KeyPlayerName, KeyWebName, KeyName},
	Code:     []string{KeyTeamShort, KeyShortName, KeyTeamCode},
	Category: []string{KeyPosition, KeyPositionName},
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithIdentity overrides the identifying key lookup.
func WithIdentity(id Identity) Option {
	return func(n *Normalizer) {
		n.identity = id
	}
}

// WithAlias reads field from the raw key source when field itself is absent.
// Useful when the same quantity is spelled differently across datasets.
func WithAlias(field, source string) Option {
	return func(n *Normalizer) {
		if field != "" && source != "" {
			n.aliases[field] = append(n.aliases[field], source)
		}
	}
}

// Normalizer converts Raw objects into Records for a fixed set of fields.
type Normalizer struct {
	fields   []string
	identity Identity
	aliases  map[string][]string
}

// NewNormalizer returns a normalizer that populates exactly the given fields.
// Field names may be dotted paths into nested objects.
func NewNormalizer(fields []string, opts ...Option) *Normalizer {
	n := &Normalizer{
		fields:   append([]string(nil), fields...),
		identity: DefaultIdentity,
		aliases:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Fields returns the fields this normalizer populates.
func (n *Normalizer) Fields() []string {
	return append([]string(nil), n.fields...)
}

// Normalize builds a Record from raw. Missing, non-numeric and non-finite
// values become 0. raw is never modified.
func (n *Normalizer) Normalize(raw Raw) Record {
	r := Record{
		ID:       firstText(raw, n.identity.ID),
		Name:     firstText(raw, n.identity.Name),
		Code:     firstText(raw, n.identity.Code),
		Category: firstText(raw, n.identity.Category),
		values:   make(map[string]float64, len(n.fields)),
	}
	for _, f := range n.fields {
		v, ok := Lookup(raw, f)
		if !ok {
			for _, alias := range n.aliases[f] {
				if v, ok = Lookup(raw, alias); ok {
					break
				}
			}
		}
		r.values[f] = Number(v)
	}
	return r
}

// NormalizeAll normalizes every element, preserving order.
func (n *Normalizer) NormalizeAll(raws []Raw) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

// Lookup resolves key in raw. A key containing dots that is not present
// verbatim is treated as a path through nested objects.
func Lookup(raw Raw, key string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	if v, ok := raw[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}
	var cur any = map[string]any(raw)
	for _, part := range strings.Split(key, ".") {
		switch m := cur.(type) {
		case map[string]any:
			next, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = next
		case Raw:
			next, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

// Number coerces an arbitrary decoded value into a finite float64.
func Number(v any) float64 {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// Text coerces an identifying value into a trimmed string.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func firstText(raw Raw, keys []string) string {
	for _, k := range keys {
		v, ok := Lookup(raw, k)
		if !ok {
			continue
		}
		if s := Text(v); s != "" {
			return s
		}
	}
	return ""
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
