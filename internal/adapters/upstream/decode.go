package upstream

import (
	"fmt"

	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/tidwall/gjson"
)

// Decode extracts the record array from a payload. The payload may be a bare
// array or an object holding the array under envelope. Non-object elements
// are skipped.
func Decode(body []byte, envelope string) ([]metric.Raw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json: %w", ErrDecode)
	}
	list := gjson.ParseBytes(body)
	if !list.IsArray() && envelope != "" {
		list = list.Get(envelope)
	}
	if !list.IsArray() {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return nil, fmt.Errorf("%s: %w", msg.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("expected an array of records: %w", ErrDecode)
	}
	return objects(nil, list, nil), nil
}

// SectionKey is the record key DecodeSections stamps with the section name.
const SectionKey = "section"

// DecodeSections gathers the record arrays held under each of sections.
// Missing sections contribute no records; a payload with none of them is
// malformed.
func DecodeSections(body []byte, sections []string) ([]metric.Raw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json: %w", ErrDecode)
	}
	root := gjson.ParseBytes(body)
	var out []metric.Raw
	found := false
	for _, name := range sections {
		list := root.Get(name)
		if !list.IsArray() {
			continue
		}
		found = true
		out = objects(out, list, func(r metric.Raw) { r[SectionKey] = name })
	}
	if !found {
		if msg := root.Get("error"); msg.Exists() {
			return nil, fmt.Errorf("%s: %w", msg.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("expected record arrays under %v: %w", sections, ErrDecode)
	}
	if out == nil {
		out = []metric.Raw{}
	}
	return out, nil
}

// objects appends the object elements of list to out, skipping scalars.
func objects(out []metric.Raw, list gjson.Result, tag func(metric.Raw)) []metric.Raw {
	items := list.Array()
	if out == nil {
		out = make([]metric.Raw, 0, len(items))
	}
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		m, ok := item.Value().(map[string]any)
		if !ok {
			continue
		}
		r := metric.Raw(m)
		if tag != nil {
			tag(r)
		}
		out = append(out, r)
	}
	return out
}
