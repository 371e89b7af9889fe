package metric

const percent = 100

// ScaleToMax writes field as a percentage of its maximum across records into
// target. When the maximum is not positive every target is 0. The input slice
// is left untouched.
func ScaleToMax(records []Record, field, target string) []Record {
	var best float64
	for _, r := range records {
		if v := r.Value(field); v > best {
			best = v
		}
	}
	out := make([]Record, len(records))
	for i, r := range records {
		var share float64
		if best > 0 {
			share = r.Value(field) / best * percent
		}
		out[i] = r.With(target, share)
	}
	return out
}
