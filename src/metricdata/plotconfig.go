package metricdata

// PlotConfig is an open keyed configuration mapping for a plot. Recognized
// keys are "title", "labels", "colors", "legendloc", "cbarFormat", "xlabel",
// "ylabel", plus the per-bundle keys "label", "color" and "metricIsColor";
// plotters may define additional keys. An absent key means "no opinion".
type PlotConfig map[string]any

// String returns the string value for key, with ok=false when the key is
// absent or holds a non-string.
func (p PlotConfig) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringSlice returns the []string value for key, or nil.
func (p PlotConfig) StringSlice(key string) []string {
	if p == nil {
		return nil
	}
	s, _ := p[key].([]string)
	return s
}

// Bool reports whether key holds a true boolean.
func (p PlotConfig) Bool(key string) bool {
	if p == nil {
		return false
	}
	b, _ := p[key].(bool)
	return b
}

// Int returns the int value for key with a fallback default.
func (p PlotConfig) Int(key string, def int) int {
	if p == nil {
		return def
	}
	if n, ok := p[key].(int); ok {
		return n
	}
	return def
}

// Clone returns a shallow copy so per-call mutation never leaks into a
// caller-owned map.
func (p PlotConfig) Clone() PlotConfig {
	out := make(PlotConfig, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
