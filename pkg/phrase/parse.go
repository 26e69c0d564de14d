package phrase

import "go.uber.org/zap"

type parseState struct {
	offset int
	pre    string
	pret   string
}

// Parse segments s into a sequence of phrases, left to right. At each step the
// candidates of Phrases are tried in order, longest first; a candidate whose
// remainder cannot be segmented is abandoned for the next one. It returns
// false when no complete segmentation exists.
func (m *Matcher) Parse(s string) ([]Match, bool) {
	p := parser{m: m, s: s, dead: map[parseState]bool{}}
	path, ok := p.walk(parseState{})
	if !ok {
		m.logger.Debug("no segmentation", zap.String("text", s), zap.Int("states", len(p.dead)))
		return nil, false
	}
	return path, true
}

type parser struct {
	m    *Matcher
	s    string
	dead map[parseState]bool
}

func (p *parser) walk(st parseState) ([]Match, bool) {
	if st.offset == len(p.s) {
		return []Match{}, true
	}
	if p.dead[st] {
		return nil, false
	}
	for _, c := range p.m.Phrases(p.s[st.offset:], st.pre, st.pret) {
		next := parseState{offset: st.offset + len(c.Surface), pre: c.Surface, pret: c.Category}
		if rest, ok := p.walk(next); ok {
			return append([]Match{c}, rest...), true
		}
	}
	p.dead[st] = true
	return nil, false
}
