// Package htmlingest parses an XHTML document and its linked CSS,
// computes a cascaded style per element, and builds the IR (spec §4.4).
//
// XML tree parsing uses github.com/beevik/etree, the same library the
// teacher's FB2 parser (fb2/parse.go) and EPUB XHTML builder
// (convert/epub/xhtml.go) use for tree-shaped markup — a conforming,
// sink-neutral parser rather than a hand-rolled tokenizer. CSS tokenizing
// reuses github.com/tdewolff/parse/v2 + .../css exactly as the teacher's
// css/parser.go does for its own stylesheet subset.
package htmlingest

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Origin tracks where a declaration came from, for UA < Author < Inline
// precedence (spec §4.4 step 2).
type Origin int

const (
	OriginUA Origin = iota
	OriginAuthor
	OriginInline
)

// Specificity is the standard (id, class, type) triple.
type Specificity struct {
	IDs, Classes, Types int
}

// Less reports whether s sorts before o (lower specificity wins first,
// so the cascade applies overrides in ascending order).
func (s Specificity) Less(o Specificity) bool {
	if s.IDs != o.IDs {
		return s.IDs < o.IDs
	}
	if s.Classes != o.Classes {
		return s.Classes < o.Classes
	}
	return s.Types < o.Types
}

// SimpleSelector is one compound selector: optional tag, optional id,
// zero or more classes. Descendant combinators are modeled as a chain —
// Ancestors holds the selector for each ancestor context, outermost
// first, which all must match somewhere up the element's parent chain.
type SimpleSelector struct {
	Tag       string // "" = any
	ID        string // "" = unconstrained
	Classes   []string
	Ancestors []SimpleSelector
}

func (s SimpleSelector) specificity() Specificity {
	sp := Specificity{}
	if s.ID != "" {
		sp.IDs++
	}
	sp.Classes += len(s.Classes)
	if s.Tag != "" {
		sp.Types++
	}
	for _, a := range s.Ancestors {
		asp := a.specificity()
		sp.IDs += asp.IDs
		sp.Classes += asp.Classes
		sp.Types += asp.Types
	}
	return sp
}

// Rule is one parsed CSS rule.
type Rule struct {
	Selector   SimpleSelector
	Properties map[string]string
	Origin     Origin
	Order      int // source order, for same-specificity tiebreak
}

// Stylesheet is an ordered collection of rules.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses author CSS text into a Stylesheet. order is a
// running counter the caller bumps across stylesheets so source order is
// preserved as the final cascade tiebreaker.
func ParseStylesheet(data []byte, origin Origin, order *int, log *zap.Logger) *Stylesheet {
	if log == nil {
		log = zap.NewNop()
	}
	sheet := &Stylesheet{}
	input := parse.NewInput(bytes.NewReader(data))
	p := css.NewParser(input, false)

	for {
		gt, _, tdata := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return sheet
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selectors := splitSelectors(string(tdata), p.Values())
			props := parseDeclarations(p)
			for _, selStr := range selectors {
				sel, ok := parseSelector(selStr)
				if !ok {
					log.Debug("skipping unsupported selector", zap.String("selector", selStr))
					continue
				}
				*order++
				sheet.Rules = append(sheet.Rules, Rule{
					Selector:   sel,
					Properties: cloneProps(props),
					Origin:     origin,
					Order:      *order,
				})
			}
		}
	}
}

func cloneProps(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func splitSelectors(data string, values []css.Token) []string {
	var sb strings.Builder
	sb.WriteString(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var out []string
	for _, s := range strings.Split(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDeclarations(p *css.Parser) map[string]string {
	props := make(map[string]string)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props
		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			var sb strings.Builder
			for _, v := range p.Values() {
				sb.Write(v.Data)
			}
			props[name] = strings.TrimSpace(sb.String())
		}
	}
}

// parseSelector supports tag, class, id, compound (tag.class#id...), and
// descendant combinators (spec §4.4: "tag, class, id, descendant,
// compound"). Anything fancier (sibling combinators, attribute selectors,
// pseudo-elements) is rejected so the cascade never silently
// mis-prioritizes a rule it can't actually evaluate.
func parseSelector(s string) (SimpleSelector, bool) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return SimpleSelector{}, false
	}
	var chain []SimpleSelector
	for _, p := range parts {
		ss, ok := parseCompound(p)
		if !ok {
			return SimpleSelector{}, false
		}
		chain = append(chain, ss)
	}
	leaf := chain[len(chain)-1]
	leaf.Ancestors = chain[:len(chain)-1]
	return leaf, true
}

func parseCompound(s string) (SimpleSelector, bool) {
	if strings.ContainsAny(s, ">+~[:") {
		return SimpleSelector{}, false
	}
	var ss SimpleSelector
	i := 0
	n := len(s)
	readIdent := func() string {
		start := i
		for i < n && s[i] != '.' && s[i] != '#' {
			i++
		}
		return s[start:i]
	}
	if i < n && s[i] != '.' && s[i] != '#' {
		tag := readIdent()
		if tag != "*" {
			ss.Tag = tag
		}
	}
	for i < n {
		switch s[i] {
		case '.':
			i++
			start := i
			for i < n && s[i] != '.' && s[i] != '#' {
				i++
			}
			ss.Classes = append(ss.Classes, s[start:i])
		case '#':
			i++
			start := i
			for i < n && s[i] != '.' && s[i] != '#' {
				i++
			}
			ss.ID = s[start:i]
		default:
			return SimpleSelector{}, false
		}
	}
	return ss, true
}

// matcher is anything the cascade can test a selector chain against —
// implemented by *elementCtx in ingest.go, kept abstract here so cascade
// logic has no dependency on the XML tree shape.
type matcher interface {
	tag() string
	id() string
	classes() []string
	parent() matcher
}

func (s SimpleSelector) matches(e matcher) bool {
	if s.Tag != "" && s.Tag != e.tag() {
		return false
	}
	if s.ID != "" && s.ID != e.id() {
		return false
	}
	for _, c := range s.Classes {
		if !containsStr(e.classes(), c) {
			return false
		}
	}
	if len(s.Ancestors) == 0 {
		return true
	}
	// Each ancestor selector must match some strict ancestor, in order
	// from the selector's outermost segment to its innermost, walking up
	// the element chain.
	cur := e.parent()
	ai := len(s.Ancestors) - 1
	for ai >= 0 && cur != nil {
		if s.Ancestors[ai].matchesSelf(cur) {
			ai--
		}
		cur = cur.parent()
	}
	return ai < 0
}

func (s SimpleSelector) matchesSelf(e matcher) bool {
	if s.Tag != "" && s.Tag != e.tag() {
		return false
	}
	if s.ID != "" && s.ID != e.id() {
		return false
	}
	for _, c := range s.Classes {
		if !containsStr(e.classes(), c) {
			return false
		}
	}
	return true
}

func containsStr(hay []string, needle string) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

// Cascade computes the final declaration set for e by layering matching
// rules from every sheet in origin order (UA, then authors in order,
// then — via ApplyInline — the inline style attribute), each sorted by
// specificity then source order so later, more specific rules win.
func Cascade(sheets []*Stylesheet, e matcher) map[string]string {
	type match struct {
		rule Rule
	}
	var matches []match
	for _, sheet := range sheets {
		for _, r := range sheet.Rules {
			if r.Selector.matches(e) {
				matches = append(matches, match{r})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].rule, matches[j].rule
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		asp, bsp := a.Selector.specificity(), b.Selector.specificity()
		if asp != bsp {
			return asp.Less(bsp)
		}
		return a.Order < b.Order
	})

	out := make(map[string]string)
	for _, m := range matches {
		for k, v := range m.rule.Properties {
			out[k] = v
		}
	}
	return out
}

// ApplyInline layers an inline `style="..."` attribute's declarations
// (highest precedence, spec §4.4 step 2c) onto an already-cascaded
// property map.
func ApplyInline(props map[string]string, inline string) map[string]string {
	if strings.TrimSpace(inline) == "" {
		return props
	}
	for _, decl := range strings.Split(inline, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if k == "" {
			continue
		}
		props[k] = v
	}
	return props
}

// parseLengthValue parses a CSS length/percentage token into a (unit, value)
// pair understood by ir.Length; unrecognized or non-numeric input maps to
// auto, matching the "normalize to a small closed set" requirement (spec
// §3.4) rather than threading CSS's open unit grammar further downstream.
func parseLengthValue(s string) (unit string, value float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "auto" {
		return "auto", 0, true
	}
	for _, u := range []string{"px", "em", "rem", "%"} {
		if strings.HasSuffix(s, u) {
			numStr := strings.TrimSuffix(s, u)
			n, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return "auto", 0, false
			}
			if u == "%" {
				return "percent", n, true
			}
			return u, n, true
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return "px", n, true
	}
	return "auto", 0, false
}
