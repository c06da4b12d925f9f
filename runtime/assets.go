package runtime

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	assetComponents = "components"
	assetDirectives = "directives"
	assetFilters    = "filters"
)

// resolveAsset walks the merged asset chain, trying the literal id, its
// camelCase form and its PascalCase form.
func resolveAsset(opts *Options, kind, id string) (any, bool) {
	chain := opts.chainFor(kind)
	if chain == nil {
		return nil, false
	}
	if v, ok := chain.lookup(id); ok {
		return v, true
	}
	camel := camelize(id)
	if camel != id {
		if v, ok := chain.lookup(camel); ok {
			return v, true
		}
	}
	if pascal := capitalize(camel); pascal != camel {
		if v, ok := chain.lookup(pascal); ok {
			return v, true
		}
	}
	return nil, false
}

// Filter resolves a registered filter by name.
func (c *Component) Filter(name string) any {
	v, ok := resolveAsset(c.options, assetFilters, name)
	if !ok && c.app.rt.Config().Dev {
		c.warnf("failed to resolve filter %q", name)
	}
	return v
}

// DirectiveByName resolves a registered directive by name.
func (c *Component) DirectiveByName(name string) *Directive {
	v, ok := resolveAsset(c.options, assetDirectives, name)
	if !ok {
		if c.app.rt.Config().Dev {
			c.warnf("failed to resolve directive %q", name)
		}
		return nil
	}
	d, _ := v.(*Directive)
	return d
}

// camelize turns kebab-case into camelCase.
func camelize(s string) string {
	if !strings.ContainsRune(s, '-') {
		return s
	}
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// hyphenate turns camelCase into kebab-case, the form attributes arrive
// in.
func hyphenate(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func componentTagName(cid uint64, name string) string {
	if name == "" {
		return fmt.Sprintf("component-%d", cid)
	}
	return fmt.Sprintf("component-%d-%s", cid, name)
}
