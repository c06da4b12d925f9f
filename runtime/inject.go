package runtime

import (
	"github.com/cespare/xxhash/v2"

	"github.com/delaneyj/renderparty/reactive"
)

// provideKey hashes a provided name so lookup through the ancestor chain
// is a plain integer comparison.
func provideKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

func (c *Component) initProvide() {
	provided := resolveProvide(c.options.Provide, c)
	if provided == nil {
		return
	}
	c.provided = make(map[uint64]any, len(provided))
	for name, val := range provided {
		c.provided[provideKey(name)] = val
	}
}

// initInjections resolves declared injections against ancestor providers
// and exposes them read-mostly: injected values are reactive reads, but
// writes warn since the provider keeps the source of truth.
func (c *Component) initInjections() {
	if c.options.Inject == nil {
		return
	}
	resolved := c.resolveInject()
	rt := c.app.rt
	rt.PushTarget(nil)
	c.injected = reactive.NewMapFrom(rt, resolved)
	reactive.Observe(rt, c.injected)
	rt.PopTarget()
}

func (c *Component) resolveInject() map[string]any {
	out := make(map[string]any, len(c.options.Inject))
	for key, inj := range c.options.Inject {
		if val, ok := c.lookupProvided(inj.From); ok {
			out[key] = val
			continue
		}
		if inj.Default != nil {
			if factory, ok := inj.Default.(func() any); ok {
				out[key] = factory()
			} else {
				out[key] = inj.Default
			}
			continue
		}
		if c.app.rt.Config().Dev {
			c.warnf("injection %q not found", key)
		}
	}
	return out
}

func (c *Component) lookupProvided(name string) (any, bool) {
	key := provideKey(name)
	for p := c.parent; p != nil; p = p.parent {
		if p.provided != nil {
			if val, ok := p.provided[key]; ok {
				return val, true
			}
		}
	}
	return nil, false
}
