package runtime

import (
	"fmt"
	"strings"

	"github.com/delaneyj/renderparty/vdom"
)

type keepAliveCache struct {
	entries map[string]*vdom.VNode
	keys    []string
}

// NewKeepAlive builds the abstract wrapper that caches component
// instances of its slot instead of destroying them. max of zero means
// unbounded; include and exclude props take comma-separated names.
func NewKeepAlive(max int) *Options {
	caches := map[*Component]*keepAliveCache{}
	return &Options{
		Name:      "keep-alive",
		Abstract:  true,
		PropNames: []string{"include", "exclude"},
		Created: []Hook{func(c *Component) {
			caches[c] = &keepAliveCache{entries: map[string]*vdom.VNode{}}
		}},
		Destroyed: []Hook{func(c *Component) {
			cache := caches[c]
			delete(caches, c)
			if cache == nil {
				return
			}
			for _, cached := range cache.entries {
				destroyCached(cached, nil)
			}
		}},
		Render: func(c *Component) any {
			slot := c.Slot()
			vnode := firstComponentChild(slot)
			if vnode == nil {
				if len(slot) > 0 {
					return slot[0]
				}
				return nil
			}

			include, _ := c.Get("include").(string)
			exclude, _ := c.Get("exclude").(string)
			name := componentVNodeName(vnode)
			if !keepAliveMatches(include, exclude, name) {
				return vnode
			}

			cache := caches[c]
			cache.pruneMismatches(include, exclude)

			key := keepAliveKey(vnode)
			if cached, ok := cache.entries[key]; ok && cached.ComponentInstance != nil {
				vnode.ComponentInstance = cached.ComponentInstance
				cache.touch(key)
			} else {
				cache.entries[key] = vnode
				cache.keys = append(cache.keys, key)
				if max > 0 && len(cache.keys) > max {
					oldest := cache.keys[0]
					cache.keys = cache.keys[1:]
					destroyCached(cache.entries[oldest], vnode)
					delete(cache.entries, oldest)
				}
			}

			if vnode.Data == nil {
				vnode.Data = &vdom.VNodeData{}
			}
			vnode.Data.KeepAlive = true
			return vnode
		},
	}
}

func firstComponentChild(children []*vdom.VNode) *vdom.VNode {
	for _, child := range children {
		if child != nil && (child.ComponentOptions != nil || child.IsAsyncPlaceholder) {
			return child
		}
	}
	return nil
}

func componentVNodeName(vnode *vdom.VNode) string {
	if vnode.ComponentOptions == nil {
		return ""
	}
	if opts, ok := vnode.ComponentOptions.Options.(*Options); ok && opts.Name != "" {
		return opts.Name
	}
	return vnode.ComponentOptions.Tag
}

func keepAliveMatches(include, exclude, name string) bool {
	if name == "" {
		return include == ""
	}
	if include != "" && !nameListed(include, name) {
		return false
	}
	if exclude != "" && nameListed(exclude, name) {
		return false
	}
	return true
}

func nameListed(list, name string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == name {
			return true
		}
	}
	return false
}

func keepAliveKey(vnode *vdom.VNode) string {
	if vnode.Key != nil {
		return fmt.Sprintf("%v::%s", vnode.Key, vnode.Tag)
	}
	return vnode.Tag
}

// pruneMismatches destroys entries the current filters no longer admit.
func (cache *keepAliveCache) pruneMismatches(include, exclude string) {
	kept := cache.keys[:0]
	for _, key := range cache.keys {
		cached := cache.entries[key]
		if keepAliveMatches(include, exclude, componentVNodeName(cached)) {
			kept = append(kept, key)
			continue
		}
		destroyCached(cached, nil)
		delete(cache.entries, key)
	}
	cache.keys = kept
}

func (cache *keepAliveCache) touch(key string) {
	for i, k := range cache.keys {
		if k == key {
			cache.keys = append(cache.keys[:i], cache.keys[i+1:]...)
			break
		}
	}
	cache.keys = append(cache.keys, key)
}

// destroyCached tears down a cached instance unless the current vnode
// still uses it.
func destroyCached(cached, current *vdom.VNode) {
	if cached == nil {
		return
	}
	inst, _ := cached.ComponentInstance.(*Component)
	if inst == nil {
		return
	}
	if current != nil && current.ComponentInstance == cached.ComponentInstance {
		return
	}
	inst.Destroy()
}
