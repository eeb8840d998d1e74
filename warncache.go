package nowarngraph

import (
	"strings"
)

// A warnPropsCache memoizes the [WarnProperties] computed for a referenced project's spec at a
// particular framework.  The same project is typically reachable from several frameworks' graphs
// in one [Resolve] call; the cache amortizes the per-framework extraction of its declaration-shaped
// configuration.  The cache lives for the duration of one [Resolve] call only.
type warnPropsCache struct {
	byPath map[string]map[Framework]WarnProperties
}

func newWarnPropsCache() *warnPropsCache {
	return &warnPropsCache{byPath: map[string]map[Framework]WarnProperties{}}
}

func (c *warnPropsCache) key(spec *ProjectSpec) string {
	if spec.Path != "" {
		return strings.ToLower(spec.Path)
	}
	return string(spec.Id)
}

// get returns the cached [WarnProperties] for the given project spec at the given framework,
// computing and inserting it on first use.
func (c *warnPropsCache) get(spec *ProjectSpec, fw Framework) WarnProperties {
	key := c.key(spec)
	byFw := c.byPath[key]
	if byFw == nil {
		byFw = map[Framework]WarnProperties{}
		c.byPath[key] = byFw
	}
	if w, ok := byFw[fw]; ok {
		return w
	}
	w := WarnProperties{
		ProjectWide:     spec.ProjectWide,
		PackageSpecific: spec.PackageSpecific.ForFramework(fw),
	}
	byFw[fw] = w
	return w
}
