// Package registry maps raw bone names from motion data onto the joints of
// a loaded skeleton.
//
// Motion data and rig assets come out of different tools, so the same
// joint may appear as "mixamorig_LeftArm", "mixamorigLeftArm" or
// "leftarm". Every joint is registered under three keys: its exact name,
// its lower-cased name, and its lower-cased name with a vendor prefix
// removed. Resolution applies the same three transforms to the query and
// never matches partially.
package registry

import (
	"log/slog"
	"strings"

	"avatar-retarget/internal/logging"
	"avatar-retarget/internal/skeleton"
)

// DefaultPrefixes are the vendor armature prefixes stripped by default.
var DefaultPrefixes = []string{skeleton.DefaultPrefix}

// Options configures registry construction.
type Options struct {
	// Prefixes are matched case-insensitively at the start of a name and
	// may be followed by a single underscore.
	Prefixes []string
	Logger   *slog.Logger
}

type entry struct {
	bone  *skeleton.Bone
	exact bool
}

// Registry is the canonical lookup table for one skeleton. It is immutable
// once built; a new skeleton needs a new registry.
type Registry struct {
	sk        *skeleton.Skeleton
	keys      map[string]entry
	canonical map[*skeleton.Bone]string
	prefixes  []string
}

// Build traverses sk once and registers every bone.
func Build(sk *skeleton.Skeleton, opts Options) *Registry {
	prefixes := opts.Prefixes
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	lowered := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	r := &Registry{
		sk:        sk,
		keys:      make(map[string]entry),
		canonical: make(map[*skeleton.Bone]string),
		prefixes:  lowered,
	}
	if sk == nil {
		return r
	}

	sk.Traverse(func(b *skeleton.Bone) {
		lower := strings.ToLower(b.Name)
		stripped := r.strip(lower)
		r.canonical[b] = stripped

		// Exact names always win; derived keys keep their first owner.
		if prev, ok := r.keys[b.Name]; !ok || !prev.exact {
			r.keys[b.Name] = entry{bone: b, exact: true}
		}
		for _, k := range []string{lower, stripped} {
			prev, ok := r.keys[k]
			if !ok {
				r.keys[k] = entry{bone: b}
				continue
			}
			if prev.bone != b && !prev.exact {
				log.Debug("bone key collision", "key", k, "kept", prev.bone.Name, "dropped", b.Name)
			}
		}
	})
	return r
}

// Resolve finds the bone for a raw name: exact match, then lower-cased,
// then lower-cased with the vendor prefix stripped.
func (r *Registry) Resolve(name string) (*skeleton.Bone, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	if e, ok := r.keys[name]; ok {
		return e.bone, true
	}
	lower := strings.ToLower(name)
	if e, ok := r.keys[lower]; ok {
		return e.bone, true
	}
	if e, ok := r.keys[r.strip(lower)]; ok {
		return e.bone, true
	}
	return nil, false
}

// Lookup resolves the first name in candidates that matches.
func (r *Registry) Lookup(candidates ...string) (*skeleton.Bone, bool) {
	for _, c := range candidates {
		if b, ok := r.Resolve(c); ok {
			return b, true
		}
	}
	return nil, false
}

// Canonical returns the normalized key for a raw name: lower-cased with
// the vendor prefix removed.
func (r *Registry) Canonical(name string) string {
	return r.strip(strings.ToLower(name))
}

// CanonicalOf returns the canonical name of a registered bone.
func (r *Registry) CanonicalOf(b *skeleton.Bone) string {
	if r == nil {
		return ""
	}
	return r.canonical[b]
}

// Skeleton returns the skeleton the registry was built from.
func (r *Registry) Skeleton() *skeleton.Skeleton {
	if r == nil {
		return nil
	}
	return r.sk
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// strip removes the first matching vendor prefix from an already
// lower-cased name.
func (r *Registry) strip(lower string) string {
	prefixes := DefaultPrefixes
	if r != nil && len(r.prefixes) > 0 {
		prefixes = r.prefixes
	}
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			rest := strings.TrimPrefix(lower[len(p):], "_")
			if rest != "" {
				return rest
			}
		}
	}
	return lower
}
