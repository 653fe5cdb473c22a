package store

import (
	"context"
	"strings"
)

// Artifact keys are flat strings namespaced by platform and area:
//
//	<platform>/cache/<tool>-<revision>
//	<platform>/current/<tool>-<revision>
//
// cache/ holds every artifact still referenced by a resolved head;
// current/ holds exactly the live, promoted toolchain.

// CachePrefix returns the cache namespace for a platform.
func CachePrefix(platform string) string {
	return platform + "/cache/"
}

// CurrentPrefix returns the live namespace for a platform.
func CurrentPrefix(platform string) string {
	return platform + "/current/"
}

// Key builds the artifact key for a tool at a revision under a prefix.
func Key(prefix, tool, revision string) string {
	return prefix + tool + "-" + revision
}

// ParseKey splits an artifact key into tool name and revision.
// The revision is everything after the last dash, so tool names may
// themselves contain dashes.
func ParseKey(key string) (tool, revision string, ok bool) {
	base := key
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, "-")
	if i <= 0 || i == len(base)-1 {
		return "", "", false
	}
	return base[:i], base[i+1:], true
}

// Versions lists the tool→revision map recorded under a prefix.
func Versions(ctx context.Context, s ObjectStore, prefix string) (map[string]string, error) {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	versions := make(map[string]string, len(keys))
	for _, key := range keys {
		tool, rev, ok := ParseKey(key)
		if !ok {
			continue
		}
		versions[tool] = rev
	}
	return versions, nil
}
