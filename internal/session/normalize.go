package session

import (
	"sort"
	"strings"
)

// NormalizeModel resolves a user-supplied model name against the backend's
// installed models. Matching is case-insensitive and ignores the ":tag"
// suffix, so "deepseek" resolves to "deepseek-v2.5:latest". An exact
// normalized match wins; otherwise the first installed model whose
// normalized name has the requested name as a prefix is used. When nothing
// matches, the error names the closest installed alternatives.
func NormalizeModel(requested string, available []string) (string, error) {
	want := normalizeModelName(requested)
	if want == "" {
		return "", &ModelNotInstalledError{Requested: requested}
	}

	for _, name := range available {
		if normalizeModelName(name) == want {
			return name, nil
		}
	}

	for _, name := range available {
		if strings.HasPrefix(normalizeModelName(name), want) {
			return name, nil
		}
	}

	return "", &ModelNotInstalledError{
		Requested:    requested,
		Alternatives: closestModels(want, available, 3),
	}
}

// normalizeModelName lowercases a model name and strips the tag suffix,
// mirroring how Ollama treats "name" and "name:latest" as the same model.
func normalizeModelName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// closestModels ranks the available models by shared prefix length with the
// requested name and returns up to limit of them, best first.
func closestModels(want string, available []string, limit int) []string {
	type scored struct {
		name  string
		score int
	}
	ranked := make([]scored, 0, len(available))
	for _, name := range available {
		ranked = append(ranked, scored{name: name, score: commonPrefixLen(want, normalizeModelName(name))})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.name)
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
