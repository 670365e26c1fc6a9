package usecases

import (
	"strings"

	"github.com/samirrijal/trailmatch/internal/core/domain"
)

// Trail tags derived from names.
const (
	TagScenic      = "Scenic"
	TagGoodWalk    = "Good Walk"
	TagDogFriendly = "Dog Friendly"
	TagKidSafe     = "Kid Safe"
)

// tagRules are evaluated independently; any subset may apply. Order here is
// the display order.
var tagRules = []struct {
	tag      string
	triggers []string
}{
	{TagScenic, []string{"lake", "falls", "ridge"}},
	{TagGoodWalk, []string{"loop", "trail"}},
	{TagDogFriendly, []string{"dog", "pet"}},
	{TagKidSafe, []string{"easy", "family", "park"}},
}

// Classify derives descriptive tags from a trail name by case-insensitive
// substring match. It never returns nil.
func Classify(name string) []string {
	lower := strings.ToLower(name)
	tags := []string{}
	for _, rule := range tagRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}
	return tags
}

// Tag classifies every ranked trail, preserving order.
func Tag(ranked []domain.RankedTrail) []domain.TaggedTrail {
	tagged := make([]domain.TaggedTrail, 0, len(ranked))
	for _, r := range ranked {
		tagged = append(tagged, domain.TaggedTrail{RankedTrail: r, Tags: Classify(r.Name)})
	}
	return tagged
}
