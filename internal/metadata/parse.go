package metadata

import "strings"

// DefaultCategoryID is the fallback category ("People & Blogs") applied
// when the model returns anything outside the permitted enumeration.
// Never block the user on a cosmetic field.
const DefaultCategoryID = "22"

var validCategories = map[string]struct{}{
	"1": {}, "2": {}, "10": {}, "15": {}, "17": {}, "19": {}, "20": {},
	"22": {}, "23": {}, "24": {}, "25": {}, "26": {}, "27": {}, "28": {},
}

// SplitTags parses a comma-separated completion into a clean tag list,
// trimming whitespace and dropping empty entries. The model may return
// stray punctuation or a different tag count than requested; both are
// tolerated.
func SplitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizeCategory validates a category completion against the permitted
// category codes, falling back to DefaultCategoryID for anything else.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	if _, ok := validCategories[s]; ok {
		return s
	}
	return DefaultCategoryID
}
