package launch

import (
	"regexp"

	"github.com/nfrund/topograph/internal/remap"
)

var (
	nodeCallPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\WComposableNode\(.*?remappings\s*=\s*\[.*?\]`),
		regexp.MustCompile(`(?s)\WNode\(.*?remappings\s*=\s*\[.*?\]`),
	}

	nodeNameArg         = regexp.MustCompile(`\bname\s*=\s*["']([^"']+)["']`)
	remappingsList      = regexp.MustCompile(`(?s)remappings.+`)
	remapPair           = regexp.MustCompile(`\(\s*["']([^"']+)["']\s*,\s*([^,]+)`)
	launchConfiguration = regexp.MustCompile(`LaunchConfiguration\(\s*["']([^"']+)["']`)
	quotedValue         = regexp.MustCompile(`["']([^"']+)["']`)
)

// ExtractPython scans a programmatic launch script for node declarations
// carrying a remappings list and returns one rule per remap pair.
func ExtractPython(text string) []remap.Rule {
	var rules []remap.Rule
	for _, pattern := range nodeCallPatterns {
		for _, call := range pattern.FindAllString(text, -1) {
			rules = append(rules, callRules(call)...)
		}
	}
	return rules
}

func callRules(call string) []remap.Rule {
	name := nodeNameArg.FindStringSubmatch(call)
	if name == nil {
		return nil
	}
	list := remappingsList.FindString(call)

	var rules []remap.Rule
	for _, pair := range remapPair.FindAllStringSubmatch(list, -1) {
		resolved, ok := RemapTarget(pair[2])
		if !ok {
			continue
		}
		rules = append(rules, remap.Rule{
			Owner:    name[1],
			Original: pair[1],
			Resolved: resolved,
			Origin:   remap.OriginPython,
		})
	}
	return rules
}

// RemapTarget classifies the new-value expression of a remap pair. A launch
// configuration lookup resolves to the symbol "/" + option name; otherwise
// the first quoted string is taken literally.
func RemapTarget(expr string) (string, bool) {
	if m := launchConfiguration.FindStringSubmatch(expr); m != nil {
		return "/" + m[1], true
	}
	if m := quotedValue.FindStringSubmatch(expr); m != nil {
		return m[1], true
	}
	return "", false
}
