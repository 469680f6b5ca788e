package app

import (
	"regexp"
	"strings"

	"github.com/CPT-Dawn/VoidLink/internal/bluetooth"
	"github.com/CPT-Dawn/VoidLink/internal/config"
)

// FilteredDevices returns the devices visible under the current filter, in
// list order. The unnamed-device filter applies before the search query.
func (a *App) FilteredDevices() []bluetooth.DeviceInfo {
	match := a.matcher()
	out := make([]bluetooth.DeviceInfo, 0, len(a.Devices))
	for _, d := range a.Devices {
		if a.cfg.General.HideUnnamedDevices && d.Name == "" {
			continue
		}
		if match(d) {
			out = append(out, d)
		}
	}
	return out
}

// validateSearch refreshes SearchError after each query edit so the UI can
// flag a bad pattern while the user is still typing.
func (a *App) validateSearch() {
	a.SearchError = ""
	pattern, useRegex := a.regexPattern()
	if !useRegex || pattern == "" {
		return
	}
	if _, err := compileSearch(pattern); err != nil {
		a.SearchError = "invalid regex: " + err.Error()
	}
}

// regexPattern reports whether the active query should be treated as a
// regular expression and, if so, the pattern text.
func (a *App) regexPattern() (string, bool) {
	switch a.cfg.General.SearchMode {
	case config.SearchRegex:
		return a.SearchQuery, true
	case config.SearchSmart:
		// A bare "/" is not a regex yet; it substring-matches literally.
		if rest, ok := strings.CutPrefix(a.SearchQuery, "/"); ok && rest != "" {
			return rest, true
		}
		return "", false
	default:
		return "", false
	}
}

func compileSearch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// matcher builds the per-device predicate for the current query. An
// invalid regex matches nothing rather than degrading to substring search,
// so a typo never quietly widens the result set.
func (a *App) matcher() func(bluetooth.DeviceInfo) bool {
	if a.SearchQuery == "" {
		return func(bluetooth.DeviceInfo) bool { return true }
	}

	pattern, useRegex := a.regexPattern()
	if useRegex {
		re, err := compileSearch(pattern)
		if err != nil {
			return func(bluetooth.DeviceInfo) bool { return false }
		}
		return func(d bluetooth.DeviceInfo) bool {
			return re.MatchString(d.DisplayName()) || re.MatchString(d.Address.String())
		}
	}

	query := strings.ToLower(a.SearchQuery)
	return func(d bluetooth.DeviceInfo) bool {
		return strings.Contains(strings.ToLower(d.DisplayName()), query) ||
			strings.Contains(strings.ToLower(d.Address.String()), query)
	}
}
