package subject

import "strings"

// Subject is one tracked study subject with the keywords that identify it in
// event titles.
type Subject struct {
	Name     string
	Keywords []string
}

// Config is the ordered list of tracked subjects. Order matters: when a title
// matches the keywords of several subjects, the first one in the list wins.
type Config []Subject

// Matches reports whether the title contains any of the keywords,
// case-insensitively.
func Matches(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether the title matches at least one configured subject.
func (c Config) MatchesAny(title string) bool {
	for _, s := range c {
		if Matches(title, s.Keywords) {
			return true
		}
	}
	return false
}

// Classify returns the name of the first subject whose keywords match the
// title. The second return value is false when no subject matches.
func (c Config) Classify(title string) (string, bool) {
	for _, s := range c {
		if Matches(title, s.Keywords) {
			return s.Name, true
		}
	}
	return "", false
}

// Names returns the configured subject names in order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name)
	}
	return names
}

// Has reports whether a subject with the given exact name is configured.
func (c Config) Has(name string) bool {
	for _, s := range c {
		if s.Name == name {
			return true
		}
	}
	return false
}
