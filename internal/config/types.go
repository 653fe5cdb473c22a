package config

import "sort"

// Config represents the config.yml tool manifest.
type Config struct {
	Tools    map[string]Tool `yaml:"tools"`
	Canaries []string        `yaml:"canaries,omitempty"`
}

// Tool declares a single tool tracked by the pipeline.
type Tool struct {
	// Name is the binary name; filled from the map key on load.
	Name string `yaml:"-"`

	// Source is the upstream repository as "owner/repo".
	Source string `yaml:"source"`

	// Builder is an explicit build command run in the checkout root.
	// When empty, the project type is auto-detected from its manifest.
	Builder string `yaml:"builder,omitempty"`

	// Env is extra environment for the build invocation.
	Env map[string]string `yaml:"env,omitempty"`
}

// SourceURL returns the clone URL for the tool's source.
func (t Tool) SourceURL() string {
	return repoURL(t.Source)
}

// Sources returns the deduplicated, sorted set of source URLs across all tools.
// Tools sharing a repository resolve against the same upstream exactly once.
func (c *Config) Sources() []string {
	seen := make(map[string]bool)
	for _, t := range c.Tools {
		seen[t.SourceURL()] = true
	}
	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// CanaryURLs returns the clone URLs of the configured canary repositories.
func (c *Config) CanaryURLs() []string {
	urls := make([]string, 0, len(c.Canaries))
	for _, repo := range c.Canaries {
		urls = append(urls, repoURL(repo))
	}
	return urls
}

func repoURL(ownerRepo string) string {
	return "https://github.com/" + ownerRepo
}
