package config

// Configfile represents the structure of .ontoenv/config.yaml.
type Configfile struct {
	Version     string    `yaml:"version"`
	Formats     []string  `yaml:"formats"`
	Include     []string  `yaml:"include"`
	Exclude     []string  `yaml:"exclude"`
	Concurrency *int      `yaml:"concurrency"`
	Fetch       *FetchDTO `yaml:"fetch"`
	Deadline    string    `yaml:"deadline"`
	Strict      *bool     `yaml:"strict"`
	Ambiguity   string    `yaml:"ambiguity"`
}

// FetchDTO represents the remote retrieval settings.
type FetchDTO struct {
	Timeout string `yaml:"timeout"`
	Retries *int   `yaml:"retries"`
	Offline *bool  `yaml:"offline"`
}
