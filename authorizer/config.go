package authorizer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// yaml config based allowlists

// Allowlist is the schema of the allowlist file.
type Allowlist struct {
	// Audiences are accepted token audiences, passed to every review.
	Audiences []string `yaml:"audiences"`
	// Usernames are the identities allowed through after authentication.
	Usernames []string `yaml:"usernames"`
}

func parseAllowlist(raw []byte) (*Allowlist, error) {
	var a Allowlist
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	err := decoder.Decode(&a)
	// io.EOF is returned for an empty file, which is an empty allowlist
	if err == io.EOF {
		return &a, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadAllowlist reads and parses the allowlist file at path.
func LoadAllowlist(path string) (*Allowlist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading allowlist file %q: %w", path, err)
	}
	a, err := parseAllowlist(b)
	if err != nil {
		return nil, fmt.Errorf("errors while parsing allowlist file %q: %w", path, err)
	}
	return a, nil
}
