package juiceshop

import (
	"errors"
	"fmt"
)

var ErrNilChallenge = errors.New("challenge is undefined")

// Challenge as served by the Juice Shop /api/Challenges endpoint.
type Challenge struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  int    `json:"difficulty"`
	Hint        string `json:"hint,omitempty"`
	HintURL     string `json:"hintUrl,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

func (c *Challenge) Validate() error {
	if c == nil {
		return ErrNilChallenge
	}
	var missing []string
	if c.Key == "" {
		missing = append(missing, "key")
	}
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("challenge %d is missing %v", c.ID, missing)
	}
	return nil
}

type Country struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// CountryMapping maps a challenge key to the country it is placed on.
type CountryMapping map[string]Country

// VulnSnippets maps a challenge key to its vulnerable code snippet.
type VulnSnippets map[string]string
