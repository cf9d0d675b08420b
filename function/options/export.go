package options

import (
	"strings"

	"github.com/dimasma0305/juicectf/function/juiceshop"
)

// SecretKeys is the key material used to compute flags. A comma separated
// list yields several keys; only CTFd makes use of more than the first one.
type SecretKeys []string

// ParseSecretKeys splits on commas only. The bytes are HMAC keys, so a
// trailing newline of a key file stays part of the key.
func ParseSecretKeys(material string) SecretKeys {
	return SecretKeys(strings.Split(material, ","))
}

func (k SecretKeys) Primary() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

func (k SecretKeys) Multiple() bool {
	return len(k) > 1
}

func (k SecretKeys) String() string {
	return strings.Join(k, ",")
}

// ExportOptions is everything a generator needs besides the challenges.
type ExportOptions struct {
	Policies       HintPolicies
	Keys           SecretKeys
	CountryMapping juiceshop.CountryMapping
	VulnSnippets   juiceshop.VulnSnippets
}

func (o *ExportOptions) Validate() error {
	return o.Policies.Validate()
}

// Snippet returns the code snippet for the challenge key, if any.
func (o *ExportOptions) Snippet(key string) string {
	if o.VulnSnippets == nil {
		return ""
	}
	return o.VulnSnippets[key]
}
