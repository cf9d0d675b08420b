package options

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidHintPolicy = errors.New("invalid hint policy")
	ErrInvalidFramework  = errors.New("invalid ctf framework")
)

// HintPolicy controls whether a hint channel is inserted and what it costs.
type HintPolicy string

const (
	None HintPolicy = "none"
	Free HintPolicy = "free"
	Paid HintPolicy = "paid"
)

var HintPolicyValues = []HintPolicy{None, Free, Paid}

func ParseHintPolicy(s string) (HintPolicy, error) {
	for _, p := range HintPolicyValues {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHintPolicy, s)
}

func (p HintPolicy) Valid() bool {
	switch p {
	case None, Free, Paid:
		return true
	}
	return false
}

// Inserts reports whether a hint under this policy ends up in the export.
// Unknown values are treated like None.
func (p HintPolicy) Inserts() bool {
	return p == Free || p == Paid
}

type HintChannel int

const (
	TextHint HintChannel = iota
	URLHint
	SnippetHint
)

var HintChannels = []HintChannel{TextHint, URLHint, SnippetHint}

func (c HintChannel) String() string {
	switch c {
	case TextHint:
		return "text"
	case URLHint:
		return "url"
	case SnippetHint:
		return "snippet"
	}
	return fmt.Sprintf("HintChannel(%d)", int(c))
}

// HintPolicies holds one policy per hint channel.
type HintPolicies struct {
	Text    HintPolicy
	URL     HintPolicy
	Snippet HintPolicy
}

func (hp HintPolicies) Of(c HintChannel) HintPolicy {
	switch c {
	case TextHint:
		return hp.Text
	case URLHint:
		return hp.URL
	case SnippetHint:
		return hp.Snippet
	}
	return None
}

func (hp HintPolicies) Validate() error {
	for _, c := range HintChannels {
		if p := hp.Of(c); !p.Valid() {
			return fmt.Errorf("%s hints: %w: %q", c, ErrInvalidHintPolicy, p)
		}
	}
	return nil
}

// Framework is one of the supported CTF score servers.
type Framework string

const (
	CTFd       Framework = "CTFd"
	FBCTF      Framework = "FBCTF"
	RootTheBox Framework = "RootTheBox"
)

var Frameworks = []Framework{CTFd, FBCTF, RootTheBox}

func ParseFramework(s string) (Framework, error) {
	for _, f := range Frameworks {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFramework, s)
}

// Short is the suffix used in output file names.
func (f Framework) Short() string {
	if f == RootTheBox {
		return "RTB"
	}
	return string(f)
}
