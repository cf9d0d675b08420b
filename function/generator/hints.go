// Package generator turns Juice Shop challenges into the records of the
// supported score servers. Generators are pure: they never touch the disk or
// the network.
package generator

import (
	"fmt"

	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/options"
	"github.com/dimasma0305/juicectf/function/scoring"
)

type hint struct {
	Channel options.HintChannel
	Content string
	Cost    float64
}

// collectHints returns the hints to insert for c, ordered text, url, snippet.
// A channel is used when its policy inserts hints and the challenge has
// content for it.
func collectHints(c *juiceshop.Challenge, opts *options.ExportOptions) ([]hint, error) {
	sources := []struct {
		channel options.HintChannel
		content string
	}{
		{options.TextHint, c.Hint},
		{options.URLHint, c.HintURL},
		{options.SnippetHint, opts.Snippet(c.Key)},
	}

	var hints []hint
	for _, src := range sources {
		policy := opts.Policies.Of(src.channel)
		if !policy.Inserts() || src.content == "" {
			continue
		}
		cost, err := scoring.HintCost(c.Difficulty, src.channel, policy)
		if err != nil {
			return nil, err
		}
		hints = append(hints, hint{Channel: src.channel, Content: src.content, Cost: cost})
	}
	return hints, nil
}

// checkChallenge rejects records that would produce a half valid export.
func checkChallenge(i int, c *juiceshop.Challenge) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("challenge #%d: %w", i, err)
	}
	score, err := scoring.Score(c.Difficulty)
	if err != nil {
		return 0, fmt.Errorf("challenge %q: %w", c.Name, err)
	}
	return score, nil
}

func generationError(err error) error {
	return fmt.Errorf("failed to generate challenge data: %w", err)
}
