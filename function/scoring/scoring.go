// Package scoring holds the point economics shared by every export format.
package scoring

import (
	"errors"
	"fmt"

	"github.com/dimasma0305/juicectf/function/options"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// scores are the challenge values per difficulty tier. All three score
// servers must agree on them, do not change.
var scores = map[int]int{
	1: 100,
	2: 250,
	3: 450,
	4: 700,
	5: 1000,
	6: 1350,
}

// hintCostPercent is the share of the challenge value a paid hint costs.
var hintCostPercent = map[options.HintChannel]int{
	options.TextHint:    10,
	options.URLHint:     20,
	options.SnippetHint: 30,
}

func Score(difficulty int) (int, error) {
	score, ok := scores[difficulty]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownDifficulty, difficulty)
	}
	return score, nil
}

// HintCost is the price of a hint on the given channel for a challenge of
// the given difficulty. Only paid hints cost anything.
func HintCost(difficulty int, channel options.HintChannel, policy options.HintPolicy) (float64, error) {
	score, err := Score(difficulty)
	if err != nil {
		return 0, err
	}
	if policy != options.Paid {
		return 0, nil
	}
	return float64(score*hintCostPercent[channel]) / 100, nil
}

// Penalty sums the hint cost of all channels under the configured policies,
// whether or not the challenge actually has a hint on that channel.
func Penalty(difficulty int, policies options.HintPolicies) (float64, error) {
	var total float64
	for _, c := range options.HintChannels {
		cost, err := HintCost(difficulty, c, policies.Of(c))
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}
