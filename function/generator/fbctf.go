package generator

import (
	"fmt"
	"strings"

	"github.com/dimasma0305/juicectf/function/ctfflag"
	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/log"
	"github.com/dimasma0305/juicectf/function/options"
	"github.com/dimasma0305/juicectf/function/scoring"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"
)

const (
	placeholderLength = 32
	placeholderCost   = 12
	placeholderLogo   = "4chan-2"
)

type FBCTFTeam struct {
	Name         string         `json:"name"`
	Active       bool           `json:"active"`
	Admin        bool           `json:"admin"`
	Protected    bool           `json:"protected"`
	Visible      bool           `json:"visible"`
	PasswordHash string         `json:"password_hash"`
	Points       int            `json:"points"`
	Logo         string         `json:"logo"`
	Data         map[string]any `json:"data"`
}

type FBCTFLevel struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Active        bool    `json:"active"`
	Description   string  `json:"description"`
	EntityIsoCode string  `json:"entity_iso_code"`
	Category      string  `json:"category"`
	Points        int     `json:"points"`
	Bonus         int     `json:"bonus"`
	BonusDec      int     `json:"bonus_dec"`
	BonusFix      int     `json:"bonus_fix"`
	Flag          string  `json:"flag"`
	Hint          string  `json:"hint"`
	Penalty       float64 `json:"penalty"`
	Links         []any   `json:"links"`
	Attachments   []any   `json:"attachments"`
}

type FBCTFTeams struct {
	Teams []FBCTFTeam `json:"teams"`
}

type FBCTFLevels struct {
	Levels []FBCTFLevel `json:"levels"`
}

// FBCTFTemplate is the FBCTF full game import document.
type FBCTFTemplate struct {
	Teams  FBCTFTeams  `json:"teams"`
	Levels FBCTFLevels `json:"levels"`
}

// GenerateFBCTF places every challenge with a country mapping on the map.
// Challenges without one are reported to diag and left out. A nil diag
// prints to the console.
func GenerateFBCTF(challenges []*juiceshop.Challenge, opts *options.ExportOptions, diag log.Diagnostics) (*FBCTFTemplate, error) {
	if diag == nil {
		diag = log.Console{}
	}
	if err := opts.Validate(); err != nil {
		return nil, generationError(err)
	}

	team, err := placeholderTeam()
	if err != nil {
		return nil, generationError(err)
	}

	template := &FBCTFTemplate{
		Teams:  FBCTFTeams{Teams: []FBCTFTeam{team}},
		Levels: FBCTFLevels{Levels: make([]FBCTFLevel, 0, len(challenges))},
	}
	for i, c := range challenges {
		score, err := checkChallenge(i, c)
		if err != nil {
			return nil, generationError(err)
		}
		country, ok := opts.CountryMapping[c.Key]
		if !ok {
			diag.Warn("Challenge %q does not have a country mapping and will not appear in the CTF game!", c.Name)
			continue
		}
		level, err := fbctfLevel(c, score, country, opts)
		if err != nil {
			return nil, generationError(err)
		}
		template.Levels.Levels = append(template.Levels.Levels, level)
	}
	return template, nil
}

func fbctfLevel(c *juiceshop.Challenge, score int, country juiceshop.Country, opts *options.ExportOptions) (FBCTFLevel, error) {
	hints, err := collectHints(c, opts)
	if err != nil {
		return FBCTFLevel{}, err
	}
	hintText := make([]string, 0, len(hints))
	for _, h := range hints {
		hintText = append(hintText, h.Content)
	}

	penalty, err := scoring.Penalty(c.Difficulty, opts.Policies)
	if err != nil {
		return FBCTFLevel{}, err
	}

	return FBCTFLevel{
		Type:          "flag",
		Title:         c.Name,
		Active:        true,
		Description:   c.Description,
		EntityIsoCode: country.Code,
		Category:      fmt.Sprintf("Difficulty %d", c.Difficulty),
		Points:        score,
		Flag:          ctfflag.Generate(opts.Keys.Primary(), c.Name),
		Hint:          strings.Join(hintText, "\n\n"),
		Penalty:       penalty,
		Links:         []any{},
		Attachments:   []any{},
	}, nil
}

// placeholderTeam is the inactive team FBCTF requires in a full game import.
func placeholderTeam() (FBCTFTeam, error) {
	name, err := password.Generate(placeholderLength, 10, 0, false, true)
	if err != nil {
		return FBCTFTeam{}, fmt.Errorf("error generate team name: %w", err)
	}
	secret, err := password.Generate(placeholderLength, 10, 0, false, true)
	if err != nil {
		return FBCTFTeam{}, fmt.Errorf("error generate team password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), placeholderCost)
	if err != nil {
		return FBCTFTeam{}, fmt.Errorf("error hash team password: %w", err)
	}
	return FBCTFTeam{
		Name:         name,
		PasswordHash: string(hash),
		Logo:         placeholderLogo,
		Data:         map[string]any{},
	}, nil
}
