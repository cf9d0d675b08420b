package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/log"
	"github.com/dimasma0305/juicectf/function/options"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/crypto/bcrypt"
)

func fbctfChallenges() []*juiceshop.Challenge {
	return []*juiceshop.Challenge{
		{Key: "k1", Name: "c1", Description: "C1", Difficulty: 1, Category: "1", Hint: "hint1", HintURL: "url1"},
		{Key: "k2", Name: "c2", Description: "C2", Difficulty: 2, Category: "2"},
		{Key: "k3", Name: "c3", Description: "C3", Difficulty: 3, Category: "2", HintURL: "url3"},
	}
}

func fbctfOptions(text, url, snippet options.HintPolicy) *options.ExportOptions {
	opts := exportOptions(text, url, snippet)
	opts.CountryMapping = juiceshop.CountryMapping{
		"k1": {Name: "Canada", Code: "CA"},
		"k2": {Name: "Austria", Code: "AT"},
		"k3": {Name: "Japan", Code: "JP"},
	}
	return opts
}

func TestGenerateFBCTFLevels(t *testing.T) {
	var diag log.Collector
	template, err := GenerateFBCTF(fbctfChallenges(), fbctfOptions(options.None, options.None, options.None), &diag)
	if err != nil {
		t.Fatalf("GenerateFBCTF: %v", err)
	}
	level := func(name, description, code string, difficulty, points int, flag string) FBCTFLevel {
		return FBCTFLevel{
			Type: "flag", Title: name, Active: true, Description: description,
			EntityIsoCode: code, Category: fmt.Sprintf("Difficulty %d", difficulty),
			Points: points, Flag: flag, Links: []any{}, Attachments: []any{},
		}
	}
	want := []FBCTFLevel{
		level("c1", "C1", "CA", 1, 100, "958c64658383140e7d08d5dee091009cc0eafc1f"),
		level("c2", "C2", "AT", 2, 250, "49294e8b829f5b053f748facad22825ccb4bf420"),
		level("c3", "C3", "JP", 3, 450, "aae3acb6eff2000c0e12af0d0d875d0bdbf4ca81"),
	}
	if diff := cmp.Diff(want, template.Levels.Levels); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	if len(diag.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", diag.Warnings())
	}
}

func TestGenerateFBCTFPlaceholderTeam(t *testing.T) {
	template, err := GenerateFBCTF(nil, fbctfOptions(options.None, options.None, options.None), &log.Collector{})
	if err != nil {
		t.Fatalf("GenerateFBCTF: %v", err)
	}
	if len(template.Teams.Teams) != 1 {
		t.Fatalf("expected exactly one team, got %d", len(template.Teams.Teams))
	}
	team := template.Teams.Teams[0]
	if !regexp.MustCompile(`^[A-Za-z0-9]{32}$`).MatchString(team.Name) {
		t.Errorf("team name %q is not 32 alphanumeric characters", team.Name)
	}
	want := FBCTFTeam{Name: team.Name, PasswordHash: team.PasswordHash, Logo: "4chan-2", Data: map[string]any{}}
	if diff := cmp.Diff(want, team); diff != "" {
		t.Errorf("team mismatch (-want +got):\n%s", diff)
	}
	cost, err := bcrypt.Cost([]byte(team.PasswordHash))
	if err != nil || cost != 12 {
		t.Errorf("password hash cost = %d, %v", cost, err)
	}
	if len(template.Levels.Levels) != 0 {
		t.Errorf("expected no levels, got %d", len(template.Levels.Levels))
	}
}

func TestGenerateFBCTFMissingCountry(t *testing.T) {
	opts := fbctfOptions(options.None, options.None, options.None)
	delete(opts.CountryMapping, "k2")

	var diag log.Collector
	template, err := GenerateFBCTF(fbctfChallenges(), opts, &diag)
	if err != nil {
		t.Fatalf("GenerateFBCTF: %v", err)
	}
	var titles []string
	for _, l := range template.Levels.Levels {
		titles = append(titles, l.Title)
	}
	if diff := cmp.Diff([]string{"c1", "c3"}, titles); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
	warnings := diag.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"c2"`) {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestGenerateFBCTFHintsAndPenalty(t *testing.T) {
	opts := fbctfOptions(options.Paid, options.Free, options.Paid)
	opts.VulnSnippets = juiceshop.VulnSnippets{"k1": "snippet1"}

	template, err := GenerateFBCTF(fbctfChallenges(), opts, &log.Collector{})
	if err != nil {
		t.Fatal(err)
	}
	levels := template.Levels.Levels

	if got := levels[0].Hint; got != "hint1\n\nurl1\n\nsnippet1" {
		t.Errorf("c1 hint = %q", got)
	}
	if got := levels[1].Hint; got != "" {
		t.Errorf("c2 hint = %q", got)
	}
	if got := levels[2].Hint; got != "url3" {
		t.Errorf("c3 hint = %q", got)
	}

	// paid text (10%) + free url + paid snippet (30%), regardless of hint content
	wantPenalty := []float64{40, 100, 180}
	for i, l := range levels {
		if l.Penalty != wantPenalty[i] {
			t.Errorf("%s penalty = %v, want %v", l.Title, l.Penalty, wantPenalty[i])
		}
	}
}

func TestGenerateFBCTFPrimaryKeyOnly(t *testing.T) {
	opts := fbctfOptions(options.None, options.None, options.None)
	opts.Keys = options.ParseSecretKeys("a,b")
	template, err := GenerateFBCTF(fbctfChallenges()[:1], opts, &log.Collector{})
	if err != nil {
		t.Fatal(err)
	}
	if got := template.Levels.Levels[0].Flag; got != "43e993626266af57094172262760adbbf99a9546" {
		t.Errorf("flag = %s", got)
	}
}

func TestGenerateFBCTFUndefinedChallenge(t *testing.T) {
	challenges := []*juiceshop.Challenge{nil}
	template, err := GenerateFBCTF(challenges, fbctfOptions(options.None, options.None, options.None), &log.Collector{})
	if err == nil || template != nil {
		t.Fatalf("expected error without output, got %v, %v", template, err)
	}
}

func TestFBCTFTemplateJSON(t *testing.T) {
	template, err := GenerateFBCTF(fbctfChallenges()[:1], fbctfOptions(options.None, options.None, options.None), &log.Collector{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(template)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string][]map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	level := doc["levels"]["levels"][0]
	wantKeys := []string{"active", "attachments", "bonus", "bonus_dec", "bonus_fix", "category", "description",
		"entity_iso_code", "flag", "hint", "links", "penalty", "points", "title", "type"}
	var gotKeys []string
	for k := range level {
		gotKeys = append(gotKeys, k)
	}
	if diff := cmp.Diff(wantKeys, gotKeys, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("level keys mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc["teams"]["teams"][0]["password_hash"]; !ok {
		t.Error("team is missing password_hash")
	}
}

func TestGenerateFBCTFNilDiagnostics(t *testing.T) {
	opts := fbctfOptions(options.None, options.None, options.None)
	delete(opts.CountryMapping, "k2")

	template, err := GenerateFBCTF(fbctfChallenges(), opts, nil)
	if err != nil {
		t.Fatalf("GenerateFBCTF: %v", err)
	}
	if len(template.Levels.Levels) != 2 {
		t.Errorf("expected 2 levels, got %d", len(template.Levels.Levels))
	}
}
