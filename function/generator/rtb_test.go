package generator

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/options"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateRTBBoxes(t *testing.T) {
	export, err := GenerateRTB(sampleChallenges(), defaultOptions())
	if err != nil {
		t.Fatalf("GenerateRTB: %v", err)
	}
	var categories []string
	for _, c := range export.Categories.Categories {
		categories = append(categories, c.Category)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	boxes := export.Corporations.Corporations[0].Boxes.Boxes
	got := map[string][]string{}
	for _, b := range boxes {
		for _, f := range b.Flags.Flags {
			got[b.Name] = append(got[b.Name], f.Name)
		}
	}
	want := map[string][]string{"1": {"c1", "c5"}, "2": {"c2", "c3"}, "3": {"c4"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("box contents mismatch (-want +got):\n%s", diff)
	}

	first := boxes[0].Flags.Flags[0]
	wantFlag := RTBFlag{
		Type:           "static",
		Name:           "c1",
		Token:          "958c64658383140e7d08d5dee091009cc0eafc1f",
		Description:    "C1 (Difficulty Level: 1)",
		CaptureMessage: `Congratulations! You solved "c1".`,
		Value:          100,
		Order:          1,
		Hints:          RTBHints{Hints: []RTBHint{}},
	}
	if diff := cmp.Diff(wantFlag, first); diff != "" {
		t.Errorf("flag mismatch (-want +got):\n%s", diff)
	}
	if boxes[0].Flags.Flags[1].Order != 2 {
		t.Errorf("second flag order = %d", boxes[0].Flags.Flags[1].Order)
	}
}

func TestGenerateRTBHints(t *testing.T) {
	challenges := []*juiceshop.Challenge{
		{Key: "k1", Name: "c1", Description: "C1", Difficulty: 3, Category: "1", Hint: "a, b", HintURL: "https://hint"},
	}
	opts := exportOptions(options.Paid, options.None, options.Free)
	opts.VulnSnippets = juiceshop.VulnSnippets{"k1": "<code>"}

	export, err := GenerateRTB(challenges, opts)
	if err != nil {
		t.Fatal(err)
	}
	hints := export.Corporations.Corporations[0].Boxes.Boxes[0].Flags.Flags[0].Hints.Hints
	want := []RTBHint{
		{Description: "a, b", Price: 45},
		{Description: "<code>", Price: 0},
	}
	if diff := cmp.Diff(want, hints); diff != "" {
		t.Errorf("hints mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRTBMultipleKeysUsesPrimary(t *testing.T) {
	opts := defaultOptions()
	opts.Keys = options.ParseSecretKeys("a,b")
	export, err := GenerateRTB(sampleChallenges()[:1], opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := export.Corporations.Corporations[0].Boxes.Boxes[0].Flags.Flags[0].Token; got != "43e993626266af57094172262760adbbf99a9546" {
		t.Errorf("token = %s", got)
	}
}

func TestGenerateRTBEmpty(t *testing.T) {
	export, err := GenerateRTB(nil, defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if n := len(export.Corporations.Corporations[0].Boxes.Boxes); n != 0 {
		t.Errorf("expected no boxes, got %d", n)
	}
}

func TestGenerateRTBUndefinedChallenge(t *testing.T) {
	if _, err := GenerateRTB([]*juiceshop.Challenge{nil}, defaultOptions()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRTBExportXML(t *testing.T) {
	export, err := GenerateRTB(sampleChallenges()[:1], defaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := xml.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{
		`<rootthebox api="1">`,
		`<categories><category><category>1</category></category></categories>`,
		`<box gamelevel="0"><name>1</name><corporation>OWASP Juice Shop</corporation>`,
		`<flag type="static"><name>c1</name><token>958c64658383140e7d08d5dee091009cc0eafc1f</token>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("xml is missing %s\n%s", want, out)
		}
	}
}
