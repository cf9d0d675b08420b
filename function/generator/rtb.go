package generator

import (
	"encoding/xml"
	"fmt"
	"math"

	"github.com/dimasma0305/juicectf/function/ctfflag"
	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/options"
)

const (
	rtbAPIVersion  = "1"
	rtbCorporation = "OWASP Juice Shop"
)

// RTBExport is the RootTheBox XML import document.
type RTBExport struct {
	XMLName      xml.Name        `xml:"rootthebox"`
	API          string          `xml:"api,attr"`
	Categories   RTBCategories   `xml:"categories"`
	Corporations RTBCorporations `xml:"corporations"`
}

type RTBCategories struct {
	Categories []RTBCategory `xml:"category"`
}

type RTBCategory struct {
	Category    string `xml:"category"`
	Description string `xml:"description,omitempty"`
}

type RTBCorporations struct {
	Corporations []RTBCorporation `xml:"corporation"`
}

type RTBCorporation struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Boxes       RTBBoxes `xml:"boxes"`
}

type RTBBoxes struct {
	Boxes []RTBBox `xml:"box"`
}

type RTBBox struct {
	GameLevel          int      `xml:"gamelevel,attr"`
	Name               string   `xml:"name"`
	Corporation        string   `xml:"corporation"`
	Category           string   `xml:"category"`
	OperatingSystem    string   `xml:"operatingsystem"`
	Description        string   `xml:"description"`
	FlagSubmissionType string   `xml:"flag_submission_type"`
	Flags              RTBFlags `xml:"flags"`
}

type RTBFlags struct {
	Flags []RTBFlag `xml:"flag"`
}

type RTBFlag struct {
	Type           string   `xml:"type,attr"`
	Name           string   `xml:"name"`
	Token          string   `xml:"token"`
	Description    string   `xml:"description"`
	CaptureMessage string   `xml:"capture_message"`
	Value          int      `xml:"value"`
	Order          int      `xml:"order"`
	Hints          RTBHints `xml:"hints"`
}

type RTBHints struct {
	Hints []RTBHint `xml:"hint"`
}

type RTBHint struct {
	Description string `xml:"description"`
	Price       int    `xml:"price"`
}

// GenerateRTB groups the challenges into one box per category, keeping the
// order in which categories and challenges appear in the input.
func GenerateRTB(challenges []*juiceshop.Challenge, opts *options.ExportOptions) (*RTBExport, error) {
	if err := opts.Validate(); err != nil {
		return nil, generationError(err)
	}

	var (
		boxes      []RTBBox
		categories []RTBCategory
		boxIndex   = map[string]int{}
	)
	for i, c := range challenges {
		score, err := checkChallenge(i, c)
		if err != nil {
			return nil, generationError(err)
		}
		hints, err := collectHints(c, opts)
		if err != nil {
			return nil, generationError(err)
		}

		idx, ok := boxIndex[c.Category]
		if !ok {
			idx = len(boxes)
			boxIndex[c.Category] = idx
			categories = append(categories, RTBCategory{Category: c.Category})
			boxes = append(boxes, RTBBox{
				Name:               c.Category,
				Corporation:        rtbCorporation,
				Category:           c.Category,
				OperatingSystem:    "none",
				Description:        fmt.Sprintf("%s challenges of the %s", c.Category, rtbCorporation),
				FlagSubmissionType: "CLASSIC",
			})
		}

		box := &boxes[idx]
		box.Flags.Flags = append(box.Flags.Flags, RTBFlag{
			Type:           "static",
			Name:           c.Name,
			Token:          ctfflag.Generate(opts.Keys.Primary(), c.Name),
			Description:    fmt.Sprintf("%s (Difficulty Level: %d)", c.Description, c.Difficulty),
			CaptureMessage: fmt.Sprintf("Congratulations! You solved %q.", c.Name),
			Value:          score,
			Order:          len(box.Flags.Flags) + 1,
			Hints:          RTBHints{Hints: rtbHints(hints)},
		})
	}

	return &RTBExport{
		API:        rtbAPIVersion,
		Categories: RTBCategories{Categories: categories},
		Corporations: RTBCorporations{Corporations: []RTBCorporation{{
			Name:        rtbCorporation,
			Description: "Challenges exported from an OWASP Juice Shop instance",
			Boxes:       RTBBoxes{Boxes: boxes},
		}}},
	}, nil
}

func rtbHints(hints []hint) []RTBHint {
	out := make([]RTBHint, 0, len(hints))
	for _, h := range hints {
		out = append(out, RTBHint{Description: h.Content, Price: int(math.Round(h.Cost))})
	}
	return out
}
