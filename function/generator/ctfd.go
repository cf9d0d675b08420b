package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dimasma0305/juicectf/function/ctfflag"
	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/options"
)

// commaSubstitute stands in for literal commas inside hint content so the
// CTFd importer does not split the cell.
const commaSubstitute = "٬"

var CTFdHeader = []string{
	"name", "description", "category", "value", "type", "state",
	"max_attempts", "flags", "tags", "hints", "type_data",
}

// CTFdRow is one line of the CTFd challenges CSV. Every string field is
// already escaped for the CSV cell it ends up in.
type CTFdRow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Value       int    `json:"value"`
	Type        string `json:"type"`
	State       string `json:"state"`
	MaxAttempts int    `json:"max_attempts"`
	Flags       string `json:"flags"`
	Tags        string `json:"tags"`
	Hints       string `json:"hints"`
	TypeData    string `json:"type_data"`
}

// Cells returns the row in CTFdHeader order.
func (r CTFdRow) Cells() []string {
	return []string{
		r.Name,
		r.Description,
		r.Category,
		strconv.Itoa(r.Value),
		r.Type,
		r.State,
		strconv.Itoa(r.MaxAttempts),
		r.Flags,
		r.Tags,
		r.Hints,
		r.TypeData,
	}
}

type CTFdHint struct {
	Content string  `json:"content"`
	Cost    float64 `json:"cost"`
}

// GenerateCTFd builds one row per challenge, in input order.
func GenerateCTFd(challenges []*juiceshop.Challenge, opts *options.ExportOptions) ([]CTFdRow, error) {
	if err := opts.Validate(); err != nil {
		return nil, generationError(err)
	}

	rows := make([]CTFdRow, 0, len(challenges))
	for i, c := range challenges {
		row, err := ctfdRow(i, c, opts)
		if err != nil {
			return nil, generationError(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func ctfdRow(i int, c *juiceshop.Challenge, opts *options.ExportOptions) (CTFdRow, error) {
	score, err := checkChallenge(i, c)
	if err != nil {
		return CTFdRow{}, err
	}
	hints, err := collectHints(c, opts)
	if err != nil {
		return CTFdRow{}, err
	}
	hintsField, err := encodeCTFdHints(ctfdHints(hints))
	if err != nil {
		return CTFdRow{}, fmt.Errorf("challenge %q: %w", c.Name, err)
	}

	row := CTFdRow{
		Name:        quoteCellIfNeeded(c.Name),
		Description: quoteCell(fmt.Sprintf("%s (Difficulty Level: %d)", c.Description, c.Difficulty)),
		Category:    quoteCellIfNeeded(c.Category),
		Value:       score,
		Type:        "standard",
		State:       "visible",
		MaxAttempts: 0,
		Flags:       ctfdFlags(opts.Keys, c.Name),
		Hints:       hintsField,
	}
	if c.Tags != "" {
		row.Tags = quoteCell(c.Tags)
	}
	return row, nil
}

func ctfdFlags(keys options.SecretKeys, name string) string {
	if !keys.Multiple() {
		return ctfflag.Generate(keys.Primary(), name)
	}
	return quoteCell(strings.Join(ctfflag.GenerateAll(keys, name), ","))
}

func ctfdHints(hints []hint) []CTFdHint {
	out := make([]CTFdHint, 0, len(hints))
	for _, h := range hints {
		content := h.Content
		switch h.Channel {
		case options.TextHint:
			content = strings.ReplaceAll(content, ",", commaSubstitute)
		case options.SnippetHint:
			content = "<pre><code>" + strings.ReplaceAll(content, ",", commaSubstitute) + "</code></pre>"
		}
		out = append(out, CTFdHint{Content: content, Cost: h.Cost})
	}
	return out
}

// encodeCTFdHints serializes hints as a quoted JSON array. No hints yields an
// empty cell rather than "[]".
func encodeCTFdHints(hints []CTFdHint) (string, error) {
	if len(hints) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(hints); err != nil {
		return "", fmt.Errorf("error marshal hints: %w", err)
	}
	return quoteCell(strings.TrimSuffix(buf.String(), "\n")), nil
}

// ParseCTFdHints decodes a hints cell produced by GenerateCTFd.
func ParseCTFdHints(field string) ([]CTFdHint, error) {
	if field == "" {
		return nil, nil
	}
	if len(field) < 2 || field[0] != '"' || field[len(field)-1] != '"' {
		return nil, fmt.Errorf("hints cell is not quoted: %q", field)
	}
	raw := strings.ReplaceAll(field[1:len(field)-1], `""`, `"`)
	var hints []CTFdHint
	if err := json.Unmarshal([]byte(raw), &hints); err != nil {
		return nil, fmt.Errorf("error unmarshal hints: %w", err)
	}
	return hints, nil
}

// quoteCellIfNeeded leaves plain cells as they are and quotes the ones that
// would break the row.
func quoteCellIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteCell(s)
	}
	return s
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
