package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dimasma0305/juicectf/function/options"
	"github.com/fatih/color"
	"golang.org/x/term"
)

type choice struct {
	name  string
	value string
}

func hintChoices(kind string) []choice {
	return []choice{
		{"No " + kind, string(options.None)},
		{"Free " + kind, string(options.Free)},
		{"Paid " + kind, string(options.Paid)},
	}
}

// IsInteractive reports whether stdin is a terminal we can prompt on.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompter asks the run questions one by one.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Prompt asks every question, accepting the default on an empty answer.
func (p *Prompter) Prompt() (*Config, error) {
	frameworks := make([]choice, 0, len(options.Frameworks))
	for _, f := range options.Frameworks {
		frameworks = append(frameworks, choice{string(f), string(f)})
	}

	var (
		conf Config
		err  error
	)
	if conf.CtfFramework, err = p.selectOne("CTF framework to generate data for?", frameworks); err != nil {
		return nil, err
	}
	if conf.JuiceShopUrl, err = p.input("Juice Shop URL to retrieve challenges?", DefaultJuiceShop()); err != nil {
		return nil, err
	}
	if conf.CtfKey, err = p.input("URL to ctf.key file <or> secret key <or> (CTFd only) comma-separated list of secret keys?", DefaultCtfKey); err != nil {
		return nil, err
	}
	if conf.CtfFramework == string(options.FBCTF) {
		if conf.CountryMapping, err = p.input("URL to country-mapping.yml file?", DefaultCountryMapping); err != nil {
			return nil, err
		}
	}
	if conf.InsertHints, err = p.selectOne("Insert a text hint along with each challenge?", hintChoices("text hints")); err != nil {
		return nil, err
	}
	if conf.InsertHintUrls, err = p.selectOne("Insert a hint URL along with each challenge?", hintChoices("hint URLs")); err != nil {
		return nil, err
	}
	if conf.InsertHintSnippets, err = p.selectOne("Insert a code snippet as hint for each challenge?", hintChoices("hint snippets")); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (p *Prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("error read answer: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) input(question string, def string) (string, error) {
	fmt.Fprintf(p.out, "%s %s %s ", color.GreenString("?"), color.New(color.Bold).Sprint(question), color.HiBlackString("(%s)", def))
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	fmt.Fprintf(p.out, "%s %s %s\n", color.GreenString("✔"), question, color.CyanString(answer))
	return answer, nil
}

// selectOne lists the choices numbered from 1; the first one is the default.
func (p *Prompter) selectOne(question string, choices []choice) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s %s\n", color.GreenString("?"), color.New(color.Bold).Sprint(question))
		for i, c := range choices {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, c.name)
		}
		fmt.Fprintf(p.out, "  Answer %s: ", color.HiBlackString("(1)"))

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		idx := 1
		if answer != "" {
			if idx, err = strconv.Atoi(answer); err != nil || idx < 1 || idx > len(choices) {
				fmt.Fprintln(p.out, color.RedString("  Please enter a number between 1 and %d", len(choices)))
				continue
			}
		}
		picked := choices[idx-1]
		fmt.Fprintf(p.out, "%s %s %s\n", color.GreenString("✔"), question, color.CyanString(picked.name))
		return picked.value, nil
	}
}
