package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/dimasma0305/juicectf/function/options"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	DefaultJuiceShopUrl   = "https://juice-shop.herokuapp.com"
	DefaultCtfKey         = "https://raw.githubusercontent.com/juice-shop/juice-shop/master/ctf.key"
	DefaultCountryMapping = "https://raw.githubusercontent.com/juice-shop/juice-shop/master/config/fbctf.yml"
)

// Config is the answer set of one run, read from a YAML file or prompted.
type Config struct {
	CtfFramework       string `yaml:"ctfFramework" validate:"oneof=CTFd FBCTF RootTheBox"`
	JuiceShopUrl       string `yaml:"juiceShopUrl" validate:"required,url"`
	CtfKey             string `yaml:"ctfKey"`
	CountryMapping     string `yaml:"countryMapping"`
	InsertHints        string `yaml:"insertHints" validate:"oneof=none free paid"`
	InsertHintUrls     string `yaml:"insertHintUrls" validate:"oneof=none free paid"`
	InsertHintSnippets string `yaml:"insertHintSnippets" validate:"oneof=none free paid"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DefaultJuiceShop honours $DEFAULT_JUICE_SHOP_URL.
func DefaultJuiceShop() string {
	if url := os.Getenv("DEFAULT_JUICE_SHOP_URL"); url != "" {
		return url
	}
	return DefaultJuiceShopUrl
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	var buf bytes.Buffer
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can not read config file %s: %w", path, err)
	}
	defer f.Close()
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("can not read config file %s: %w", path, err)
	}
	return Parse(buf.Bytes())
}

func Parse(b []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}
	conf.applyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.CtfFramework == "" {
		c.CtfFramework = string(options.CTFd)
	}
	for _, p := range []*string{&c.InsertHints, &c.InsertHintUrls, &c.InsertHintSnippets} {
		if *p == "" {
			*p = string(options.None)
		}
	}
}

// Validate reports the first invalid field the way the CLI prints it.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%q must be one of [%s]", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "required":
		return fmt.Errorf("%q is required", fe.Field())
	case "url":
		return fmt.Errorf("%q must be a valid uri", fe.Field())
	}
	return fmt.Errorf("%q is invalid", fe.Field())
}

func (c *Config) Framework() (options.Framework, error) {
	return options.ParseFramework(c.CtfFramework)
}

func (c *Config) Policies() (options.HintPolicies, error) {
	var (
		hp  options.HintPolicies
		err error
	)
	if hp.Text, err = options.ParseHintPolicy(c.InsertHints); err != nil {
		return hp, fmt.Errorf("insertHints: %w", err)
	}
	if hp.URL, err = options.ParseHintPolicy(c.InsertHintUrls); err != nil {
		return hp, fmt.Errorf("insertHintUrls: %w", err)
	}
	if hp.Snippet, err = options.ParseHintPolicy(c.InsertHintSnippets); err != nil {
		return hp, fmt.Errorf("insertHintSnippets: %w", err)
	}
	return hp, nil
}

// WantsSnippets reports whether snippets have to be fetched at all.
func (c *Config) WantsSnippets() bool {
	return c.InsertHintSnippets != string(options.None)
}
