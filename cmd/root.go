/*
Copyright © 2023 dimas maulana dimasmaulana0305@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dimasma0305/juicectf/function/config"
	"github.com/dimasma0305/juicectf/function/export"
	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/log"
	"github.com/dimasma0305/juicectf/function/options"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

type rootCmdFlags struct {
	config            string
	output            string
	ignoreSslWarnings bool
	verbose           bool
}

var rootFlag rootCmdFlags

var errNoTerminal = errors.New("stdin is not a terminal, pass a config file with --config")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "juicectf",
	Short: "Export OWASP Juice Shop challenges to CTFd, FBCTF or RootTheBox.",
	Long: `juicectf reads the challenges of a running OWASP Juice Shop instance and turns them into
import data for a CTF score server: a CTFd backup archive, an FBCTF game template or a RootTheBox XML export.
Answer the questions interactively or pass them all at once with --config.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable debug mode if flag is set
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		banner()

		conf, err := resolveConfig()
		if err != nil {
			log.Fatal(err)
		}
		framework, err := conf.Framework()
		if err != nil {
			log.Fatal(err)
		}
		policies, err := conf.Policies()
		if err != nil {
			log.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		log.Debug("fetching from %s", conf.JuiceShopUrl)
		shop := juiceshop.New(conf.JuiceShopUrl, rootFlag.ignoreSslWarnings)
		res, err := shop.FetchAll(ctx, juiceshop.FetchRequest{
			CtfKey:         conf.CtfKey,
			CountryMapping: conf.CountryMapping,
			Snippets:       conf.WantsSnippets(),
		}, log.Console{})
		if err != nil {
			log.Fatal(err)
		}
		res.Report(conf.JuiceShopUrl)

		result, err := export.Run(&export.Request{
			Framework:  framework,
			Challenges: res.Challenges,
			Options: &options.ExportOptions{
				Policies:       policies,
				Keys:           options.ParseSecretKeys(res.SecretKey),
				CountryMapping: res.CountryMapping,
				VulnSnippets:   res.VulnSnippets,
			},
			Output: rootFlag.output,
			Now:    time.Now(),
		}, log.Console{})
		if err != nil {
			log.Fatal(err)
		}

		if rootFlag.verbose {
			if data, err := prettyjson.Marshal(result.Records); err != nil {
				log.Error("Failed to print records: %s", err)
			} else {
				fmt.Println(string(data))
			}
		}
		if framework == options.CTFd {
			log.SuccessWrite("Backup archive", result.Path)
		} else {
			log.SuccessWrite("Export", result.Path)
		}
	},
}

func banner() {
	fmt.Println()
	fmt.Println(color.New(color.Bold).Sprint("Generate OWASP Juice Shop challenge archive for setting up ") +
		color.New(color.Bold, color.FgCyan).Sprint("CTFd") + ", " +
		color.New(color.Bold, color.FgCyan).Sprint("FBCTF") + " or " +
		color.New(color.Bold, color.FgCyan).Sprint("RootTheBox") + " score server")
	fmt.Println()
}

func resolveConfig() (*config.Config, error) {
	if rootFlag.config != "" {
		log.Debug("reading config from %s", rootFlag.config)
		return config.Load(rootFlag.config)
	}
	if !config.IsInteractive() {
		return nil, errNoTerminal
	}
	return config.NewPrompter(os.Stdin, os.Stdout).Prompt()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add debug flag to root command
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&rootFlag.config, "config", "c", "", "Provide a configuration file instead of answering the questions")
	rootCmd.Flags().StringVarP(&rootFlag.output, "output", "o", "", "Change the output file, a * is replaced by date and framework")
	rootCmd.Flags().BoolVarP(&rootFlag.ignoreSslWarnings, "ignoreSslWarnings", "i", false, "Ignore TLS certificate errors when connecting to the servers")
	rootCmd.Flags().BoolVarP(&rootFlag.verbose, "verbose", "v", false, "Print the generated records")
}
