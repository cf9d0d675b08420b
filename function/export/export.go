// Package export picks the generator for the chosen score server and writes
// its output to disk.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/dimasma0305/juicectf/function/generator"
	"github.com/dimasma0305/juicectf/function/juiceshop"
	"github.com/dimasma0305/juicectf/function/log"
	"github.com/dimasma0305/juicectf/function/options"
)

const filePrefix = "OWASP_Juice_Shop."

var extensions = map[options.Framework]string{
	options.CTFd:       ".zip",
	options.FBCTF:      ".json",
	options.RootTheBox: ".xml",
}

// Request describes one export run.
type Request struct {
	Framework  options.Framework
	Challenges []*juiceshop.Challenge
	Options    *options.ExportOptions
	// Output is the destination file. Empty means the dated default name,
	// a "*" is replaced by the date and framework.
	Output string
	Now    time.Time
}

// Result is what a run produced.
type Result struct {
	Path    string
	Records any
}

// Generate runs the generator for req.Framework without writing anything.
func Generate(req *Request, diag log.Diagnostics) (any, error) {
	switch req.Framework {
	case options.CTFd:
		return generator.GenerateCTFd(req.Challenges, req.Options)
	case options.FBCTF:
		return generator.GenerateFBCTF(req.Challenges, req.Options, diag)
	case options.RootTheBox:
		return generator.GenerateRTB(req.Challenges, req.Options)
	}
	return nil, fmt.Errorf("%w: %q", options.ErrInvalidFramework, req.Framework)
}

// Run generates the export and writes it to OutputPath(req).
func Run(req *Request, diag log.Diagnostics) (*Result, error) {
	records, err := Generate(req, diag)
	if err != nil {
		return nil, err
	}

	path := OutputPath(req)
	log.Debug("writing %s export to %s", req.Framework, path)

	switch data := records.(type) {
	case []generator.CTFdRow:
		err = WriteCTFdZip(path, data)
	case *generator.FBCTFTemplate:
		err = WriteJSON(path, data)
	case *generator.RTBExport:
		err = WriteXML(path, data)
	default:
		err = fmt.Errorf("no writer for %T", records)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to write output to file! %w", err)
	}
	return &Result{Path: path, Records: records}, nil
}

// OutputPath resolves the output file name of req.
func OutputPath(req *Request) string {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.Format("2006-01-02") + "." + req.Framework.Short()

	if req.Output == "" {
		return filePrefix + stamp + extensions[req.Framework]
	}
	return strings.ReplaceAll(req.Output, "*", stamp)
}
