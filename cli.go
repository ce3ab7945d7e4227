package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LexiconIndonesia/recruiter-scraper/common"
	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
	"github.com/LexiconIndonesia/recruiter-scraper/common/scraper"
	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// cliOptions are the command line flags of one run
type cliOptions struct {
	Platform string `long:"platform" short:"p" value-name:"PLATFORM" description:"Source to run"`
	Query    string `long:"query" short:"q" value-name:"QUERY" description:"Comma separated career page URLs, company names or search terms"`
	Max      int    `long:"max" short:"m" default:"50" description:"Maximum number of records to collect"`
	DryRun   bool   `long:"dry-run" description:"Scrape and deduplicate without writing records"`
}

func (o cliOptions) scraperOptions() scraper.Options {
	return scraper.Options{
		Query:      o.Query,
		MaxResults: o.Max,
		DryRun:     o.DryRun,
	}
}

func newParser(opts *cliOptions) *flags.Parser {
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = common.AppName
	parser.LongDescription = "Platforms: " + strings.Join(lo.Map(scraper.Platforms(), func(p models.Platform, _ int) string {
		return p.String()
	}), ", ")
	return parser
}

// parseArgs parses the command line. When ok is false the process should
// exit with code after the usage or error has been written.
func parseArgs(args []string, stdout, stderr io.Writer) (opts cliOptions, code int, ok bool) {
	parser := newParser(&opts)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return opts, exitOK, false
		}
		return opts, usageError(parser, stderr, err), false
	}

	switch {
	case opts.Platform == "" && opts.Query == "":
		parser.WriteHelp(stdout)
		return opts, exitOK, false
	case opts.Platform == "":
		return opts, usageError(parser, stderr, errors.New("--platform is required")), false
	case strings.TrimSpace(opts.Query) == "":
		return opts, usageError(parser, stderr, errors.New("--query is required")), false
	case opts.Max < 1:
		return opts, usageError(parser, stderr, errors.New("--max must be at least 1")), false
	case !scraper.IsRegistered(models.Platform(opts.Platform)):
		return opts, usageError(parser, stderr, fmt.Errorf("%w: %q", scraper.ErrUnknownPlatform, opts.Platform)), false
	}

	return opts, exitOK, true
}

func usageError(parser *flags.Parser, stderr io.Writer, err error) int {
	parser.WriteHelp(stderr)
	fmt.Fprintf(stderr, "\nerror: %v\n", err)
	return exitUsage
}
