package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/alovak/cardforge/generator/models"
	"github.com/alovak/cardforge/internal/apiclient"
	"github.com/alovak/cardforge/internal/engine"
	"github.com/alovak/cardforge/internal/export"
)

const maxQuantity = 1000

func main() {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, isTTY))
}

type options struct {
	bin      string
	quantity int
	month    string
	year     string
	cvv      string
	format   string
	validate string
	remote   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("cardgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.bin, "bin", "", "BIN prefix (defaults to 4, Visa)")
	fs.IntVar(&o.quantity, "n", 10, "number of cards to generate")
	fs.StringVar(&o.month, "month", engine.Random, "expiry month 1-12 or random")
	fs.StringVar(&o.year, "year", engine.Random, "expiry year YY/YYYY or random")
	fs.StringVar(&o.cvv, "cvv", engine.Random, "fixed CVV digits or random")
	fs.StringVar(&o.format, "format", string(export.FormatPipe), "output format: pipe|newline|json|iso8583")
	fs.StringVar(&o.validate, "validate", "", "validate this number instead of generating ('-' reads lines from stdin)")
	fs.StringVar(&o.remote, "remote", "", "cardforge server URL; empty computes locally")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.quantity < 1 || o.quantity > maxQuantity {
		return nil, fmt.Errorf("-n must be 1..%d", maxQuantity)
	}
	if _, err := export.ParseFormat(o.format); err != nil {
		return nil, err
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, isTTY bool) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	var cli *apiclient.Client
	if o.remote != "" {
		cli = apiclient.New(o.remote, &http.Client{Timeout: 10 * time.Second})
	}
	ctx := context.Background()

	if o.validate != "" {
		return runValidate(ctx, o, cli, stdin, stdout, stderr)
	}
	return runGenerate(ctx, o, cli, stdout, stderr, isTTY)
}

func runGenerate(ctx context.Context, o *options, cli *apiclient.Client, stdout, stderr io.Writer, isTTY bool) int {
	req := models.GenerateRequest{
		BINPrefix: o.bin,
		Quantity:  o.quantity,
		ExpMonth:  o.month,
		ExpYear:   o.year,
		CVV:       o.cvv,
	}

	var out string
	if cli != nil {
		batch, err := cli.Generate(ctx, req)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if isTTY {
			printSummary(stderr, batch.Cards)
		}
		if out, err = cli.Export(ctx, o.format); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	} else {
		cards, err := engine.New(nil).Generate(req.Config())
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if isTTY {
			printSummary(stderr, cards)
		}
		f, _ := export.ParseFormat(o.format)
		if out, err = export.Render(cards, f); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	fmt.Fprintln(stdout, out)
	return 0
}

func runValidate(ctx context.Context, o *options, cli *apiclient.Client, stdin io.Reader, stdout, stderr io.Writer) int {
	inputs := []string{o.validate}
	if o.validate == "-" {
		inputs = inputs[:0]
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	status := 0
	for _, in := range inputs {
		var res engine.ValidationResult
		if cli != nil {
			var err error
			if res, err = cli.Validate(ctx, in); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		} else {
			res = engine.Validate(in)
		}
		fmt.Fprintf(stdout, "%s\t%s\n", res.Number, res.Message)
		if !res.IsValid {
			status = 1
		}
	}
	return status
}

func printSummary(w io.Writer, cards []engine.Card) {
	counts := map[string]int{}
	for _, c := range cards {
		counts[c.BrandName()]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%d", n, counts[n])
	}
	fmt.Fprintf(w, "generated %d cards (%s)\n", len(cards), strings.Join(parts, ", "))
}
