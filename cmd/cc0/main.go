// cmd/cc0/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"cc0/internal/asm"
	"cc0/internal/buildcache"
	"cc0/internal/compileerr"
	"cc0/internal/lexer"
	"cc0/internal/objfile"
	"cc0/internal/translator"
)

const usage = `usage: cc0 INPUT -o OUTPUT (-s | -c)

INPUT  is a c0 source path, or - to read from stdin.
OUTPUT is the destination path, or - to write to stdout.
  -s    write the textual assembly listing
  -c    write the binary object file
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprint(stderr, usage)
		return 2
	}

	source, err := readInput(opts.input, stdin)
	if err != nil {
		fmt.Fprintln(stderr, errors.Wrap(err, "cc0: reading input"))
		return 2
	}

	var cache *buildcache.Cache
	var cacheKey string
	if cachePath := os.Getenv("CC0_CACHE"); cachePath != "" && !opts.emitSource {
		cache, err = buildcache.Open(cachePath)
		if err != nil {
			fmt.Fprintln(stderr, errors.Wrap(err, "cc0: opening build cache"))
			return 2
		}
		defer cache.Close()
		cacheKey = buildcache.Key(source)
		if cached, buildID, ok, lookupErr := cache.Lookup(cacheKey); lookupErr == nil && ok {
			if err := writeOutput(opts.output, stdout, cached); err != nil {
				fmt.Fprintln(stderr, errors.Wrap(err, "cc0: writing output"))
				return 2
			}
			if isatty.IsTerminal(os.Stderr.Fd()) {
				fmt.Fprintf(stderr, "cc0: cache hit (build %s), wrote %s to %s\n", buildID, humanize.Bytes(uint64(len(cached))), displayName(opts.output))
			}
			return 0
		}
	}

	sc := lexer.NewScanner(string(source))
	tokens := sc.ScanTokens()
	if lexErr := sc.Err(); lexErr != nil {
		printDiagnostic(stderr, lexErr.Error())
		return 2
	}

	prog, compErr := translator.Translate(tokens)
	if compErr != nil {
		printDiagnostic(stderr, formatCompileError(compErr))
		return 2
	}

	var output []byte
	if opts.emitSource {
		output = []byte(asm.NewPrinter().Print(prog))
	} else {
		output, err = objfile.Encode(prog)
		if err != nil {
			fmt.Fprintln(stderr, errors.Wrap(err, "cc0: encoding object"))
			return 2
		}
		if cache != nil {
			if _, err := cache.Store(cacheKey, output); err != nil {
				fmt.Fprintln(stderr, errors.Wrap(err, "cc0: writing build cache"))
				return 2
			}
		}
	}

	if err := writeOutput(opts.output, stdout, output); err != nil {
		fmt.Fprintln(stderr, errors.Wrap(err, "cc0: writing output"))
		return 2
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(stderr, "cc0: wrote %s to %s\n", humanize.Bytes(uint64(len(output))), displayName(opts.output))
	}
	return 0
}

func formatCompileError(e *compileerr.CompilationError) string {
	return fmt.Sprintf("Syntactic analysis error: %s", e.Error())
}

func printDiagnostic(stderr io.Writer, msg string) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintln(stderr, msg)
	}
}

type options struct {
	input      string
	output     string
	emitSource bool
}

func parseArgs(args []string) (*options, error) {
	var opts options
	var haveMode, haveOutput bool

	if len(args) == 0 {
		return nil, fmt.Errorf("cc0: missing INPUT")
	}
	opts.input = args[0]

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("cc0: -o requires a path")
			}
			i++
			opts.output = args[i]
			haveOutput = true
		case "-s":
			opts.emitSource = true
			haveMode = true
		case "-c":
			opts.emitSource = false
			haveMode = true
		default:
			return nil, fmt.Errorf("cc0: unrecognized argument %q", args[i])
		}
	}
	if !haveOutput {
		return nil, fmt.Errorf("cc0: missing -o OUTPUT")
	}
	if !haveMode {
		return nil, fmt.Errorf("cc0: one of -s or -c is required")
	}
	return &opts, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func displayName(path string) string {
	if path == "-" {
		return "stdout"
	}
	return path
}
