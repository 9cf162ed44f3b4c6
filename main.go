package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/FitrahHaque/huffpuff/engine"
)

const programVersion = "huffpuff 1.1.0"

const usageText = `Usage: huffpuff [--character-map=FILE]
                [--table-output=FILE] [--data-output=FILE]
                [--table-label=LABEL] [--string-label-prefix=PREFIX]
                [--generate-string-table] [--format=asm|bin]
                [--builder=sort|heap] [--resolve-offsets]
                [--progress] [--verify]
                [--help] [--usage] [--version]
                FILE
`

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	summaryColor = color.New(color.FgGreen)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	application := "huffpuff"
	cfg := engine.DefaultConfig()
	fs := flag.NewFlagSet(application, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.CharacterMap, "character-map", "", "Transform input according to `FILE`")
	fs.StringVar(&cfg.TableOutput, "table-output", cfg.TableOutput, "Store Huffman decoder table in `FILE`")
	fs.StringVar(&cfg.DataOutput, "data-output", cfg.DataOutput, "Store Huffman-encoded data in `FILE`")
	fs.StringVar(&cfg.TableLabel, "table-label", cfg.TableLabel, "Use given `LABEL` for Huffman decoder table")
	fs.StringVar(&cfg.StringLabelPrefix, "string-label-prefix", "", "Use given `PREFIX` as string label prefix")
	fs.BoolVar(&cfg.GenerateStringTable, "generate-string-table", false, "Generate string pointer table")
	fs.StringVar(&cfg.Format, "format", cfg.Format, fmt.Sprintf("Output format, choices include: %s", strings.Join(engine.Formats[:], ", ")))
	fs.StringVar(&cfg.Builder, "builder", cfg.Builder, fmt.Sprintf("Tree builder, choices include: %s", strings.Join(engine.Builders[:], ", ")))
	fs.BoolVar(&cfg.ResolveOffsets, "resolve-offsets", false, "Emit numeric node offsets instead of label arithmetic")
	fs.BoolVar(&cfg.Verify, "verify", false, "Decode every string back and compare")
	progress := fs.Bool("progress", false, "Show encoding progress")
	helpCmd := fs.Bool("help", false, "Give this help list")
	usageCmd := fs.Bool("usage", false, "Give a short usage message")
	versionCmd := fs.Bool("version", false, "Print program version")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [OPTION...] FILE\n\n", application)
		fs.PrintDefaults()
	}

	// options may follow the input file, so parse around each positional argument
	var inputs []string
	for {
		if err := fs.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 1
		}
		if fs.NArg() == 0 {
			break
		}
		inputs = append(inputs, fs.Arg(0))
		args = fs.Args()[1:]
	}
	switch {
	case *helpCmd:
		fs.SetOutput(stdout)
		fmt.Fprintf(stdout, "Usage: %s [OPTION...] FILE\n\n", application)
		fs.PrintDefaults()
		return 0
	case *usageCmd:
		fmt.Fprint(stdout, usageText)
		return 0
	case *versionCmd:
		fmt.Fprintln(stdout, programVersion)
		return 0
	}

	if len(inputs) > 0 {
		cfg.Input = inputs[len(inputs)-1]
		if len(inputs) > 1 {
			warningColor.Fprintf(stderr, "warning: using last input file `%s'\n", cfg.Input)
		}
	}
	if *progress {
		cfg.Progress = stderr
	}

	result, err := engine.Run(&cfg, stdin)
	if err != nil {
		errorColor.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if len(result.Strings) == 0 {
		warningColor.Fprintln(stderr, "warning: no strings to encode")
	}
	symbols := 0
	if result.Tree != nil {
		symbols = result.Tree.Symbols()
	}
	summaryColor.Fprintf(stderr, "Strings: %d, symbols: %d, table size (in bytes): %d\n",
		len(result.Strings), symbols, result.Table.Len())
	summaryColor.Fprintf(stderr, "Original size (in bytes): %v\n", result.InputSize())
	summaryColor.Fprintf(stderr, "Compressed size (in bytes): %v\n", result.EncodedSize())
	if result.InputSize() > 0 {
		summaryColor.Fprintf(stderr, "Compression ratio: %.2f%%\n",
			float32(result.EncodedSize())/float32(result.InputSize())*100)
	}
	return 0
}
