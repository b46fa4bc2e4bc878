// Command jtd-codegen compiles an RFC 8927 JSON Type Definition schema
// into standalone validator source code for a target language.
//
// Usage:
//
//	jtd-codegen --target js schema.jtd.json
//	jtd-codegen --target rust --out gen/validator.rs --lang es schema.jtd.yaml
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kaptinlin/go-i18n"
	"github.com/spf13/cobra"

	"github.com/kaptinlin/jtdgen/codegen"
	_ "github.com/kaptinlin/jtdgen/codegen/js"
	_ "github.com/kaptinlin/jtdgen/codegen/lua"
	_ "github.com/kaptinlin/jtdgen/codegen/python"
	_ "github.com/kaptinlin/jtdgen/codegen/rust"
	"github.com/kaptinlin/jtdgen/jtd"
)

// Exit codes. 0 on success; 1 for a well-formedness or usage error
// (diagnostics already printed); 2 for an unexpected failure (I/O,
// internal bug) that escaped the normal error-reporting path.
const (
	exitOK    = 0
	exitUsage = 1
	exitFault = 2
)

var (
	flagTarget  string
	flagLang    string
	flagOut     string
	flagVerbose bool
	flagQuiet   bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true
	exitCode = exitOK
	if err := root.Execute(); err != nil {
		if exitCode == exitOK {
			exitCode = exitUsage
		}
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCode
}

// exitCode is set by runE so main can return the precise code cobra's
// Execute() itself can't distinguish (it only reports error/no-error).
var exitCode = exitOK

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jtd-codegen [flags] schema-file",
		Short: "Compile a JSON Type Definition schema into validator source code",
		Args:  cobra.ExactArgs(1),
		RunE:  runE,
	}
	flags := cmd.Flags()
	flags.StringVarP(&flagTarget, "target", "t", "", fmt.Sprintf("emission target (%v)", codegen.Names()))
	flags.StringVar(&flagLang, "lang", "en", "diagnostic message locale")
	flags.StringVarP(&flagOut, "out", "o", "", "output file (default: stdout)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "log compilation and emission progress")
	flags.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress all non-error output")
	return cmd
}

func runE(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "", 0)
	quietLog := func(format string, v ...interface{}) {
		if flagVerbose && !flagQuiet {
			logger.Printf(format, v...)
		}
	}

	if flagTarget == "" {
		exitCode = exitUsage
		return fmt.Errorf("--target is required (one of %v)", codegen.Names())
	}
	factory, ok := codegen.Lookup(flagTarget)
	if !ok {
		exitCode = exitUsage
		return fmt.Errorf("%w: %q (known targets: %v)", jtd.ErrUnknownTarget, flagTarget, codegen.Names())
	}

	localizer := mustLocalizer(flagLang, quietLog)

	path := args[0]
	quietLog("reading schema from %s", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		exitCode = exitFault
		return fmt.Errorf("read schema: %w", err)
	}

	normalized, err := loadSchema(path, raw)
	if err != nil {
		exitCode = exitFault
		return fmt.Errorf("load schema: %w", err)
	}

	quietLog("compiling schema")
	compiler := jtd.NewCompiler()
	compiled, err := compiler.Compile(normalized)
	if err != nil {
		exitCode = exitUsage
		printDiagnostic(logger, err, localizer)
		return err
	}

	quietLog("emitting %s source", flagTarget)
	source, err := codegen.Emit(compiled, factory())
	if err != nil {
		exitCode = exitFault
		return fmt.Errorf("emit: %w", err)
	}

	if err := writeOutput(source); err != nil {
		exitCode = exitFault
		return err
	}

	exitCode = exitOK
	if !flagQuiet {
		quietLog("wrote %s", outputDescription())
	}
	return nil
}

func mustLocalizer(lang string, logf func(string, ...interface{})) *i18n.Localizer {
	bundle, err := newI18n()
	if err != nil {
		logf("i18n bundle unavailable, falling back to plain diagnostics: %v", err)
		return nil
	}
	return bundle.NewLocalizer(lang)
}

func printDiagnostic(logger *log.Logger, err error, localizer *i18n.Localizer) {
	var schemaErr *jtd.SchemaError
	if se, ok := err.(*jtd.SchemaError); ok {
		schemaErr = se
	}
	if schemaErr == nil {
		logger.Printf("error: %v", err)
		return
	}
	if !flagQuiet {
		logger.Printf("%s", schemaErr.Localize(localizer))
	}
}

func writeOutput(source string) error {
	if flagOut == "" {
		_, err := fmt.Print(source)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagOut), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(flagOut, []byte(source), 0o644)
}

func outputDescription() string {
	if flagOut == "" {
		return "stdout"
	}
	return flagOut
}
