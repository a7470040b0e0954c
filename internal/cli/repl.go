package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fibwasm/internal/fibonacci"
	"github.com/agbru/fibwasm/internal/format"
	"github.com/agbru/fibwasm/internal/orchestration"
	"github.com/agbru/fibwasm/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the calculator key used by calc; "all" or empty picks
	// the first registered key.
	DefaultAlgo string
	// Timeout bounds each command.
	Timeout time.Duration
	// HexOutput displays results in hexadecimal.
	HexOutput bool
}

// REPL is an interactive Fibonacci calculator session.
type REPL struct {
	config      REPLConfig
	factory     fibonacci.CalculatorFactory
	currentAlgo string
	reporter    orchestration.ProgressReporter
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a session over the calculators registered in factory.
func NewREPL(factory fibonacci.CalculatorFactory, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if currentAlgo == "" || currentAlgo == "all" {
		if keys := factory.List(); len(keys) > 0 {
			currentAlgo = keys[0]
		}
	}

	return &REPL{
		config:      config,
		factory:     factory,
		currentAlgo: currentAlgo,
		reporter:    CLIProgressReporter{},
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// SetProgressReporter replaces the spinner shown during calculations.
func (r *REPL) SetProgressReporter(p orchestration.ProgressReporter) {
	r.reporter = p
}

// Start reads and executes commands until exit, EOF or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		fmt.Fprint(r.out, ui.ColorGreen()+"fib> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sfibwasm - native vs WebAssembly Fibonacci%s  %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scalc <n>%s      - Calculate F(n) with the current calculator\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s   - Change calculator (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.algoList())
	fmt.Fprintf(r.out, "  %scompare <n>%s   - Run every calculator for F(n)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List available calculators\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shex%s           - Toggle hexadecimal display\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s   - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) algoList() string {
	return strings.Join(r.factory.List(), ", ")
}

// processCommand executes one command line. Returns false if the REPL
// should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "calc", "c":
		if n, ok := r.parseIndex("calc", args); ok {
			r.calculate(ctx, n)
		}
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		if n, ok := r.parseIndex("compare", args); ok {
			r.compare(ctx, n)
		}
	case "list", "ls":
		r.cmdList()
	case "hex":
		r.cmdHex()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if n, err := strconv.ParseUint(cmd, 10, 32); err == nil {
			r.calculate(ctx, uint32(n))
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}

	return true
}

func (r *REPL) parseIndex(cmd string, args []string) (uint32, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s <n>%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s (expected an integer in [0, 4294967295])%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return uint32(n), true
}

func (r *REPL) formatValue(v uint64) string {
	if r.config.HexOutput {
		return fmt.Sprintf("0x%x", v)
	}
	return format.FormatUint64(v)
}

// calculate runs the current calculator for n.
func (r *REPL) calculate(ctx context.Context, n uint32) {
	calc, err := r.factory.Get(r.currentAlgo)
	if err != nil {
		fmt.Fprintf(r.out, "%sCalculator not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Calculating F(%s%d%s) with %s%s%s...\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorCyan(), calc.Name(), ui.ColorReset())

	res := orchestration.ExecuteCalculations(ctx, []fibonacci.Calculator{calc}, n, r.reporter, r.out)[0]
	if res.Err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Digits: %s%d%s\n", ui.ColorCyan(), format.DigitCount(res.Result), ui.ColorReset())
	fmt.Fprintf(r.out, "  F(%d) = %s%s%s\n", n, ui.ColorGreen(), r.formatValue(res.Result), ui.ColorReset())
	if fibonacci.Overflows(n) {
		fmt.Fprintf(r.out, "  %s(wrapped modulo 2^64)%s\n", ui.ColorYellow(), ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available calculators: %s\n", r.algoList())
		return
	}

	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown calculator: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available calculators: %s\n", r.algoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Calculator changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

// compare runs every registered calculator concurrently for n.
func (r *REPL) compare(ctx context.Context, n uint32) {
	fmt.Fprintf(r.out, "\n%sComparison for F(%d):%s\n", ui.ColorBold(), n, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	calcs := orchestration.GetCalculatorsToRun("all", r.factory)
	results := orchestration.ExecuteCalculations(ctx, calcs, n, orchestration.NullProgressReporter{}, r.out)

	var first *uint64
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(r.out, "  %s%-30s%s: %sError - %v%s\n",
				ui.ColorYellow(), res.Name, ui.ColorReset(), ui.ColorRed(), res.Err, ui.ColorReset())
			continue
		}
		if first == nil {
			first = &results[i].Result
		}

		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if res.Result != *first {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-30s%s: %s%10s%s  %s %s\n",
			ui.ColorYellow(), res.Name, ui.ColorReset(),
			ui.ColorCyan(), format.FormatExecutionDuration(res.Duration), ui.ColorReset(),
			r.formatValue(res.Result), status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable calculators:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-16s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), calc.Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdHex() {
	r.config.HexOutput = !r.config.HexOutput
	status := "disabled"
	if r.config.HexOutput {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), status, ui.ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Calculator:   %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:      %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	hexStatus := "no"
	if r.config.HexOutput {
		hexStatus = "yes"
	}
	fmt.Fprintf(r.out, "  Hexadecimal:  %s%s%s\n", ui.ColorCyan(), hexStatus, ui.ColorReset())
	fmt.Fprintf(r.out, "  Exact up to:  %sn=%d%s\n", ui.ColorCyan(), fibonacci.MaxExactIndex, ui.ColorReset())
	fmt.Fprintln(r.out)
}
