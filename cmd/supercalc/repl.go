package main

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/expr"
)

// assignment matches "name = expression" but not "name == expression".
var assignment = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)$`)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read expressions from standard input and print the results",
		Long: `Read expressions from standard input, one per line, and print the results.

A line of the form "name = expression" assigns a variable. The commands
:vars, :funcs, :tree <expression> and :quit are also recognized.`,
		Args: cobra.NoArgs,
		RunE: repl,
	}
}

func repl(cmd *cobra.Command, args []string) error {
	calc, _, err := newCalculator(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			return nil
		}
		fmt.Fprintln(out, replLine(calc, line))
	}
}

// replLine handles one non-empty input line and returns the text to print.
func replLine(calc *calculator.Calculator, line string) string {
	switch {
	case line == ":vars":
		var sb strings.Builder
		values := calc.Scope().Snapshot()
		for i, name := range calc.Scope().Names() {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s = %s", name, calc.Format(values[name]))
		}
		return sb.String()
	case line == ":funcs":
		return strings.Join(calc.Functions().Names(), " ")
	case strings.HasPrefix(line, ":tree "):
		node, err := calc.Parse(strings.TrimPrefix(line, ":tree "))
		if err != nil {
			return calc.Message(err)
		}
		return expr.Definition(node)
	}

	if m := assignment.FindStringSubmatch(line); m != nil {
		v, err := calc.EvaluateValue(m[2])
		if err != nil {
			return calc.Message(err)
		}
		if err := calc.Scope().Set(m[1], v); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%s = %s", m[1], calc.Format(v))
	}

	return calc.Evaluate(line)
}
