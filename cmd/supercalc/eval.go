package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	grpcapi "github.com/danielb987/SuperCalculator/pkg/api/grpc"
	"github.com/danielb987/SuperCalculator/pkg/calculator"
)

// errFailed is returned when at least one expression failed; the messages
// have already been printed.
var errFailed = errors.New("evaluation failed")

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate expressions and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE:  eval,
	}
	cmd.Flags().StringArray("var", nil, "Define a variable as name=expression (repeatable)")
	cmd.Flags().Bool("tree", false, "Print the parsed definition before each result")
	cmd.Flags().String("remote", "", "Evaluate on a supercalc gRPC server at this address")
	return cmd
}

func eval(cmd *cobra.Command, args []string) error {
	vars, _ := cmd.Flags().GetStringArray("var")
	tree, _ := cmd.Flags().GetBool("tree")

	if remote, _ := cmd.Flags().GetString("remote"); remote != "" {
		return evalRemote(cmd, remote, vars, tree, args)
	}

	calc, _, err := newCalculator(cmd)
	if err != nil {
		return err
	}
	for _, v := range vars {
		if err := defineVar(calc, v); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, text := range args {
		res := calc.Calculate(text)
		if tree && res.Definition != "" {
			fmt.Fprintln(out, res.Definition)
		}
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), calc.Message(res.Err))
			failed = true
			continue
		}
		fmt.Fprintln(out, calc.Format(res.Value))
	}
	if failed {
		return errFailed
	}
	return nil
}

func evalRemote(cmd *cobra.Command, addr string, vars []string, tree bool, args []string) error {
	client, err := grpcapi.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	for _, v := range vars {
		name, text, err := splitVar(v)
		if err != nil {
			return err
		}
		// The right-hand side is evaluated remotely so that it sees the
		// server's variables.
		res, err := client.Evaluate(ctx, text)
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		value := res.Value
		if f, ok := value.(float64); ok && res.Type == "int" {
			value = int64(f)
		}
		if err := client.SetVariable(ctx, name, value); err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, text := range args {
		res, err := client.Evaluate(ctx, text)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			failed = true
			continue
		}
		if tree {
			fmt.Fprintln(out, res.Definition)
		}
		fmt.Fprintln(out, res.Result)
	}
	if failed {
		return errFailed
	}
	return nil
}

// defineVar evaluates the expression in a name=expression definition and
// stores the result.
func defineVar(calc *calculator.Calculator, def string) error {
	name, text, err := splitVar(def)
	if err != nil {
		return err
	}
	v, err := calc.EvaluateValue(text)
	if err != nil {
		return fmt.Errorf("variable %s: %s", name, calc.Message(err))
	}
	return calc.Scope().Set(name, v)
}

func splitVar(def string) (string, string, error) {
	name, text, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid variable definition %q, expected name=expression", def)
	}
	return name, text, nil
}
