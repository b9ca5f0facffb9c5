package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	grpcapi "github.com/danielb987/SuperCalculator/pkg/api/grpc"
	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/store"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEval(t *testing.T) {
	out, _, err := run(t, "", "eval", "2+3*4", `"a"+"b"`, "1.0/4")
	require.NoError(t, err)
	require.Equal(t, "14\nab\n0.25\n", out)
}

func TestEvalTreeAndVars(t *testing.T) {
	out, _, err := run(t, "", "eval", "--tree", "--var", "x=2*3", "--var", "label=\"n\"", "x+1", "label")
	require.NoError(t, err)
	require.Equal(t, "(Identifier:x)+(IntNumber:1)\n7\nIdentifier:label\nn\n", out)
}

func TestEvalFailure(t *testing.T) {
	out, errOut, err := run(t, "", "eval", "1+", "2")
	require.ErrorIs(t, err, errFailed)
	require.Equal(t, "2\n", out)
	require.NotEmpty(t, errOut)

	_, _, err = run(t, "", "eval", "--var", "=3", "1")
	require.ErrorContains(t, err, "invalid variable definition")

	_, _, err = run(t, "", "eval", "--var", "pi=3", "1")
	require.Error(t, err)
}

func TestEvalLocale(t *testing.T) {
	_, errOut, err := run(t, "", "eval", "--locale", "sv", "y")
	require.Error(t, err)
	require.Equal(t, "Identifieraren \"y\" finns inte\n", errOut)
}

func TestEvalConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supercalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variables:\n  rate: 0.5\nmaxDepth: 2\n"), 0o644))

	out, _, err := run(t, "", "eval", "--config", path, "rate*4")
	require.NoError(t, err)
	require.Equal(t, "2.0\n", out)

	_, errOut, err := run(t, "", "eval", "--config", path, "(((1)))")
	require.Error(t, err)
	require.Contains(t, errOut, "too complex")
}

func TestFunctions(t *testing.T) {
	out, _, err := run(t, "", "functions")
	require.NoError(t, err)
	require.Contains(t, strings.Split(out, "\n"), "sin")
}

func TestRepl(t *testing.T) {
	stdin := "1+1\nx = 4\nx * x\nx == 4\n:tree x+1\npi = 3\n:quit\nignored\n"
	out, _, err := run(t, stdin, "repl")
	require.NoError(t, err)

	require.Contains(t, out, "> 2\n")
	require.Contains(t, out, "> x = 4\n")
	require.Contains(t, out, "> 16\n")
	require.Contains(t, out, "> true\n")
	require.Contains(t, out, "> (Identifier:x)+(IntNumber:1)\n")
	require.Contains(t, out, "read-only")
	require.NotContains(t, out, "ignored")
}

func TestEvalRemote(t *testing.T) {
	calc, err := calculator.New(nil)
	require.NoError(t, err)
	srv := grpcapi.New(calc, store.New(10), false)

	lis, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	go srv.ServeListener(lis)
	defer srv.GracefulStop()

	out, _, err := run(t, "", "eval", "--remote", lis.Addr().String(), "--var", "n=6", "n/4", "--tree")
	require.NoError(t, err)
	require.Equal(t, "(Identifier:n)/(IntNumber:4)\n1\n", out)
}
