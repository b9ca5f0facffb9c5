package stdlib

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/scope"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

func eval(t *testing.T, r *Registry, input string) (types.Value, error) {
	t.Helper()
	s := scope.NewScope()
	s.DefineConstants()
	node, err := expr.ParseExpression(input, s)
	require.NoError(t, err)
	return expr.Evaluate(node, r)
}

func requireKind(t *testing.T, err error, want types.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok, "not a calculator error: %v", err)
	require.Equal(t, want, kind, err.Error())
}

func TestFunctionResults(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		input string
		want  types.Value
	}{
		{"int(3.9)", types.NewInt(3)},
		{"int(4294967297)", types.NewInt(1)},
		{"int(2147483648)", types.NewInt(math.MinInt32)},
		{`int("42abc")`, types.NewInt(42)},
		{"long(4294967297)", types.NewInt(4294967297)},
		{"long(true)", types.NewInt(1)},
		{`double("2.5")`, types.NewDouble(2.5)},
		{"string(1.0)", types.NewString("1.0")},
		{"bool(0.2)", types.NewBool(false)},
		{`bool("yes")`, types.NewBool(true)},
		{"type(1)", types.NewString("int")},
		{"type(1.5)", types.NewString("double")},
		{`type("")`, types.NewString("string")},
		{"type(true)", types.NewString("bool")},
		{`len("héllo")`, types.NewInt(5)},
		{"if(1 < 2, 10, 20)", types.NewInt(10)},
		{`if("", 10, 20)`, types.NewInt(20)},
		{"sin(0)", types.NewDouble(0)},
		{`sin(90, "deg")`, types.NewDouble(1)},
		{`sin(pi/2, "rad")`, types.NewDouble(1)},
		{"sin(pi*pi/2, 2)", types.NewDouble(1)},
		{`sin(90, "deg", 0, 10)`, types.NewDouble(10)},
		{`sin(-90, "deg", 0, 10)`, types.NewDouble(0)},
		{`cos(0)`, types.NewDouble(1)},
		{`tan(0, "deg")`, types.NewDouble(0)},
		{"sqrt(16)", types.NewDouble(4)},
		{"pow(2, 10)", types.NewDouble(1024)},
		{"abs(-3)", types.NewInt(3)},
		{"abs(-2.5)", types.NewDouble(2.5)},
		{"floor(2.7)", types.NewInt(2)},
		{"floor(-2.2)", types.NewInt(-3)},
		{"ceil(2.1)", types.NewInt(3)},
		{"round(2.5)", types.NewInt(3)},
		{"round(7)", types.NewInt(7)},
		{"min(3, 1.5, 2)", types.NewDouble(1.5)},
		{"max(3, 1.5, 2)", types.NewInt(3)},
		{"max(7)", types.NewInt(7)},
		{`upper("abc")`, types.NewString("ABC")},
		{`lower("ÅBC")`, types.NewString("åbc")},
		{`trim("  x ")`, types.NewString("x")},
		{`substring("calculator", 0, 4)`, types.NewString("calc")},
		{`substring("calculator", 4)`, types.NewString("ulator")},
		{`substring("abc", -5, 50)`, types.NewString("abc")},
		{`substring("abc", 2, 1)`, types.NewString("")},
		{`contains("calculator", "cul")`, types.NewBool(true)},
		{`index("häst", "st")`, types.NewInt(2)},
		{`index("abc", "x")`, types.NewInt(-1)},
		{`replace("a-b-c", "-", "+")`, types.NewString("a+b+c")},
		{`match("abc123", "[a-z]+[0-9]+")`, types.NewBool(true)},
		{`match("abc123x", "[a-z]+[0-9]+")`, types.NewBool(false)},
		{`url_encode("a b&c")`, types.NewString("a+b%26c")},
		{`url_decode("a+b%26c")`, types.NewString("a b&c")},
		{`base64_encode("hello")`, types.NewString("aGVsbG8=")},
		{`base64_decode("aGVsbG8=")`, types.NewString("hello")},
		{`hash("abc")`, types.NewString("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")},
		{`hash("abc", "md5")`, types.NewString("900150983cd24fb0d6963f7d28e17f72")},
		{`hash("abc", "SHA-1")`, types.NewString("a9993e364706816aba3e25717850c26c9cd0d89d")},
		{`hmac("", "", "MD5")`, types.NewString("74e6f7298a9c2d168935f58c001bad88")},
		{`format_time(0)`, types.NewString("1970-01-01T00:00:00Z")},
		{`parse_time("1970-01-01T00:01:00Z")`, types.NewDouble(60)},
		{`print(5)`, types.NewInt(5)},
		{`env("SUPERCALC_TEST_UNSET_VARIABLE", "fallback")`, types.NewString("fallback")},
		{`json_encode("a\"b")`, types.NewString(`"a\"b"`)},
		{`json_encode(2.0)`, types.NewString("2")},
		{`json_decode("42")`, types.NewInt(42)},
		{`json_decode("4.5")`, types.NewDouble(4.5)},
		{`json_decode('"x"')`, types.NewString("x")},
		{`json_get('{"order":{"items":[{"price":9},{"price":2.5}]}}', "order.items.1.price")`, types.NewDouble(2.5)},
		{`json_get('{"ok":true}', "ok")`, types.NewBool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := eval(t, r, tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want.Type(), got.Type(), got.String())
			if tt.want.Type() == types.TypeDouble {
				require.InDelta(t, tt.want.AsDouble(), got.AsDouble(), 1e-9)
				return
			}
			require.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFunctionErrors(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		input string
		kind  types.ErrorKind
	}{
		{"int(1, 2)", types.KindParameterCount},
		{"int()", types.KindParameterCount},
		{"random(1)", types.KindParameterCount},
		{"sin()", types.KindParameterCount},
		{`sin(1, "rad", 0)`, types.KindParameterCount},
		{`sin(1, "grad")`, types.KindIllegalParameter},
		{`cos(1, true)`, types.KindIllegalParameter},
		{"min()", types.KindParameterCount},
		{`max(1, "a")`, types.KindIllegalParameter},
		{`sqrt("x")`, types.KindIllegalParameter},
		{`len(5)`, types.KindIllegalParameter},
		{`substring("abc", 1.5)`, types.KindIllegalParameter},
		{`hash("abc", "crc32")`, types.KindIllegalParameter},
		{`match("a", "(")`, types.KindIllegalParameter},
		{`base64_decode("***")`, types.KindIllegalParameter},
		{`parse_time("yesterday")`, types.KindIllegalParameter},
		{`format_time(0, "Mars/Olympus")`, types.KindIllegalParameter},
		{`env("SUPERCALC_TEST_UNSET_VARIABLE")`, types.KindIllegalParameter},
		{"if(1, 2)", types.KindParameterCount},
		{`json_decode("[1]")`, types.KindIllegalParameter},
		{`json_decode("{")`, types.KindIllegalParameter},
		{`json_get('{"a":1}', "b")`, types.KindIllegalParameter},
		{`json_get('{"a":[1]}', "a.3")`, types.KindIllegalParameter},
		{"nosuchfunction()", types.KindFunctionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := eval(t, r, tt.input)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestParameterCountMessages(t *testing.T) {
	r := NewRegistry()

	_, err := eval(t, r, "int(1, 2)")
	require.EqualError(t, err, `Function "int" has wrong number of parameters. "1" parameters expected`)

	_, err = eval(t, r, "sin()")
	require.EqualError(t, err, `Function "sin" has wrong number of parameters`)

	_, err = eval(t, r, `sin(1, "grad")`)
	require.EqualError(t, err, `Parameter "2" with value "grad" for function "sin" is invalid`)
}

func TestParameterCountCheckedFirst(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("tick", 0, 0, func(args []types.Value) (types.Value, error) {
		calls++
		return types.NewInt(int64(calls)), nil
	})

	for _, input := range []string{
		"int(1, nosuch())",
		"long(1, 1/0)",
		"int(1, tick())",
		"pow(tick())",
		`sin(1, "rad", tick())`,
		"if(tick(), 1, 2, 3)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := eval(t, r, input)
			requireKind(t, err, types.KindParameterCount)
		})
	}
	require.Zero(t, calls, "arguments of a call with the wrong count were evaluated")

	got, err := eval(t, r, "int(tick())")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AsInt())
}

func TestIfIsLazy(t *testing.T) {
	r := NewRegistry()
	got, err := eval(t, r, "if(true, 1, 1/0)")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.AsInt())

	_, err = eval(t, r, "if(false, 1, 1/0)")
	requireKind(t, err, types.KindDivisionByZero)
}

func TestRandom(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 20; i++ {
		got, err := eval(t, r, "random()")
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.AsDouble(), 0.0)
		require.Less(t, got.AsDouble(), 1.0)
	}
}

func TestUUIDAndNow(t *testing.T) {
	r := NewRegistry()

	got, err := eval(t, r, "uuid()")
	require.NoError(t, err)
	id, err := uuid.Parse(got.AsString())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), id.Version())

	got, err = eval(t, r, "now()")
	require.NoError(t, err)
	require.Greater(t, got.AsDouble(), 1.6e9)
}

func TestEnv(t *testing.T) {
	t.Setenv("SUPERCALC_TEST_VALUE", "42")
	got, err := eval(t, NewRegistry(), `env("SUPERCALC_TEST_VALUE") + "!"`)
	require.NoError(t, err)
	require.Equal(t, "42!", got.AsString())
}

func TestRegistry(t *testing.T) {
	r := NewEmptyRegistry()
	require.Empty(t, r.Names())

	r.Install(ProviderFunc(func(r *Registry) {
		r.Register("twice", 1, 1, func(args []types.Value) (types.Value, error) {
			return types.NewInt(2 * types.ToInt(args[0])), nil
		})
	}))
	require.Equal(t, []string{"twice"}, r.Names())

	fn, ok := r.Lookup("twice")
	require.True(t, ok)
	require.Equal(t, "twice", fn.Name())

	got, err := eval(t, r, "twice(21)")
	require.NoError(t, err)
	require.Equal(t, int64(42), got.AsInt())

	names := NewRegistry().Names()
	require.Contains(t, names, "sin")
	require.Contains(t, names, "if")
	require.True(t, strings.Compare(names[0], names[len(names)-1]) < 0)
}
