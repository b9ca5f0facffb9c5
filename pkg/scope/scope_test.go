package scope

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

func TestGetSet(t *testing.T) {
	s := NewScope()
	require.NoError(t, s.Set("x", types.NewInt(1)))

	v, err := s.Get("x")
	require.NoError(t, err)
	require.Equal(t, int64(1), v.AsInt())

	_, err = s.Get("missing")
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	require.Equal(t, types.KindIdentifierNotFound, kind)
}

func TestChildScope(t *testing.T) {
	parent := NewScope()
	require.NoError(t, parent.Set("x", types.NewInt(1)))

	child := parent.NewChildScope()
	require.True(t, child.Exists("x"))

	// Set updates the scope that already holds the variable.
	require.NoError(t, child.Set("x", types.NewInt(2)))
	v, _ := parent.Get("x")
	require.Equal(t, int64(2), v.AsInt())

	// SetLocal shadows it instead.
	require.NoError(t, child.SetLocal("x", types.NewInt(3)))
	v, _ = parent.Get("x")
	require.Equal(t, int64(2), v.AsInt())
	v, _ = child.Get("x")
	require.Equal(t, int64(3), v.AsInt())

	require.NoError(t, child.Set("y", types.NewString("local")))
	require.False(t, parent.Exists("y"))
	require.Equal(t, []string{"x", "y"}, child.Names())
	require.Equal(t, int64(3), child.Snapshot()["x"].AsInt())
}

func TestConstants(t *testing.T) {
	s := NewScope()
	s.DefineConstants()

	v, err := s.Get("pi")
	require.NoError(t, err)
	require.Equal(t, math.Pi, v.AsDouble())
	require.True(t, s.IsConstant("true"))

	err = s.Set("true", types.NewInt(0))
	require.True(t, errors.Is(err, ErrReadOnly))

	_, err = s.Delete("e")
	require.True(t, errors.Is(err, ErrReadOnly))

	// A child can still shadow a constant locally.
	child := s.NewChildScope()
	require.NoError(t, child.SetLocal("e", types.NewInt(3)))
}

func TestInvalidName(t *testing.T) {
	s := NewScope()
	for _, name := range []string{"", "1x", "a-b", "a b", "é"} {
		err := s.Set(name, types.NewInt(1))
		require.Truef(t, errors.Is(err, ErrInvalidName), "name %q", name)
	}
	require.True(t, ValidName("_a1"))
}

func TestDelete(t *testing.T) {
	s := NewScope()
	require.NoError(t, s.Set("x", types.NewInt(1)))

	removed, err := s.Delete("x")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Delete("x")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestLookupIsLive(t *testing.T) {
	s := NewScope()
	require.NoError(t, s.Set("x", types.NewInt(1)))

	var vars expr.Variables = s
	holder, ok := vars.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "x", holder.Name())

	require.NoError(t, s.Set("x", types.NewInt(5)))
	require.Equal(t, int64(5), holder.Value().AsInt())

	_, _ = s.Delete("x")
	require.True(t, holder.Value().IsNull())

	_, ok = vars.Lookup("missing")
	require.False(t, ok)
}

func TestParseAgainstScope(t *testing.T) {
	s := NewScope()
	s.DefineConstants()
	require.NoError(t, s.Set("radius", types.NewDouble(2)))

	node, err := expr.ParseExpression("pi * radius * radius > 12 && true", s)
	require.NoError(t, err)

	v, err := expr.Evaluate(node, nil)
	require.NoError(t, err)
	require.True(t, v.AsBool())
}
