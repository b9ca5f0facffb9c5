package messages

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	require.Equal(t, `The identifier "foo" does not exist`, Format(IdentifierNotExists, "foo"))
	require.Equal(t, `The function "bar" does not exist`, Format(FunctionNotExists, "bar"))
	require.Equal(t, "Invalid syntax error. The expression is not fully parsed.", Format(InvalidSyntaxNotFullyParsed))
	require.Equal(t, `Function "int" has wrong number of parameters. "1" parameters expected`,
		Format(WrongNumberOfParameters2, "int", 1))
	require.Equal(t, `Parameter "2" with value "grad" for function "sin" is invalid`,
		Format(IllegalParameter, 2, "grad", "sin"))
}

func TestFormatUnknownKey(t *testing.T) {
	require.Equal(t, "NoSuchMessage", Format("NoSuchMessage", 1, 2))
}

func TestFormatIn(t *testing.T) {
	require.Equal(t, "tomt uttryck", FormatIn(language.Swedish, EmptyExpression))
	require.Equal(t, "Ogiltig syntax vid index 4", FormatIn(language.Swedish, InvalidSyntaxAtIndex, 4))
	require.Equal(t, `Identifieraren "x" finns inte`, FormatIn(language.MustParse("sv-SE"), IdentifierNotExists, "x"))
	require.Equal(t, "empty expression", FormatIn(language.English, EmptyExpression))
}

func TestCatalogComplete(t *testing.T) {
	for _, key := range Keys() {
		_, ok := swedish[key]
		require.True(t, ok, "missing swedish translation for %s", key)
	}
}
