// Package messages holds the message catalog used to render calculator
// errors into human-readable text.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	InvalidSyntax               = "InvalidSyntax"
	InvalidSyntaxAtIndex        = "InvalidSyntaxAtIndex"
	InvalidSyntaxNotFullyParsed = "InvalidSyntaxNotFullyParsed"
	UnexpectedCharacter         = "UnexpectedCharacter"
	UnterminatedString          = "UnterminatedString"
	InvalidNumber               = "InvalidNumber"
	EmptyExpression             = "EmptyExpression"
	ExpressionTooComplex        = "ExpressionTooComplex"

	FunctionNotExists   = "FunctionNotExists"
	IdentifierNotExists = "IdentifierNotExists"

	ArithmeticNotNumberError        = "ArithmeticNotNumberError"
	ArithmeticNotIntegerNumberError = "ArithmeticNotIntegerNumberError"
	ArithmeticNotCompatibleOperands = "ArithmeticNotCompatibleOperands"
	ArithmeticDivisionByZero        = "ArithmeticDivisionByZero"
	ComparisonNotCompatibleOperands = "ComparisonNotCompatibleOperands"

	WrongNumberOfParameters1 = "WrongNumberOfParameters1"
	WrongNumberOfParameters2 = "WrongNumberOfParameters2"
	IllegalParameter         = "IllegalParameter"
)

var english = map[string]string{
	InvalidSyntax:               "Invalid syntax error",
	InvalidSyntaxAtIndex:        "Invalid syntax at index %[1]d",
	InvalidSyntaxNotFullyParsed: "Invalid syntax error. The expression is not fully parsed.",
	UnexpectedCharacter:         "Unexpected character \"%[1]s\" at index %[2]d",
	UnterminatedString:          "Unterminated string starting at index %[1]d",
	InvalidNumber:               "Invalid number \"%[1]s\" at index %[2]d",
	EmptyExpression:             "empty expression",
	ExpressionTooComplex:        "The expression is too complex. The maximum nesting depth is %[1]d",

	FunctionNotExists:   "The function \"%[1]s\" does not exist",
	IdentifierNotExists: "The identifier \"%[1]s\" does not exist",

	ArithmeticNotNumberError:        "Arithmetic operations cannot be done on the operand \"%[1]s\" since it's not a number",
	ArithmeticNotIntegerNumberError: "Arithmetic operations cannot be done on the operand \"%[1]s\" since it's not an integer number",
	ArithmeticNotCompatibleOperands: "The two operands \"%[1]s\" and \"%[2]s\" have different types",
	ArithmeticDivisionByZero:        "Division by zero: \"%[1]s\" %[2]s \"%[3]s\"",
	ComparisonNotCompatibleOperands: "The operands \"%[1]s\" and \"%[2]s\" cannot be compared",

	WrongNumberOfParameters1: "Function \"%[1]s\" has wrong number of parameters",
	WrongNumberOfParameters2: "Function \"%[1]s\" has wrong number of parameters. \"%[2]d\" parameters expected",
	IllegalParameter:         "Parameter \"%[1]d\" with value \"%[2]s\" for function \"%[3]s\" is invalid",
}

var swedish = map[string]string{
	InvalidSyntax:               "Ogiltig syntax",
	InvalidSyntaxAtIndex:        "Ogiltig syntax vid index %[1]d",
	InvalidSyntaxNotFullyParsed: "Ogiltig syntax. Uttrycket är inte fullständigt tolkat.",
	UnexpectedCharacter:         "Oväntat tecken \"%[1]s\" vid index %[2]d",
	UnterminatedString:          "Oavslutad sträng som börjar vid index %[1]d",
	InvalidNumber:               "Ogiltigt tal \"%[1]s\" vid index %[2]d",
	EmptyExpression:             "tomt uttryck",
	ExpressionTooComplex:        "Uttrycket är för komplext. Högsta tillåtna nästlingsdjup är %[1]d",

	FunctionNotExists:   "Funktionen \"%[1]s\" finns inte",
	IdentifierNotExists: "Identifieraren \"%[1]s\" finns inte",

	ArithmeticNotNumberError:        "Aritmetiska operationer kan inte göras på operanden \"%[1]s\" eftersom den inte är ett tal",
	ArithmeticNotIntegerNumberError: "Aritmetiska operationer kan inte göras på operanden \"%[1]s\" eftersom den inte är ett heltal",
	ArithmeticNotCompatibleOperands: "Operanderna \"%[1]s\" och \"%[2]s\" har olika typer",
	ArithmeticDivisionByZero:        "Division med noll: \"%[1]s\" %[2]s \"%[3]s\"",
	ComparisonNotCompatibleOperands: "Operanderna \"%[1]s\" och \"%[2]s\" kan inte jämföras",

	WrongNumberOfParameters1: "Funktionen \"%[1]s\" har fel antal parametrar",
	WrongNumberOfParameters2: "Funktionen \"%[1]s\" har fel antal parametrar. \"%[2]d\" parametrar förväntas",
	IllegalParameter:         "Parameter \"%[1]d\" med värdet \"%[2]s\" för funktionen \"%[3]s\" är ogiltig",
}

var (
	cat       = newCatalog()
	supported = []language.Tag{language.English, language.Swedish}
	matcher   = language.NewMatcher(supported)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range map[language.Tag]map[string]string{
		language.English: english,
		language.Swedish: swedish,
	} {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer returns a printer that renders catalog messages and localizes
// numbers for the given language.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

var defaultPrinter = Printer(language.English)

// Format renders the message template named by key in English, substituting
// args positionally. Unknown keys are returned unchanged.
func Format(key string, args ...interface{}) string {
	if _, ok := english[key]; !ok {
		return key
	}
	return defaultPrinter.Sprintf(key, args...)
}

// FormatIn renders the message template named by key for the closest
// language the catalog has translations for.
func FormatIn(tag language.Tag, key string, args ...interface{}) string {
	if _, ok := english[key]; !ok {
		return key
	}
	_, i, _ := matcher.Match(tag)
	return Printer(supported[i]).Sprintf(key, args...)
}

// Keys returns every message key known to the catalog.
func Keys() []string {
	keys := make([]string, 0, len(english))
	for k := range english {
		keys = append(keys, k)
	}
	return keys
}
