package stdlib

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerText registers the string functions.
func registerText(r *Registry) {
	r.Register("upper", 1, 1, textUpper)
	r.Register("lower", 1, 1, textLower)
	r.Register("trim", 1, 1, textTrim)
	r.Register("substring", 2, 3, textSubstring)
	r.Register("contains", 2, 2, textContains)
	r.Register("index", 2, 2, textIndex)
	r.Register("replace", 3, 3, textReplace)
	r.Register("match", 2, 2, textMatch)
	r.Register("url_encode", 1, 1, textURLEncode)
	r.Register("url_decode", 1, 1, textURLDecode)
}

// oneString validates a single string argument.
func oneString(name string, args []types.Value) (string, error) {
	return stringArg(name, 1, args[0])
}

func textUpper(args []types.Value) (types.Value, error) {
	s, err := oneString("upper", args)
	if err != nil {
		return types.Null, err
	}
	return types.NewString(strings.ToUpper(s)), nil
}

func textLower(args []types.Value) (types.Value, error) {
	s, err := oneString("lower", args)
	if err != nil {
		return types.Null, err
	}
	return types.NewString(strings.ToLower(s)), nil
}

func textTrim(args []types.Value) (types.Value, error) {
	s, err := oneString("trim", args)
	if err != nil {
		return types.Null, err
	}
	return types.NewString(strings.TrimSpace(s)), nil
}

// textSubstring returns the characters from start up to, but not including,
// end. Indexes are clamped to the string.
func textSubstring(args []types.Value) (types.Value, error) {
	source, err := stringArg("substring", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	runes := []rune(source)

	if !types.IsIntegerNumber(args[1]) {
		return types.Null, types.NewIllegalParameterError("substring", 2, args[1])
	}
	start := args[1].AsInt()
	end := int64(len(runes))
	if len(args) == 3 {
		if !types.IsIntegerNumber(args[2]) {
			return types.Null, types.NewIllegalParameterError("substring", 3, args[2])
		}
		end = args[2].AsInt()
	}

	if start < 0 {
		start = 0
	}
	if end > int64(len(runes)) {
		end = int64(len(runes))
	}
	if start >= end {
		return types.NewString(""), nil
	}
	return types.NewString(string(runes[start:end])), nil
}

// twoStrings validates a pair of string arguments.
func twoStrings(name string, args []types.Value) (string, string, error) {
	a, err := stringArg(name, 1, args[0])
	if err != nil {
		return "", "", err
	}
	b, err := stringArg(name, 2, args[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func textContains(args []types.Value) (types.Value, error) {
	source, substr, err := twoStrings("contains", args)
	if err != nil {
		return types.Null, err
	}
	return types.NewBool(strings.Contains(source, substr)), nil
}

// textIndex returns the character index of the first occurrence of substr,
// or -1.
func textIndex(args []types.Value) (types.Value, error) {
	source, substr, err := twoStrings("index", args)
	if err != nil {
		return types.Null, err
	}
	i := strings.Index(source, substr)
	if i < 0 {
		return types.NewInt(-1), nil
	}
	return types.NewInt(int64(len([]rune(source[:i])))), nil
}

func textReplace(args []types.Value) (types.Value, error) {
	var parts [3]string
	for i := range parts {
		s, err := stringArg("replace", i+1, args[i])
		if err != nil {
			return types.Null, err
		}
		parts[i] = s
	}
	return types.NewString(strings.ReplaceAll(parts[0], parts[1], parts[2])), nil
}

// textMatch reports whether the whole source matches the regular expression.
func textMatch(args []types.Value) (types.Value, error) {
	source, pattern, err := twoStrings("match", args)
	if err != nil {
		return types.Null, err
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return types.Null, types.NewIllegalParameterError("match", 2, args[1])
	}
	return types.NewBool(re.MatchString(source)), nil
}

func textURLEncode(args []types.Value) (types.Value, error) {
	s, err := oneString("url_encode", args)
	if err != nil {
		return types.Null, err
	}
	return types.NewString(url.QueryEscape(s)), nil
}

func textURLDecode(args []types.Value) (types.Value, error) {
	s, err := oneString("url_decode", args)
	if err != nil {
		return types.Null, err
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return types.Null, types.NewIllegalParameterError("url_decode", 1, args[0])
	}
	return types.NewString(decoded), nil
}
