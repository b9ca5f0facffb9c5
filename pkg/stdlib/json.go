package stdlib

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerJSON registers the JSON functions. Only scalars cross the
// boundary since the calculator has no list or map values.
func registerJSON(r *Registry) {
	r.Register("json_encode", 1, 1, jsonEncode)
	r.Register("json_decode", 1, 1, jsonDecode)
	r.Register("json_get", 2, 2, jsonGet)
}

func jsonEncode(args []types.Value) (types.Value, error) {
	b, err := args[0].MarshalJSON()
	if err != nil {
		return types.Null, types.NewIllegalParameterError("json_encode", 1, args[0])
	}
	return types.NewString(string(b)), nil
}

func jsonDecode(args []types.Value) (types.Value, error) {
	s, err := oneString("json_decode", args)
	if err != nil {
		return types.Null, err
	}
	raw, ok := decodeJSON(s)
	if !ok {
		return types.Null, types.NewIllegalParameterError("json_decode", 1, args[0])
	}
	v, err := types.FromGo(raw)
	if err != nil {
		return types.Null, types.NewIllegalParameterError("json_decode", 1, args[0])
	}
	return v, nil
}

// jsonGet returns the scalar at a dotted path such as "order.total" or
// "items.0.price".
func jsonGet(args []types.Value) (types.Value, error) {
	doc, err := stringArg("json_get", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	path, err := stringArg("json_get", 2, args[1])
	if err != nil {
		return types.Null, err
	}

	cur, ok := decodeJSON(doc)
	if !ok {
		return types.Null, types.NewIllegalParameterError("json_get", 1, args[0])
	}
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			cur, ok = node[key]
		case []interface{}:
			i, err := strconv.Atoi(key)
			ok = err == nil && i >= 0 && i < len(node)
			if ok {
				cur = node[i]
			}
		default:
			ok = false
		}
		if !ok {
			return types.Null, types.NewIllegalParameterError("json_get", 2, args[1])
		}
	}

	v, err := types.FromGo(cur)
	if err != nil {
		return types.Null, types.NewIllegalParameterError("json_get", 2, args[1])
	}
	return v, nil
}

// decodeJSON decodes s keeping integers distinct from doubles.
func decodeJSON(s string) (interface{}, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return raw, true
}
