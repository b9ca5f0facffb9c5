package stdlib

import (
	"encoding/base64"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerBase64 registers base64_encode and base64_decode.
func registerBase64(r *Registry) {
	r.Register("base64_encode", 1, 1, base64Encode)
	r.Register("base64_decode", 1, 1, base64Decode)
}

func base64Encode(args []types.Value) (types.Value, error) {
	return types.NewString(base64.StdEncoding.EncodeToString([]byte(types.ToString(args[0])))), nil
}

// base64Decode accepts both the standard and the URL-safe alphabet.
func base64Decode(args []types.Value) (types.Value, error) {
	input, err := oneString("base64_decode", args)
	if err != nil {
		return types.Null, err
	}

	decoded, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(input)
		if err != nil {
			return types.Null, types.NewIllegalParameterError("base64_decode", 1, args[0])
		}
	}
	return types.NewString(string(decoded)), nil
}
