package stdlib

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerUUID registers uuid.
func registerUUID(r *Registry) {
	r.Register("uuid", 0, 0, uuidGenerate)
}

// uuidGenerate returns a random (version 4) UUID string.
func uuidGenerate(args []types.Value) (types.Value, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return types.Null, fmt.Errorf("uuid: %w", err)
	}
	return types.NewString(id.String()), nil
}
