package stdlib

import (
	"log"
	"os"
	"time"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerSys registers env, now and print.
func registerSys(r *Registry) {
	r.Register("env", 1, 2, sysEnv)
	r.Register("now", 0, 0, sysNow)
	r.Register("print", 1, 1, sysPrint)
}

// sysEnv returns env(name [, default]). An unset variable without a default
// is an illegal parameter.
func sysEnv(args []types.Value) (types.Value, error) {
	name, err := stringArg("env", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	if val, ok := os.LookupEnv(name); ok {
		return types.NewString(val), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return types.Null, types.NewIllegalParameterError("env", 1, args[0])
}

// sysNow returns the current time in seconds since the Unix epoch.
func sysNow(args []types.Value) (types.Value, error) {
	now := time.Now()
	return types.NewDouble(float64(now.UnixNano()) / 1e9), nil
}

// sysPrint logs its argument and returns it unchanged.
func sysPrint(args []types.Value) (types.Value, error) {
	log.Printf("[print] %s", args[0].String())
	return args[0], nil
}
