package stdlib

import (
	"math"
	"time"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerTime registers format_time and parse_time.
func registerTime(r *Registry) {
	r.Register("format_time", 1, 2, timeFormat)
	r.Register("parse_time", 1, 1, timeParse)
}

// timeFormat renders format_time(seconds [, timezone]) as RFC 3339.
func timeFormat(args []types.Value) (types.Value, error) {
	timestamp, err := numberArg("format_time", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	if math.IsNaN(timestamp) || math.IsInf(timestamp, 0) {
		return types.Null, types.NewIllegalParameterError("format_time", 1, args[0])
	}

	tz := "UTC"
	if len(args) == 2 {
		if tz, err = stringArg("format_time", 2, args[1]); err != nil {
			return types.Null, err
		}
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return types.Null, types.NewIllegalParameterError("format_time", 2, args[1])
	}

	sec, frac := math.Modf(timestamp)
	t := time.Unix(int64(sec), int64(frac*1e9)).In(loc)
	return types.NewString(t.Format(time.RFC3339Nano)), nil
}

// timeParse converts an RFC 3339 timestamp to seconds since the epoch.
func timeParse(args []types.Value) (types.Value, error) {
	input, err := stringArg("parse_time", 1, args[0])
	if err != nil {
		return types.Null, err
	}

	t, err := time.Parse(time.RFC3339Nano, input)
	if err != nil {
		return types.Null, types.NewIllegalParameterError("parse_time", 1, args[0])
	}
	return types.NewDouble(float64(t.Unix()) + float64(t.Nanosecond())/1e9), nil
}
