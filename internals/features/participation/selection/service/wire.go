package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tuomas2/serviceform/internals/constants"
)

var (
	ErrInvalidKey      = errors.New("selection: invalid input data")
	ErrInvalidActivity = errors.New("selection: invalid activity input data")
	ErrInvalidChoice   = errors.New("selection: invalid choice input data")
	ErrInvalidQuestion = errors.New("selection: invalid question input data")
	ErrRadioMultchoice = errors.New("selection: invalid input data in radio button")
)

// srvKey is one parsed field name of the selection POST encoding:
// SRV_<TYPE>_<pk> or SRV_<TYPE>_EXTRA_<pk>.
type srvKey struct {
	Type  string
	Extra bool
	PK    int64
}

func isSrvKey(key string) bool {
	return strings.HasPrefix(key, constants.SrvPrefix+"_")
}

func parseSrvKey(key string) (srvKey, error) {
	parts := strings.Split(key, "_")
	var k srvKey
	switch len(parts) {
	case 3:
		k.Type = parts[1]
	case 4:
		if parts[2] != constants.SrvExtra {
			return k, ErrInvalidKey
		}
		k.Type = parts[1]
		k.Extra = true
	default:
		return k, ErrInvalidKey
	}
	pk, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return k, ErrInvalidKey
	}
	k.PK = pk
	return k, nil
}

func parseWireInt(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}
