package hardware

import (
	"errors"
	"time"
)

const (
	CMD_ALLSTOP      = 0x0000
	CMD_SET_THROTTLE = 0x0010
	CMD_NEUTRAL_ALL  = 0x0020
	CMD_ARM          = 0x0030
	CMD_PING         = 0x0090
	CMD_VERSION      = 0x03E0

	CMD_MAX_RETRIES = 5
	CMD_TIMEOUT     = 5 * time.Millisecond
)

var (
	ERR_MAX_RETRIES = errors.New("CMD_MAX_RETRIES reached while attempting to send")
)
