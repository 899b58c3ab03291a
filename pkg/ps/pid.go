package ps

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPID is returned for pids outside the range the OS can address.
var ErrInvalidPID = errors.New("invalid pid")

// PID32 converts pid to the width used by the process APIs. Values that
// would wrap around to another process are rejected.
func PID32(pid int) (int32, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return int32(pid), nil
}
