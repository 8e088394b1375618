package eventloop

import "errors"

var errAlreadyRunning = errors.New("event loop is already running")
