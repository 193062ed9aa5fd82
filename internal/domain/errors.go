package domain

import "errors"

var ErrServerRunning = errors.New("server already running")
