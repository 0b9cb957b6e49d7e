package httpserver

import "time"

// ShutdownTimeout bounds graceful shutdown: in-flight requests, the
// archive queue, and the job store close all share this budget.
var ShutdownTimeout = 10 * time.Second
