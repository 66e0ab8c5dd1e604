package worker

import "errors"

// ErrEnqueueFailed is returned when the queue refuses a matchday's job,
// typically because it is full or already closed.
var ErrEnqueueFailed = errors.New("worker: fixture job could not be enqueued")
