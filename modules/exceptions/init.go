package exceptions

import (
	"errors"
	"fmt"

	"github.com/getsentry/raven-go"
)

type ExceptionsModule struct {
	ErrorService *raven.Client `inject:""`
}

// Boot builds the module. An empty dsn gives a client that drops every packet.
func Boot(dsn string) (*ExceptionsModule, error) {
	client, err := raven.NewClient(dsn, nil)
	if err != nil {
		return nil, err
	}

	return &ExceptionsModule{ErrorService: client}, nil
}

// Capture sends err to sentry with the given tags.
func (di *ExceptionsModule) Capture(err error, tags map[string]string) {
	if di == nil || di.ErrorService == nil || err == nil {
		return
	}

	di.ErrorService.CaptureError(err, tags)
}

// Recover reports a panic in flight to sentry and lets it carry on.
func (di *ExceptionsModule) Recover() {

	var packet *raven.Packet

	rval := recover()
	switch err := rval.(type) {
	case nil:
		return
	case error:
		packet = raven.NewPacket(err.Error(), raven.NewException(err, raven.NewStacktrace(2, 3, nil)))
	default:
		rvalStr := fmt.Sprint(rval)
		packet = raven.NewPacket(rvalStr, raven.NewException(errors.New(rvalStr), raven.NewStacktrace(2, 3, nil)))
	}

	// Grab the error and send it to sentry
	if di != nil && di.ErrorService != nil {
		_, ch := di.ErrorService.Capture(packet, map[string]string{})
		if ch != nil {
			<-ch
		}
	}

	panic(rval)
}

// Close flushes queued packets.
func (di *ExceptionsModule) Close() {
	if di != nil && di.ErrorService != nil {
		di.ErrorService.Wait()
		di.ErrorService.Close()
	}
}
