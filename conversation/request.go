package conversation

import (
	"context"
	"time"

	"chatui/config"
)

// Result is the settled outcome of a Request
type Result struct {
	RequestID string
	Reply     string
	Err       error
	Elapsed   time.Duration
}

// Request is one in-flight call to the chat server. It carries its own
// context so the call can be cancelled, though only program shutdown does so.
type Request struct {
	id      string
	message string
	client  Client
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func newRequest(id, message string, client Client) *Request {
	ctx, cancel := context.WithCancel(context.Background())
	return &Request{
		id:      id,
		message: message,
		client:  client,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (r *Request) ID() string {
	return r.id
}

func (r *Request) Message() string {
	return r.message
}

// Run performs the call and blocks until it settles. It touches no
// conversation state, so it may run off the UI event loop. Run must be
// called at most once.
func (r *Request) Run() Result {
	defer close(r.done)
	defer r.cancel()

	startTime := time.Now()
	config.Log.Debug().Str("request_id", r.id).Msg("request started")

	var reply string
	var err error
	if c, ok := r.client.(idClient); ok {
		reply, err = c.SendWithID(r.ctx, r.id, r.message)
	} else {
		reply, err = r.client.Send(r.ctx, r.message)
	}

	res := Result{
		RequestID: r.id,
		Reply:     reply,
		Err:       err,
		Elapsed:   time.Since(startTime),
	}

	if err != nil {
		config.Log.Warn().Str("request_id", r.id).Err(err).Dur("elapsed", res.Elapsed).Msg("request failed")
	} else {
		config.Log.Debug().Str("request_id", r.id).Dur("elapsed", res.Elapsed).Msg("request settled")
	}

	return res
}

// Cancel aborts the call if it is still running. Safe to call more than once.
func (r *Request) Cancel() {
	r.cancel()
}

// Done is closed once Run has returned
func (r *Request) Done() <-chan struct{} {
	return r.done
}
