// Public domain.

package psprog

import (
	"fmt"
	"io"
	"runtime"

	"github.com/soniakeys/pointspec/internal/psconf"
)

type sourceSeq struct {
	s   *psconf.Source
	rch chan string
}

// eachSource runs f on every source in c and writes results to w in file
// order.
//
// f runs concurrently on up to GOMAXPROCS workers.  Each call must build
// its own model; models are not safe for concurrent use.
func eachSource(w io.Writer, c *psconf.File, f func(*psconf.Source) string) {
	maxWorkers := runtime.GOMAXPROCS(0)
	if len(c.Sources) < maxWorkers {
		maxWorkers = len(c.Sources)
	}
	// prCh keeps result channels in submission order.  it is buffered so
	// a fast worker can drop off a result without waiting for workers
	// ahead of it.
	prCh := make(chan chan string, maxWorkers*2)
	srcCh := make(chan *sourceSeq)

	// dispatcher.  each source gets a return channel that works like a
	// ticket for picking up the result.
	go func() {
		for i := range c.Sources {
			rch := make(chan string, 1)
			srcCh <- &sourceSeq{&c.Sources[i], rch}
			prCh <- rch
		}
		close(srcCh)
		close(prCh)
	}()

	for n := 0; n < maxWorkers; n++ {
		go func() {
			for s := range srcCh {
				s.rch <- f(s.s) // buffered.  drop off result and continue
			}
		}()
	}

	for rch := range prCh {
		fmt.Fprintln(w, <-rch)
	}
}
