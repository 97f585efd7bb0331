// Command counter renders a ticking counter to the terminal for two seconds.
package main

import (
	"os"
	"time"

	"src.twig.sh/pkg/twig"
	"src.twig.sh/pkg/twig/termhost"
)

var rt *twig.Runtime

func Counter(c *twig.Context) *twig.VNode {
	count := twig.State(c, 0)
	twig.Effect(c, func() twig.Cleanup {
		ticker := time.NewTicker(100 * time.Millisecond)
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-ticker.C:
					rt.Post(func() { count.Swap(func(n int) int { return n + 1 }) })
				case <-done:
					return
				}
			}
		}()
		return func() {
			ticker.Stop()
			close(done)
		}
	}, twig.Deps{})
	return twig.Fragment(
		twig.H("line", twig.P("bold", true), "twig counter"),
		twig.H("line", nil,
			"ticks: ",
			twig.H("span", twig.P("fg", "green"), count.Get()),
		),
	)
}

func main() {
	host := termhost.New(os.Stdout)
	rt = twig.New(host)
	rt.Mount(twig.H(twig.Comp(Counter), nil), host.Root())
	host.Flush()

	stop := make(chan struct{})
	go func() {
		time.Sleep(2 * time.Second)
		close(stop)
	}()
	for {
		select {
		case <-stop:
			return
		default:
		}
		if rt.Turn() {
			host.Flush()
		} else {
			time.Sleep(10 * time.Millisecond)
		}
	}
}
