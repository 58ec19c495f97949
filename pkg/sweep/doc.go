// Package sweep runs a probe over a list of items with a fixed number of
// workers.
//
// Workers are spawned one at a time with a configurable delay between launches,
// so fragile devices on the target network do not see a burst of traffic. Each
// worker opens its own probe handle once, then claims items from a shared
// atomic cursor until the list is exhausted:
//
//	res, err := sweep.Run(hosts, prober.Open, sweep.Options[string]{
//		MaxWorkers: 100,
//		SpawnDelay: 10 * time.Millisecond,
//		OnResult: func(host string, alive bool) {
//			if alive {
//				fmt.Println(host)
//			}
//		},
//	})
//
// OnResult and the write into Result.Statuses happen under one lock. The probe
// call itself does not. Run returns only after every worker has exited.
//
// A worker that fails to open its handle reports the error once through
// OnWorkerError and exits; the remaining workers drain the list. A sweep in
// which every worker fails leaves the affected items out of Statuses.
package sweep
