// Package certify waits for asynchronous hub tasks and approves collection
// versions into one or more repositories.
//
// The root package exposes the Service façade that wires the hub REST
// client, the task waiter, the approval orchestrator and the collection
// helpers:
//
//	srv, _ := certify.New(certify.WithConfig(cfg))
//	approval, _ := srv.Approve(ctx, version, []string{"published", "community"})
//	for _, outcome := range approval.Outcomes {
//		fmt.Println(outcome.Destination, outcome.Success, outcome.Message)
//	}
//
// Every destination is reported as its own outcome; a failing destination
// never stops the others.
package certify
