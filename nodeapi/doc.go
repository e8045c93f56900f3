// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package nodeapi is a client for the node's HTTP API.

Every call is a form-encoded POST to {base}/nxt carrying a requestType:

	client := nodeapi.NewClient("http://localhost:27876", 10*time.Second)
	ev, err := client.EvaluateExpression(ctx, "A & B", false)

A response carrying errorCode is returned as *Error. Transport failures,
non-2xx statuses and undecodable bodies wrap ErrNodeFailed.
*/
package nodeapi
