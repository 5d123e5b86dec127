// Package client is the transport underneath nethttp. It executes one
// request at a time and reports what happens as a sequence of events.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(10, 5),
//	)
//
// # Exchanges
//
// [Client.Exchange] returns an [iter.Seq2] over [Event] values. The
// request is only sent once the sequence is ranged over, and breaking
// out of the loop aborts it:
//
//	for ev, err := range c.Exchange(ctx, http.MethodGet, u, client.Options{}) {
//		if err != nil {
//			return err
//		}
//		if resp, ok := ev.(client.ResponseReceived); ok {
//			fmt.Println(string(resp.Body))
//		}
//	}
//
// A response outside the 2xx range ends the sequence with an
// [UnexpectedStatusError] unless the client was built with
// [WithAnyStatus].
package client
