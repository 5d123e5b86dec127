// Package nethttp issues HTTP calls described by a [Request] and reports
// their progress through optional [Callbacks].
//
// # Service
//
// A [Service] owns the transport, a default base URL, the header scopes
// and the subscription groups:
//
//	svc, err := nethttp.New(
//		nethttp.WithBaseURL("https://api.example.com"),
//		nethttp.WithClientOptions(client.WithTimeout(10*time.Second)),
//	)
//
// # Calls
//
// The verbs [Get], [Post], [Put], [Patch] and [Delete] build the URL,
// headers and query synchronously and return a [Subscription]. The call
// itself runs in the background:
//
//	sub, err := nethttp.Get(ctx, svc, &nethttp.Request{
//		Controller:  "users",
//		Routes:      []any{42},
//		QueryParams: nethttp.Params{{Key: "expand", Value: []string{"teams", "roles"}}},
//	}, &nethttp.Callbacks[User]{
//		OnReceivedBody: func(u User) { ... },
//		OnError:        func(err error) { ... },
//	})
//
// The callback body type must hold what the response type produces:
// string for [ResponseText], []byte for [ResponseArrayBuffer], [Blob]
// for [ResponseBlob], and any JSON decodable type for [ResponseJSON].
// A mismatch fails the verb with [ErrResponseTypeMismatch].
//
// # Headers
//
// Headers are merged per call from three layers, each overriding the
// keys of the one before: global headers, headers registered for the
// call's base URL, and the request's own headers.
//
// # Groups
//
// Calls issued with [WithGroup] can be cancelled together with
// [Service.ClearSubscriptions]. [Group] keys compare by name and
// [GroupOf] keys by pointer identity.
//
// # Configuration
//
// Package config builds the options of [New] from a file and NETHTTP_
// environment variables.
package nethttp
