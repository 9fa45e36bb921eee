// Package apiclient is the JSON client for the upstream cafe API.
//
// Every request carries "Content-Type: application/json" and
// "Accept: application/json" before caller headers are applied, runs the
// registered interceptors in order, and exchanges cookies with the jar given
// through WithJar. Responses outside 2xx become *Error with the upstream
// message taken from the JSON "error" (or "message") field.
//
//	client, err := apiclient.New("https://api.example.com/api/",
//		apiclient.WithInterceptor(apiclient.Bearer(tokens.AccessTokenFromContext)),
//	)
//
//	var out struct{ AccessToken string `json:"access_token"` }
//	err = client.Post(ctx, "auth/login", payload, &out,
//		apiclient.WithJar(jar),
//		apiclient.WithHeader("X-Csrf-Token", csrf),
//	)
//	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Status == http.StatusUnauthorized {
//		// ...
//	}
//
// Jar is a name-keyed cookie jar whose contents can be snapshotted into a
// browser session between requests.
package apiclient
