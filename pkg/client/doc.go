// Package client provides a Go client for the Invoiced API.
//
// The client wraps the low-level request layer (pkg/api) and handles:
//   - HTTP Basic authentication with the API key
//   - Query string or JSON body encoding, chosen by HTTP method
//   - Idempotency keys for state-changing requests
//   - Type-safe error classification
//   - Sign-in tokens for the hosted customer portal
//
// # Basic Usage
//
//	c, err := client.New(os.Getenv("INVOICED_API_KEY"),
//	    client.WithSandbox(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Request(ctx, "GET", "/invoices", client.Params{"per_page": 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.StatusCode, resp.Body)
//
// # Error Handling
//
// Every failed call returns an *Error whose Kind tells what went wrong:
//
//	_, err := c.Post(ctx, "/invoices", params, client.WithIdempotencyKey(key))
//	if err != nil {
//	    switch {
//	    case client.IsAuthenticationError(err):
//	        // 401: bad API key
//	    case client.IsRateLimitError(err):
//	        // 429: slow down
//	    case client.IsInvalidRequest(err):
//	        // other 4xx: fix the request
//	    case client.IsConnectionError(err):
//	        // no response received
//	    default:
//	        // 5xx or malformed response
//	    }
//	}
//
// The status code decides the kind. An error response whose body is not
// valid JSON still yields the kind for its status, with a generic message.
//
// # Sign-in Tokens
//
// With an SSO key configured, GenerateSignInToken produces an HS256 JWT that
// signs a customer in to the customer portal:
//
//	c, _ := client.New(apiKey, client.WithSSOKey(ssoKey))
//	token, err := c.GenerateSignInToken(customerID, time.Hour)
package client
