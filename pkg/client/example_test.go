package client_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/invoiced/invoiced-go/pkg/client"
)

// Example demonstrates basic usage of the Invoiced client.
func Example() {
	c, err := client.New(os.Getenv("INVOICED_API_KEY"),
		client.WithSandbox(true),
		client.WithTimeout(30*time.Second),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// List the three most recent invoices
	resp, err := c.Request(ctx, "GET", "/invoices", client.Params{"per_page": 3})
	if err != nil {
		log.Fatal(err)
	}

	var invoices []struct {
		ID     int64  `json:"id"`
		Number string `json:"number"`
	}
	if err := resp.Decode(&invoices); err != nil {
		log.Fatal(err)
	}
	for _, inv := range invoices {
		fmt.Printf("%d: %s\n", inv.ID, inv.Number)
	}
}

// ExampleClient_errorHandling demonstrates error handling patterns.
func ExampleClient_errorHandling() {
	c, _ := client.New("API_KEY")

	ctx := context.Background()

	// Safe to resend with the same key if the outcome is unknown
	_, err := c.Post(ctx, "/customers", client.Params{"name": "Nancy"},
		client.WithIdempotencyKey(uuid.NewString()),
	)
	if err != nil {
		switch {
		case client.IsAuthenticationError(err):
			fmt.Println("Authentication failed - check your API key")
		case client.IsRateLimitError(err):
			fmt.Println("Rate limited - wait before retrying")
		case client.IsInvalidRequest(err):
			fmt.Printf("Invalid request: %v\n", err)
		case client.IsConnectionError(err):
			fmt.Println("Could not reach Invoiced")
		default:
			fmt.Printf("API error: %v\n", err)
		}
	}
}

// ExampleClient_GenerateSignInToken demonstrates customer portal sign-in.
func ExampleClient_GenerateSignInToken() {
	c, err := client.New("API_KEY", client.WithSSOKey(os.Getenv("INVOICED_SSO_KEY")))
	if err != nil {
		log.Fatal(err)
	}

	token, err := c.GenerateSignInToken(1234, time.Hour)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(client.SignInURL("https://acme.invoiced.com", token))
}
