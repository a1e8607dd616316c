package redditauth_test

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jeremyhahn/go-reddit-auth/pkg/redditauth"
)

func ExampleNewScriptFlow() {
	client, err := redditauth.NewClient(redditauth.ClientConfig{
		UserAgent: "golang:example:v1.0 (by /u/example)",
	})
	if err != nil {
		log.Fatal(err)
	}

	flow, err := redditauth.NewScriptFlow(redditauth.ScriptConfig{
		Credentials: redditauth.ScriptCredentials{
			Username:     "example",
			Password:     "hunter2",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		},
		Transport: client,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	token, err := flow.FetchToken(ctx)
	if err != nil {
		log.Fatal(err)
	}

	bearer, err := redditauth.NewTokenBearer(flow, redditauth.NewMemoryTokenStore(), token)
	if err != nil {
		log.Fatal(err)
	}

	header, err := bearer.GetAuthorizationHeader(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(header)
}

func ExampleInstalledAppFlow_ProvideAuthorizeURL() {
	client, err := redditauth.NewClient(redditauth.ClientConfig{
		UserAgent: "golang:example:v1.0 (by /u/example)",
	})
	if err != nil {
		log.Fatal(err)
	}

	flow, err := redditauth.NewInstalledAppFlow(redditauth.InstalledAppConfig{
		Credentials: redditauth.ApplicationCredentials{
			ClientID:    "client-id",
			RedirectURL: "http://localhost:8080/callback",
		},
		Scopes:    []string{"identity", "read"},
		Transport: client,
	})
	if err != nil {
		log.Fatal(err)
	}

	authorizeURL, err := flow.ProvideAuthorizeURL()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("open in a browser:", authorizeURL)

	// After the user approves, the browser is redirected to the redirect
	// url; hand the full callback url back to the flow.
	token, err := flow.ExchangeCallback(context.Background(),
		"http://localhost:8080/callback?state=...&code=...")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token.Scopes)
}

func ExampleNewBearerTransport() {
	client, err := redditauth.NewClient(redditauth.ClientConfig{
		UserAgent: "golang:example:v1.0 (by /u/example)",
	})
	if err != nil {
		log.Fatal(err)
	}

	flow, err := redditauth.NewUserlessFlow(redditauth.UserlessConfig{
		Credentials: redditauth.UserlessCredentials{ClientID: "client-id"},
		Transport:   client,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	token, err := flow.FetchToken(ctx)
	if err != nil {
		log.Fatal(err)
	}

	bearer, err := redditauth.NewTokenBearer(flow, redditauth.NewMemoryTokenStore(), token)
	if err != nil {
		log.Fatal(err)
	}

	// Every request through this client carries a fresh bearer token.
	api := &http.Client{Transport: redditauth.NewBearerTransport(bearer, nil)}
	resp, err := api.Get("https://oauth.reddit.com/api/v1/me")
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()
}
