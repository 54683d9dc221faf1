package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	routes := []struct{ method, path string }{
		{"POST", "/api/trades"},
		{"PUT", "/api/trades/t1/accept"},
		{"PUT", "/api/trades/t1/decline"},
		{"PUT", "/api/trades/t1/cancel"},
		{"PUT", "/api/trades/t1/mark-mailed"},
		{"PUT", "/api/trades/t1/mark-received"},
		{"PUT", "/api/trades/t1/relist"},
		{"GET", "/api/users/u1/trades"},
		{"POST", "/api/users/u1/books"},
		{"PUT", "/api/users/u1"},
		{"PUT", "/api/books/b1"},
		{"DELETE", "/api/books/b1"},
	}
	for _, r := range routes {
		resp, err := app.Test(jsonReq(r.method, r.path, "", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: status %d, want 401", r.method, r.path, resp.StatusCode)
		}
	}

	// A garbage token is rejected, not treated as anonymous.
	resp, err := app.Test(jsonReq("POST", "/api/trades", "not.a.jwt", fiber.Map{}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", resp.StatusCode)
	}
}

func TestOptionalUserKeepsFeedPublic(t *testing.T) {
	app, db := newTestApp(t)
	_, aliceID := signup(t, app, "alice")
	seedBook(t, db, aliceID, "Dune")

	// No token: the feed still answers.
	resp, err := app.Test(jsonReq("GET", "/api/books", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous feed: status %d", resp.StatusCode)
	}
	var feed []map[string]any
	decode(t, resp, &feed)
	if len(feed) != 1 {
		t.Fatalf("feed length = %d", len(feed))
	}

	// A bad token on an optional route degrades to anonymous.
	resp, err = app.Test(jsonReq("GET", "/api/books", "expired.or.garbage", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("feed with bad token: status %d", resp.StatusCode)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(jsonReq("GET", "/api/nope", "", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route: status %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["error"] == "" {
		t.Fatal("404 body is not the JSON error shape")
	}
}
