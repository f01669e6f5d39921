/*
Package taskboardsdk provides a client SDK for the taskboard API.

# SDKClient vs Session

  - SDKClient: public endpoints (health) and authentication
  - Session: everything behind a bearer token

	client := taskboardsdk.NewSDKClient("http://localhost:8080")

	health, err := client.GetLiveness(ctx)

	session, err := client.Authenticate(ctx, "admin@example.com", "secret")

	me, err := session.Me(ctx)
	page, err := session.ListProjects(ctx, taskboardsdk.PageQuery{Size: 20})

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status and the
{name, status, error} body:

	var apiErr *taskboardsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		// ...
	}

Sessions hold a plain access token. There is no refresh: authenticate again
once the token expires.
*/
package taskboardsdk
