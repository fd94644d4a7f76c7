// Package notion is a minimal client for the Notion REST API covering what
// workspace provisioning needs: identity, database creation and queries, page
// creation, archiving and block appends.
//
// Every call is a single attempt bounded by the client's request timeout.
// Service failures surface as *TransportError carrying the HTTP status and the
// service's error code and message; a rejected credential surfaces as
// *AuthError. Neither ever includes the credential or the raw response body.
package notion
