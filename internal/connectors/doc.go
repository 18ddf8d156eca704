// Package connectors holds clients for remote services. The only
// connector today is google, which wraps the People API.
package connectors
