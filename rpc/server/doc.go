/*
Package server implements the sgc RPC server.

The server owns the authoritative study group store and the identity
services and exposes them over a pluggable transport. Incoming requests
are deserialized, routed by service id to the matching adapter (groups
or auth) and answered with a serialized response. Requests that cannot
be deserialized are dropped without a response.

Every group operation is authorized: the adapter resolves the request's
credential to an identity before touching the store, and ownership
checks happen inside the store's own critical sections.
*/
package server
