/*
Package client implements the RPC clients for the sgc server.

Two services are exposed: the identity service (register and login) and
the study group service. A typical session logs in through an
IAuthService, binds the returned credential to an IGroupService and then
issues group operations; every response payload comes back demultiplexed
into console-destined and file-destined lines (see rpc/common).

Failure responses carry their return code and are recoverable; transport
failures wrap transport.ErrServerDisconnect and are fatal to the session.
*/
package client
