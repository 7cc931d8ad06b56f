// Package opendata talks HTTP to the DWD open-data server.
//
// The [Client] provides two capabilities: directory listings parsed
// from the server's autoindex pages, and single-file downloads. Every
// request runs through a circuit breaker and exponential-backoff
// retries, and concurrent downloads of the same URL are coalesced into
// one request.
//
// Responses are cached with short TTLs so repeated index builds and
// re-collected timestamps do not hammer the server: directory pages for
// [DefaultListingTTL], file payloads for [DefaultPayloadTTL]. The
// default caches live in memory; swap in the diskcache package for a
// cache that survives restarts.
package opendata
