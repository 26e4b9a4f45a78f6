// Package client consumes the catalog's HTTP contract. It issues validated
// requests, caches results by request key with in-flight deduplication, and
// carries the presentation-side state the catalog UI needs: the favorite
// equation set and the staged reveal of simulation logs.
//
// Every response body is validated against the shape the contract declares;
// a mismatch surfaces as an error wrapping contract.ErrContractMismatch
// rather than being passed along silently.
package client
