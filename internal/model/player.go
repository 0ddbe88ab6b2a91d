package model

// PlayerID identifies the creator of a game. On the HTTP surface it is the
// caller-supplied identity; on the ledger surface it is the caller's address.
type PlayerID string
