package domain

import "errors"

var (
	// ErrNotFound indicates a mutation or query referenced an absent
	// node, connection, or stored record.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation indicates an operation that would break a
	// graph invariant: removing the start node, adding a second one,
	// or loading a document with zero or multiple start nodes.
	ErrInvariantViolation = errors.New("graph invariant violation")

	// ErrSchemaMismatch indicates a payload field that is not valid
	// for the node's kind.
	ErrSchemaMismatch = errors.New("payload does not match node kind")

	// ErrSelfLoop indicates a rejected connection from a node to itself.
	ErrSelfLoop = errors.New("connection to self")

	// ErrDuplicateEdge indicates the ordered node pair is already
	// connected.
	ErrDuplicateEdge = errors.New("duplicate connection")

	// ErrMalformedDocument indicates a flow document that is
	// structurally invalid and cannot be loaded.
	ErrMalformedDocument = errors.New("malformed flow document")
)
