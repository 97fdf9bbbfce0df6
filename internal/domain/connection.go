package domain

// Connection is a directed edge between two nodes. From and To always
// reference existing node ids; the optional label is free text shown on
// the canvas (e.g. the DTMF digit that takes this branch).
type Connection struct {
	From  string
	To    string
	Label string
}

// edgeKey identifies a connection by its ordered endpoint pair. At most
// one connection exists per key.
type edgeKey struct {
	from string
	to   string
}
