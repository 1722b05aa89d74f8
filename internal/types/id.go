package types

// ID identifies trips and quotes across modules.
type ID string
