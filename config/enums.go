package config

//go:generate go tool go-enum --marshal --names

// Kinds of build output.
// ENUM(selectors, stylesheet)
type OutputFormat int
