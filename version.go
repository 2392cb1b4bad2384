package zr

// Version is the interpreter release version reported by `zr version`.
const Version = "0.3.0"

// BuildDate may be overridden at link time with -ldflags.
var BuildDate = "dev"
