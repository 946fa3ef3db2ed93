package common

// UnknownStr is the String() value of out-of-range enum-like constants.
const UnknownStr = "unknown"
