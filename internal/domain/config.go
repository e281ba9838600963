package domain

// KeyPrefix is the namespace for every key the service writes to storage.
const KeyPrefix = "resumerank:"
