package types

// ContextUserKey is where the request middleware stores the resolved user.
const ContextUserKey = "user"
