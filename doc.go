// Package tasks implements a multi-user task tracker with credential-based
// authentication and per-user data isolation.
//
// Accounts and credentials:
//   - Users register with a unique email and a password that is stored only
//     as a bcrypt hash. Lookups during login and registration treat email as
//     an exact, case-sensitive match.
//   - Login failures never reveal whether the email exists; an unknown email
//     and a wrong password surface the same error.
//
// Sessions:
//   - Successful logins mint a signed, expiring bearer token. Validation pins
//     the signing algorithm family, so a token declaring a different scheme
//     is rejected before signature checks.
//   - The tokenware middleware guards protected routes, placing the verified
//     claims in router locals and the acting user id in the request context.
//
// Ownership:
//   - Every task belongs to exactly one user, fixed at creation. Reads and
//     writes are scoped to the owner; a task owned by someone else produces
//     the same not-found error as a task that does not exist.
package tasks
