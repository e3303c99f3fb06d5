// Package auth implements authentication for the library service: bcrypt
// password hashing, SQLite-backed sessions (scs), CSRF protection, a login
// rate limiter, and Gin middleware that resolves the session into a
// request-scoped user with role-based route guards.
package auth
