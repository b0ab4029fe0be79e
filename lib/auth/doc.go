// Package auth maps request credentials to identities and backs the
// ownership authorization of every mutating store operation.
//
// Two components:
//
//   - Registry: known identities with bcrypt password hashes. Register
//     and Verify are the only operations; there is no identity mutation.
//
//   - TokenService: issues HS256 signed tokens naming an identity and
//     resolves incoming credentials back to that identity. Resolution
//     failure is the InvalidCredential condition of the error taxonomy.
//
// The ownership rule itself (record.Owner == identity) is enforced inside
// the store's critical sections; this package only answers "who is
// calling".
package auth
