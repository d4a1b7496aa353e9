// Package password hashes and verifies login passwords with argon2id.
//
// Hashes use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # What this package must NOT do
//
//   - Store or look up users. Callers supply plaintext and hashes.
//   - Import any other sessionauth package.
//   - Log plaintext passwords.
package password
