// Package setup holds the SSH side of gitsetup: locating, backing up, and
// generating the key pair, registering it with ssh-agent, testing
// authentication, and describing the three managed files (ssh host alias,
// gpg-agent pinentry line, shell rc GPG_TTY export).
//
// Key generation shells out to ssh-keygen attached to the terminal so the
// user can choose a passphrase. The resulting public key is parsed with
// golang.org/x/crypto/ssh before it is shown or published.
//
// Replacing a key never deletes anything: both halves are renamed to
// <name>.bak.<unix seconds> first.
package setup
