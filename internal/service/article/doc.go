// Package article implements article submission, listing, likes and edits.
//
// A Service runs in one AuthMode fixed at construction. In ModeRequired every
// write needs a caller, new articles record that caller as author, and only
// the author may edit. In ModeDisabled all operations are anonymous and
// articles carry no author.
package article
