// Package flatfile implements the storage repositories as plain files
// under a single data root: a users.json credential mapping, one JSON
// record per chat session, and a binary semantic index file per user.
//
// Paths are partitioned per username (see Layout), and every write that a
// concurrent process could observe goes through WriteFileAtomic.
package flatfile
